package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.CSV", "c.xlsm", "notes.txt", "~$b.xlsx"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0o755); err != nil {
		t.Fatal(err)
	}

	fm := NewFileManager(dir, "", "", "")

	got, err := fm.DiscoverInputFiles()
	if err != nil {
		t.Fatalf("DiscoverInputFiles failed: %v", err)
	}
	want := []string{filepath.Join(dir, "a.CSV"), filepath.Join(dir, "b.xlsx"), filepath.Join(dir, "c.xlsm")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = fm.DiscoverInputFiles(".csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("csv only: got %v", got)
	}

	if _, err := NewFileManager(filepath.Join(dir, "missing"), "", "", "").DiscoverInputFiles(); err == nil {
		t.Error("expected an error for a missing input directory")
	}
}

func TestArchiveFiles(t *testing.T) {
	root := t.TempDir()
	fm := NewFileManager(
		filepath.Join(root, "in"),
		filepath.Join(root, "out"),
		filepath.Join(root, "in_archive"),
		filepath.Join(root, "out_archive"),
	)
	fm.ArchiveOnSuccess = true
	if err := os.MkdirAll(fm.InputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := fm.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	input := filepath.Join(fm.InputDir, "portfolio.xlsx")
	touch(t, input)

	archived, err := fm.ArchiveInputFile(input)
	if err != nil {
		t.Fatalf("ArchiveInputFile failed: %v", err)
	}
	if archived != filepath.Join(fm.InputArchiveDir, "portfolio.xlsx") {
		t.Errorf("archived to %s", archived)
	}
	if _, err := os.Stat(input); !os.IsNotExist(err) {
		t.Error("input should have been moved")
	}

	output, err := fm.WriteOutputFile("portfolio.json", []byte("{}"))
	if err != nil {
		t.Fatalf("WriteOutputFile failed: %v", err)
	}
	copied, err := fm.ArchiveOutputFile(output)
	if err != nil {
		t.Fatalf("ArchiveOutputFile failed: %v", err)
	}
	for _, p := range []string{output, copied} {
		if data, err := os.ReadFile(p); err != nil || string(data) != "{}" {
			t.Errorf("%s: %q, %v", p, data, err)
		}
	}
}

func TestArchiveDisabledIsNoop(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "portfolio.csv")
	touch(t, input)

	fm := NewFileManager(dir, dir, filepath.Join(dir, "archive"), filepath.Join(dir, "archive"))
	got, err := fm.ArchiveInputFile(input)
	if err != nil || got != input {
		t.Errorf("got %s, %v", got, err)
	}
	if _, err := os.Stat(input); err != nil {
		t.Error("input should stay in place")
	}
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{name}_{date}_{uuid}", map[string]string{"name": "portefeuille"}, ".json")

	pattern := regexp.MustCompile(`^portefeuille_\d{8}_[0-9a-f-]{36}\.json$`)
	if !pattern.MatchString(name) {
		t.Errorf("unexpected name %q", name)
	}

	if got := GenerateOutputFileName("fixed.xml", nil, ".xml"); got != "fixed.xml" {
		t.Errorf("extension should not be doubled, got %q", got)
	}
	if got := BaseName("/tmp/in/Portefeuille 2024.xlsx"); got != "Portefeuille 2024" {
		t.Errorf("BaseName = %q", got)
	}
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

	summary := ImportSummary{
		RunID:           "run-1",
		StartTime:       start,
		EndTime:         start.Add(2 * time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalFamilies:   3,
		ImportedFiles:   []ImportedFileInfo{{InputFile: "a.xlsx", Sheet: "Synthèse", Families: 3}},
		FailedFilesList: []FailedFileInfo{{InputFile: "b.xlsx", ErrorMessage: "unreadable workbook"}},
	}

	path, err := WriteSummaryLog(summary, dir)
	if err != nil {
		t.Fatalf("WriteSummaryLog failed: %v", err)
	}
	if filepath.Base(path) != "import_summary_20240115_143002.txt" {
		t.Errorf("path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Run ID:         run-1", "Duration:       2s", "Sheet:        Synthèse", "Error: unreadable workbook"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("summary missing %q:\n%s", want, data)
		}
	}
}

func TestArchiveByDateSubdirectories(t *testing.T) {
	root := t.TempDir()
	fm := NewFileManager(root, root, filepath.Join(root, "archive"), filepath.Join(root, "archive"))
	fm.ArchiveOnSuccess = true
	fm.UseTimestampSubdirs = true

	input := filepath.Join(root, "portfolio.xlsx")
	touch(t, input)

	archived, err := fm.ArchiveInputFile(input)
	if err != nil {
		t.Fatalf("ArchiveInputFile failed: %v", err)
	}
	rel, err := filepath.Rel(fm.InputArchiveDir, archived)
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^\d{4}/\d{2}/\d{2}/portfolio\.xlsx$`).MatchString(filepath.ToSlash(rel)) {
		t.Errorf("archived to %s", rel)
	}
}
