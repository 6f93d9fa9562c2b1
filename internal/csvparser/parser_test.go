package csvparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/clemsmoz/startingbloch-sub005/internal/config"
)

func TestReadRowsSemicolonWindows1252(t *testing.T) {
	// "Numéro Dépôt" and "Publié" encoded in Windows-1252.
	content := []byte("Ref;Numero D\xe9p\xf4t;Statut\r\nFAM1;FR1700574;Publi\xe9\r\n;;\r\n;EP13720022.6;\r\n")

	sheet, err := ReadRows(bytes.NewReader(content), "export.csv", config.CSVSettings{
		Delimiter: ";",
		Encoding:  "windows-1252",
	})
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}

	if len(sheet.Columns) != 3 || sheet.Columns[1] != "Numero Dépôt" {
		t.Fatalf("Columns = %q", sheet.Columns)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if got := sheet.Rows[0].Get("Statut"); got != "Publié" {
		t.Errorf("Statut = %q", got)
	}
	if sheet.Rows[1].Number != 4 {
		t.Errorf("second row number = %d, want 4", sheet.Rows[1].Number)
	}
	if v, ok := sheet.Rows[1].Values["Ref"]; !ok || v != "" {
		t.Errorf("empty Ref should be explicit, got (%q, %v)", v, ok)
	}
}

func TestReadRowsStripsBOMAndKeepsMultilineCells(t *testing.T) {
	content := "\xef\xbb\xbfRef,\"Pays\n(Numéro de dépôt)\"\nFAM2,\"Europe\nEP2009000123.4\"\n"

	sheet, err := ReadRows(strings.NewReader(content), "bom.csv", config.CSVSettings{})
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if sheet.Columns[0] != "Ref" {
		t.Errorf("BOM not stripped: %q", sheet.Columns[0])
	}
	if got := sheet.Rows[0].Get("Pays\n(Numéro de dépôt)"); got != "Europe\nEP2009000123.4" {
		t.Errorf("compound cell = %q", got)
	}
}

func TestReadRowsEmptyInput(t *testing.T) {
	_, err := ReadRows(strings.NewReader("\n ; \n"), "empty.csv", config.CSVSettings{Delimiter: ";"})
	if !eris.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestReadRowsUnknownEncoding(t *testing.T) {
	_, err := ReadRows(strings.NewReader("a\n1\n"), "x.csv", config.CSVSettings{Encoding: "klingon"})
	if err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	if err := os.WriteFile(path, []byte("Ref|Titre\nFAM1|Capteur\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sheet, err := ReadFile(path, config.CSVSettings{Delimiter: "pipe"})
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if sheet.Name != "portfolio.csv" || sheet.Rows[0].Get("Titre") != "Capteur" {
		t.Errorf("unexpected sheet: %+v", sheet)
	}
}
