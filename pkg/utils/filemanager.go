// =============================================================================
// Portfolio Import - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the import tool:
//   - Input discovery (workbooks and CSV exports)
//   - Export writing and naming
//   - File archival (moving imported files)
//   - Run summary generation
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to input_archive after a successful import
//   - Exports are copied to output_archive for long-term storage
//   - Failed inputs remain in their original location
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// InputExtensions are the file types picked up from the input directory.
var InputExtensions = []string{".xlsx", ".xlsm", ".csv"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the import tool.
type FileManager struct {
	// InputDir is the directory where portfolios are dropped.
	InputDir string

	// OutputDir is the directory where exports and logs are written.
	OutputDir string

	// InputArchiveDir is the directory for archived inputs.
	InputArchiveDir string

	// OutputArchiveDir is the directory for archived exports.
	OutputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in archives.
	// Example: input_archive/2024/01/15/portfolio.xlsx
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether to archive files after a
	// successful import.
	ArchiveOnSuccess bool
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
// Archive directories are only created when archiving is enabled.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.OutputDir}
	if fm.ArchiveOnSuccess {
		dirs = append(dirs, fm.InputArchiveDir, fm.OutputArchiveDir)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return eris.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files of the input directory whose extension
// is one of extensions, case-insensitively. Office lock files ("~$name.xlsx")
// are skipped.
//
// PARAMETERS:
//   - extensions: Extensions with the dot. Empty means InputExtensions.
//
// RETURNS:
//   - The matching file paths, sorted by name.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles(extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = InputExtensions
	}
	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to scan input directory %s", fm.InputDir)
	}

	var result []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if wanted[strings.ToLower(filepath.Ext(name))] {
			result = append(result, filepath.Join(fm.InputDir, name))
		}
	}
	sort.Strings(result)

	return result, nil
}

// =============================================================================
// OUTPUT FILES
// =============================================================================

// WriteOutputFile writes data under name in the output directory.
//
// RETURNS:
//   - The path of the written file.
//   - An error if writing fails.
func (fm *FileManager) WriteOutputFile(name string, data []byte) (string, error) {
	path := filepath.Join(fm.OutputDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", eris.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//
// RETURNS:
//   - The path to the archived file, or filePath when archiving is off.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(fm.InputArchiveDir, filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", eris.Wrap(err, "failed to create archive directory")
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", eris.Wrap(err, "failed to copy file to archive")
		}
		if err := os.Remove(filePath); err != nil {
			return "", eris.Wrap(err, "failed to remove original file")
		}
	}

	return archivePath, nil
}

// ArchiveOutputFile copies an export to the archive directory. The export
// stays in the output directory.
//
// RETURNS:
//   - The path to the archived copy, or filePath when archiving is off.
//   - An error if archival fails.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(fm.OutputArchiveDir, filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", eris.Wrap(err, "failed to create archive directory")
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", eris.Wrap(err, "failed to copy file to archive")
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(archiveDir, filePath string) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		now := time.Now()
		subDir := filepath.Join(
			archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(archiveDir, fileName)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {name}      - Input file name (without extension)
//   - params: Extra placeholder values, e.g. {"name": "portfolio"}.
//   - extension: The extension to ensure, with the dot.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "{name}_{timestamp}_{uuid}"
//   params: {"name": "portefeuille"}
//   output: "portefeuille_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.json"
func GenerateOutputFileName(format string, params map[string]string, extension string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if extension != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(extension)) {
		result += extension
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// =============================================================================
// IMPORT SUMMARY
// =============================================================================

// ImportSummary contains summary information about an import run.
type ImportSummary struct {
	RunID           string
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	TotalFamilies   int
	TotalDeposits   int
	TotalFindings   int
	ImportedFiles   []ImportedFileInfo
	FailedFilesList []FailedFileInfo
}

// ImportedFileInfo describes a successfully imported file.
type ImportedFileInfo struct {
	InputFile   string
	OutputFile  string
	CheckLog    string
	ArchivePath string
	Sheet       string
	Rows        int
	Families    int
	Deposits    int
	Findings    int
	ProcessTime time.Duration
}

// FailedFileInfo describes a file that could not be imported.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes an import summary to a log file.
//
// PARAMETERS:
//   - summary: The import summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ImportSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("import_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", eris.Wrap(err, "failed to create summary file")
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	WriteSummary(writer, summary)

	if err := writer.Flush(); err != nil {
		return "", eris.Wrap(err, "failed to flush summary file")
	}

	return summaryPath, nil
}

// WriteSummary renders summary as text.
func WriteSummary(w io.Writer, summary ImportSummary) {
	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(w, "Portfolio Import - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Total Rows:     %d\n"+
		"  Families:       %d\n"+
		"  Deposits:       %d\n"+
		"  Findings:       %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.TotalFamilies,
		summary.TotalDeposits,
		summary.TotalFindings)

	if len(summary.ImportedFiles) > 0 {
		fmt.Fprint(w, "Imported Files:\n")
		fmt.Fprint(w, "--------------------------------------------------------------------------------\n")
		for _, f := range summary.ImportedFiles {
			fmt.Fprintf(w, "  Input:        %s\n", f.InputFile)
			fmt.Fprintf(w, "  Sheet:        %s\n", f.Sheet)
			if f.OutputFile != "" {
				fmt.Fprintf(w, "  Output:       %s\n", f.OutputFile)
			}
			if f.CheckLog != "" {
				fmt.Fprintf(w, "  Check Log:    %s\n", f.CheckLog)
			}
			if f.ArchivePath != "" {
				fmt.Fprintf(w, "  Archived To:  %s\n", f.ArchivePath)
			}
			fmt.Fprintf(w, "  Rows:         %d\n", f.Rows)
			fmt.Fprintf(w, "  Families:     %d\n", f.Families)
			fmt.Fprintf(w, "  Deposits:     %d\n", f.Deposits)
			fmt.Fprintf(w, "  Findings:     %d\n", f.Findings)
			fmt.Fprintf(w, "  Process Time: %s\n\n", f.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		fmt.Fprint(w, "Failed Files:\n")
		fmt.Fprint(w, "--------------------------------------------------------------------------------\n")
		for _, f := range summary.FailedFilesList {
			fmt.Fprintf(w, "  File:  %s\n", f.InputFile)
			fmt.Fprintf(w, "  Error: %s\n\n", f.ErrorMessage)
		}
	}

	fmt.Fprint(w, "================================================================================\n"+
		"End of Summary\n")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
