// =============================================================================
// Portfolio Import - Import Command
// =============================================================================
//
// This file defines the 'import' command, the main command of the tool. It
// orchestrates the whole pipeline for every input file.
//
// COMMAND USAGE:
//   patimport import [files...] [flags]
//
// FLAGS:
//   --format   : Export format, json | xml | xlsx (default from config)
//   --sheet    : Sheet marker overriding import.sheet_marker
//   --dry-run  : Import and check without writing or archiving anything
//
// PROCESSING PIPELINE:
//   1. Resolve the input files (arguments, or the input directory)
//   2. For each file (concurrently, at most max_concurrency at once):
//      a. Read the workbook or CSV export
//      b. Resolve rows into families
//      c. Run the well-formedness checks
//      d. Write the export and the check log
//      e. Archive the input and the export
//   3. Generate the run summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clemsmoz/startingbloch-sub005/internal/config"
	"github.com/clemsmoz/startingbloch-sub005/internal/converter"
	"github.com/clemsmoz/startingbloch-sub005/internal/export"
	"github.com/clemsmoz/startingbloch-sub005/internal/validation"
	"github.com/clemsmoz/startingbloch-sub005/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// importFormat overrides export_format.
var importFormat string

// importSheet overrides import.sheet_marker.
var importSheet string

// dryRun imports and checks without writing output files.
var dryRun bool

// =============================================================================
// IMPORT COMMAND DEFINITION
// =============================================================================

// importCmd represents the 'import' command.
var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import portfolio spreadsheets and export their patent families",
	Long: `The import command reads portfolio spreadsheets (.xlsx, .xlsm or .csv),
turns their rows into patent families and exports them.

Without arguments every portfolio of the input directory is imported. Files
are imported concurrently, and an error in one file does not stop the others.

On successful import:
  - The export is placed in the output directory
  - A check log lists incomplete or partly understood records
  - With archive_on_success, the input is moved to the input archive

On error:
  - The input remains where it is
  - The error is reported in the run summary`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(
		&importFormat,
		"format",
		"",
		"Export format: json, xml or xlsx (default from export_format)",
	)

	importCmd.Flags().StringVar(
		&importSheet,
		"sheet",
		"",
		"Import the first sheet whose name contains this marker",
	)

	importCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Import and check without writing or archiving anything",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// fileResult is the outcome of importing one file.
type fileResult struct {
	info utils.ImportedFileInfo
	err  error
}

// runImport orchestrates the import pipeline.
func runImport(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()
	cfg := *appConfig
	runID := uuid.New().String()
	log := logger.With(zap.String("run", runID))

	// =========================================================================
	// STEP 1: RESOLVE SETTINGS AND INPUT FILES
	// =========================================================================

	formatName := cfg.ExportFormat
	if importFormat != "" {
		formatName = importFormat
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if importSheet != "" {
		cfg.Import.SheetMarker = importSheet
	}

	conv, err := converter.FromConfig(cfg.Import, log.Sugar())
	if err != nil {
		return eris.Wrap(err, "invalid import settings")
	}

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	fm.ArchiveOnSuccess = cfg.ArchiveOnSuccess && !dryRun
	fm.UseTimestampSubdirs = cfg.ArchiveByDate

	inputFiles := args
	if len(inputFiles) == 0 {
		inputFiles, err = fm.DiscoverInputFiles()
		if err != nil {
			return err
		}
	}
	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No portfolio found in the input directory.")
		return nil
	}

	if !dryRun {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Importing %d file(s)\n", len(inputFiles))

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================
	// One goroutine per file, at most MaxConcurrency running at once.

	var wg sync.WaitGroup
	results := make(chan fileResult, len(inputFiles))
	slots := make(chan struct{}, cfg.MaxConcurrency)

	for _, file := range inputFiles {
		wg.Add(1)

		go func(path string) {
			defer wg.Done()

			slots <- struct{}{}
			defer func() { <-slots }()

			results <- importFile(conv, fm, &cfg, format, path, log)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 3: COLLECT RESULTS AND GENERATE SUMMARY
	// =========================================================================

	summary := utils.ImportSummary{
		RunID:      runID,
		StartTime:  startTime,
		TotalFiles: len(inputFiles),
	}

	for result := range results {
		name := filepath.Base(result.info.InputFile)
		if result.err != nil {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    result.info.InputFile,
				ErrorMessage: result.err.Error(),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.err)
			continue
		}

		info := result.info
		summary.SuccessfulFiles++
		summary.TotalRows += info.Rows
		summary.TotalFamilies += info.Families
		summary.TotalDeposits += info.Deposits
		summary.TotalFindings += info.Findings
		summary.ImportedFiles = append(summary.ImportedFiles, info)

		target := info.OutputFile
		if target == "" {
			target = "(dry run)"
		}
		fmt.Fprintf(out, "  ✓ %s -> %s (%d families, %d deposits, %d findings)\n",
			name, target, info.Families, info.Deposits, info.Findings)
	}
	summary.EndTime = time.Now()

	fmt.Fprintln(out)
	utils.WriteSummary(out, summary)

	if !dryRun {
		path, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			log.Warn("failed to write run summary", zap.Error(err))
		} else {
			log.Info("run summary written", zap.String("path", path))
		}
	}

	if summary.FailedFiles > 0 {
		return eris.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// importFile runs the pipeline for one file.
func importFile(conv *converter.Converter, fm *utils.FileManager, cfg *config.MainConfig, format export.Format, path string, log *zap.Logger) fileResult {
	startTime := time.Now()
	result := fileResult{info: utils.ImportedFileInfo{InputFile: path}}
	log = log.With(zap.String("file", filepath.Base(path)))

	report, err := conv.ParseFile(path)
	if err != nil {
		log.Error("import failed", zap.Error(err))
		result.err = err
		return result
	}

	check := validation.NewValidator().ValidateReport(report)
	for _, finding := range check.Errors {
		if finding.Severity != validation.SeverityInfo {
			log.Debug(finding.Error())
		}
	}

	result.info.Sheet = report.SheetName
	result.info.Rows = report.Stats.RowsRead
	result.info.Families = report.Stats.Families
	result.info.Deposits = report.Stats.Deposits
	result.info.Findings = len(check.Errors)

	if dryRun {
		result.info.ProcessTime = time.Since(startTime)
		return result
	}

	data, err := export.Render(report, format)
	if err != nil {
		result.err = err
		return result
	}

	name := utils.GenerateOutputFileName(cfg.OutputNameFormat, map[string]string{"name": utils.BaseName(path)}, format.Extension())
	outputPath, err := fm.WriteOutputFile(name, data)
	if err != nil {
		result.err = err
		return result
	}
	result.info.OutputFile = outputPath

	if len(check.Errors) > 0 {
		checkLog := strings.TrimSuffix(outputPath, format.Extension()) + "_check.log"
		if err := validation.WriteErrorLog(check.Errors, path, checkLog); err != nil {
			log.Warn("failed to write check log", zap.Error(err))
		} else {
			result.info.CheckLog = checkLog
		}
	}

	if fm.ArchiveOnSuccess {
		if _, err := fm.ArchiveOutputFile(outputPath); err != nil {
			log.Warn("failed to archive export", zap.Error(err))
		}
		archived, err := fm.ArchiveInputFile(path)
		if err != nil {
			log.Warn("failed to archive input", zap.Error(err))
		} else {
			result.info.ArchivePath = archived
		}
	}

	result.info.ProcessTime = time.Since(startTime)
	log.Info("imported",
		zap.String("output", outputPath),
		zap.Int("families", result.info.Families),
		zap.Int("deposits", result.info.Deposits),
		zap.Int("findings", result.info.Findings),
		zap.Duration("elapsed", result.info.ProcessTime),
	)
	return result
}
