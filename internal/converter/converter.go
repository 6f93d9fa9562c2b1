// =============================================================================
// Portfolio Import - Converter Module
// =============================================================================
//
// This module contains the core import logic. It turns one portfolio
// spreadsheet into patent families, each holding its national deposits.
//
// CONVERSION PIPELINE:
//   1. Read the rows of the selected sheet (xlsxparser or csvparser)
//   2. Bind the header labels to logical fields (columns.go)
//   3. Resolve every row, carrying merged-cell values forward (resolver.go)
//   4. Attach a country code to each deposit (country package)
//   5. Group the deposits into families (grouping.go)
//
// Field-level problems never abort an import: an unparsable date is left
// empty and reported as a Diagnostic. Only an unreadable input is an error,
// and then no partial result is returned.
//
// CONCURRENCY:
//   A Converter holds configuration only. Every Parse call keeps its own
//   state, so one Converter may serve several goroutines.
//
// =============================================================================

package converter

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/clemsmoz/startingbloch-sub005/internal/config"
	"github.com/clemsmoz/startingbloch-sub005/internal/country"
	"github.com/clemsmoz/startingbloch-sub005/internal/csvparser"
	"github.com/clemsmoz/startingbloch-sub005/internal/dates"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
	"github.com/clemsmoz/startingbloch-sub005/internal/xlsxparser"
)

// ErrUnsupportedFile is returned by ParseFile for an unknown file extension.
var ErrUnsupportedFile = eris.New("unsupported input file")

// =============================================================================
// REPORT STRUCTURE
// =============================================================================

// Diagnostic records a field that could not be interpreted. The field is
// left empty in the result; the rest of the row is kept.
type Diagnostic struct {
	// Row is the 1-based sheet row.
	Row int `json:"row"`

	// Field is the configuration key of the field, e.g. "depositDate".
	Field string `json:"field"`

	// Value is the raw cell text.
	Value string `json:"value"`

	Message string `json:"message"`
}

// Stats contains statistics about one import.
type Stats struct {
	// RowsRead is the number of non-empty data rows.
	RowsRead int

	// Families is the number of families produced.
	Families int

	// Deposits is the number of deposits produced.
	Deposits int

	// Duration is the time taken by the parse.
	Duration time.Duration
}

// Report is the outcome of importing one spreadsheet.
type Report struct {
	// SheetName is the sheet that was read.
	SheetName string

	Families    []types.ParsedFamily
	Diagnostics []Diagnostic
	Stats       Stats
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Logger is the logging surface used by the converter. *zap.SugaredLogger
// satisfies it.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Options configures a Converter. The zero value gives the default behavior.
type Options struct {
	// SheetMarker selects the sheet to read, see xlsxparser.SelectSheet.
	SheetMarker string

	// Password opens encrypted workbooks.
	Password string

	// RegionalOffices are filing prefixes resolved through the country name.
	RegionalOffices []string

	// YearPolicy is the century rule for two-digit years in dates.
	YearPolicy dates.YearPolicy

	// ExtraAliases adds header labels per field key, tried first.
	ExtraAliases map[string][]string

	// CSV configures .csv inputs.
	CSV config.CSVSettings

	// Logger receives progress and diagnostics. Nil discards them.
	Logger Logger
}

// Converter imports portfolio spreadsheets.
type Converter struct {
	opts      Options
	countries *country.Resolver
	logger    Logger
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - opts: The import options.
//
// RETURNS:
//   - A new Converter instance.
//   - An error if an option is invalid.
func New(opts Options) (*Converter, error) {
	policy, ok := dates.ParseYearPolicy(string(opts.YearPolicy))
	if !ok {
		return nil, eris.Errorf("unknown two-digit year policy %q", opts.YearPolicy)
	}
	opts.YearPolicy = policy

	if opts.SheetMarker == "" {
		opts.SheetMarker = xlsxparser.DefaultSheetMarker
	}
	for key := range opts.ExtraAliases {
		if _, err := ParseField(key); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Converter{
		opts:      opts,
		countries: country.NewResolver(nil, opts.RegionalOffices),
		logger:    logger,
	}, nil
}

// FromConfig builds a Converter from the import section of the configuration.
func FromConfig(cfg config.ImportConfig, logger Logger) (*Converter, error) {
	return New(Options{
		SheetMarker:     cfg.SheetMarker,
		RegionalOffices: cfg.RegionalOffices,
		YearPolicy:      dates.YearPolicy(cfg.TwoDigitYear),
		ExtraAliases:    cfg.Columns,
		CSV:             cfg.CSV,
		Logger:          logger,
	})
}

// ParseWorkbook imports an .xlsx workbook with the default options and
// returns its families.
func ParseWorkbook(data []byte) ([]types.ParsedFamily, error) {
	conv, err := New(Options{})
	if err != nil {
		return nil, err
	}
	report, err := conv.Parse(data)
	if err != nil {
		return nil, err
	}
	return report.Families, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Parse imports the bytes of an .xlsx workbook.
//
// RETURNS:
//   - The import report.
//   - An error wrapping xlsxparser.ErrUnreadableWorkbook if the workbook
//     cannot be opened.
func (c *Converter) Parse(data []byte) (*Report, error) {
	sheet, err := xlsxparser.ReadRows(data, xlsxparser.Options{
		SheetMarker: c.opts.SheetMarker,
		Password:    c.opts.Password,
	})
	if err != nil {
		return nil, err
	}
	return c.ParseSheet(sheet)
}

// ParseFile imports a workbook or CSV export from disk, chosen by extension.
func (c *Converter) ParseFile(path string) (*Report, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to read %s", path)
		}
		return c.Parse(data)
	case ".csv":
		sheet, err := csvparser.ReadFile(path, c.opts.CSV)
		if err != nil {
			return nil, err
		}
		return c.ParseSheet(sheet)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFile, "%s", path)
	}
}

// ParseSheet resolves and groups the rows of an already read sheet.
func (c *Converter) ParseSheet(sheet *types.Sheet) (*Report, error) {
	startTime := time.Now()

	columns, err := BuildColumnMap(sheet.Columns, c.opts.ExtraAliases)
	if err != nil {
		return nil, err
	}
	c.logColumns(sheet, columns)

	resolver := &rowResolver{
		columns:   columns,
		countries: c.countries,
		dates:     dates.Normalizer{Years: c.opts.YearPolicy},
		logger:    c.logger,
	}
	deposits, diagnostics := resolver.resolveRows(sheet.Rows)
	families := GroupFamilies(deposits)

	report := &Report{
		SheetName:   sheet.Name,
		Families:    families,
		Diagnostics: diagnostics,
		Stats: Stats{
			RowsRead: len(sheet.Rows),
			Families: len(families),
			Deposits: len(deposits),
			Duration: time.Since(startTime),
		},
	}

	c.logger.Infof("sheet %q: %d rows, %d families, %d deposits, %d diagnostics",
		sheet.Name, report.Stats.RowsRead, report.Stats.Families, report.Stats.Deposits, len(diagnostics))

	return report, nil
}

// logColumns reports the detected columns at debug level.
func (c *Converter) logColumns(sheet *types.Sheet, columns *ColumnMap) {
	c.logger.Debugf("sheet %q selected among %v", sheet.Name, sheet.SheetNames)
	for f := FieldReference; f <= FieldCountryCompound; f++ {
		if columns.Has(f) {
			c.logger.Debugf("field %s <- %q", f, columns.Labels(f))
		} else {
			c.logger.Debugf("field %s: no column", f)
		}
	}
}
