// =============================================================================
// Portfolio Import - CSV Reader
// =============================================================================
//
// Some portfolio exports arrive as CSV instead of a workbook. This module
// reads them into the same types.Sheet shape the workbook extractor returns,
// so the rest of the import does not care about the source format.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, pipe, tab)
//   - Legacy encodings (Windows-1252, ISO-8859-1...) decoded to UTF-8
//   - Byte order marks honoured and stripped
//   - Header = first non-empty record, blank records skipped
//   - Quoted fields may span lines ("France\nFR1700574")
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/clemsmoz/startingbloch-sub005/internal/config"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
)

// ErrEmptyInput is returned for input without any non-empty record.
var ErrEmptyInput = eris.New("csv input is empty")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ReadFile reads a CSV file from disk.
func ReadFile(filePath string, settings config.CSVSettings) (*types.Sheet, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", filePath)
	}
	return ReadRows(bytes.NewReader(data), filepath.Base(filePath), settings)
}

// ReadRows parses CSV records from r.
//
// PARAMETERS:
//   - r: The raw (possibly non UTF-8) CSV content.
//   - name: Reported as the sheet name.
//   - settings: Delimiter and encoding.
//
// RETURNS:
//   - The header and the non-empty rows, numbered from 1 like sheet rows.
//   - ErrEmptyInput when there is no header, or a decoding error.
func ReadRows(r io.Reader, name string, settings config.CSVSettings) (*types.Sheet, error) {
	decoder, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(decoder.NewDecoder())))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "failed to read CSV")
	}

	sheet := &types.Sheet{Name: name, SheetNames: []string{name}}

	headerAt := -1
	for i, row := range allRows {
		if !types.IsBlank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrEmptyInput
	}

	sheet.Columns = types.KeyColumns(allRows[headerAt])
	for i := headerAt + 1; i < len(allRows); i++ {
		if types.IsBlank(allRows[i]) {
			continue
		}
		// ReadAll loses physical line numbers once quoted fields span lines,
		// so rows are numbered by record.
		sheet.Rows = append(sheet.Rows, types.NewRawRow(i+1, sheet.Columns, allRows[i]))
	}

	return sheet, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Exports frequently have ragged rows and stray quotes.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// decoderFor resolves a WHATWG encoding label.
func decoderFor(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "utf-8"
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, eris.Wrapf(err, "unsupported encoding %q", label)
	}
	return enc, nil
}
