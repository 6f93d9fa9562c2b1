// =============================================================================
// Portfolio Import - Workbook Row Extractor
// =============================================================================
//
// This module reads an uploaded portfolio workbook (.xlsx / .xlsm) from memory
// and returns its data rows keyed by header label.
//
// SHEET SELECTION:
//   Portfolio exports usually carry several sheets. The sheet whose name
//   contains the marker (default "synth", as in "Synthèse des statuts") is
//   used; case and accents are ignored. Without such a sheet the first sheet
//   of the workbook is used.
//
// ROW LAYOUT:
//   | Ref   | Titre     | Pays\n(Numéro de dépôt) | Numéro de publication | ...
//   |-------|-----------|-------------------------|-----------------------|
//   | FAM1  | Capteur   | France\nFR1700574       | FR3012345             |
//   |       |           | Europe\nEP13720022.6    |                       |
//
//   The first non-empty row is the header. Every following non-empty row
//   becomes one types.RawRow. Cells are read unformatted, so date cells come
//   back as Excel serial numbers and numeric cells without grouping.
//
// ERRORS:
//   A workbook that cannot be opened or has no sheet is rejected as a whole
//   with an error wrapping ErrUnreadableWorkbook. No partial result is
//   returned.
//
// =============================================================================

package xlsxparser

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/clemsmoz/startingbloch-sub005/internal/textnorm"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnreadableWorkbook is the root of every read failure.
	ErrUnreadableWorkbook = eris.New("unreadable workbook")

	// ErrNoSheets is returned for a workbook without any worksheet.
	ErrNoSheets = eris.Wrap(ErrUnreadableWorkbook, "workbook has no sheets")
)

// =============================================================================
// OPTIONS
// =============================================================================

// DefaultSheetMarker selects the status summary sheet of portfolio exports.
const DefaultSheetMarker = "synth"

// Options controls sheet selection.
type Options struct {
	// SheetMarker is matched against sheet names, ignoring case and accents.
	// Default: "synth"
	SheetMarker string

	// Password opens encrypted workbooks.
	Password string
}

// =============================================================================
// READER
// =============================================================================

// ReadRows parses a whole workbook held in memory.
//
// PARAMETERS:
//   - data: The complete file content.
//   - opts: Sheet selection options; the zero value uses the defaults.
//
// RETURNS:
//   - The selected sheet's header and rows.
//   - An error wrapping ErrUnreadableWorkbook if the workbook cannot be read.
func ReadRows(data []byte, opts Options) (*types.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{Password: opts.Password})
	if err != nil {
		return nil, eris.Wrapf(ErrUnreadableWorkbook, "open: %v", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}

	name := SelectSheet(names, opts.SheetMarker)

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(ErrUnreadableWorkbook, "read sheet %q: %v", name, err)
	}

	sheet := &types.Sheet{Name: name, SheetNames: names}

	headerAt := -1
	for i, row := range rows {
		if !types.IsBlank(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return sheet, nil
	}

	sheet.Columns = types.KeyColumns(rows[headerAt])
	for i := headerAt + 1; i < len(rows); i++ {
		if types.IsBlank(rows[i]) {
			continue
		}
		sheet.Rows = append(sheet.Rows, types.NewRawRow(i+1, sheet.Columns, rows[i]))
	}

	return sheet, nil
}

// SelectSheet returns the first sheet whose name contains marker, or the
// first sheet. names must not be empty.
func SelectSheet(names []string, marker string) string {
	if marker == "" {
		marker = DefaultSheetMarker
	}
	for _, name := range names {
		if textnorm.ContainsFold(name, marker) {
			return name
		}
	}
	return names[0]
}
