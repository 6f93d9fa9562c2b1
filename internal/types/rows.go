package types

import (
	"strconv"
	"strings"
)

// Sheet is the tabular content read from one workbook sheet or CSV file.
type Sheet struct {
	// Name is the worksheet that was read, or the file name for CSV input.
	Name string

	// Columns are the keyed header labels, see KeyColumns.
	Columns []string

	// Rows are the non-empty data rows in source order.
	Rows []RawRow

	// SheetNames lists every sheet of the workbook, in workbook order.
	SheetNames []string
}

// KeyColumns turns a header row into unique column labels. Labels are
// trimmed; blank ones become "__EMPTY", "__EMPTY_1"... and repeated ones get
// "_1", "_2"... in order of appearance.
func KeyColumns(header []string) []string {
	labels := make([]string, len(header))
	seen := make(map[string]int, len(header))
	blanks := 0

	for i, h := range header {
		label := strings.TrimSpace(h)
		if label == "" {
			label = "__EMPTY"
			if blanks > 0 {
				label += "_" + strconv.Itoa(blanks)
			}
			blanks++
		}

		if n, dup := seen[label]; dup {
			seen[label] = n + 1
			label = label + "_" + strconv.Itoa(n+1)
		} else {
			seen[label] = 0
		}
		labels[i] = label
	}
	return labels
}

// NewRawRow pairs columns with cells. Missing cells are stored as "".
func NewRawRow(number int, columns []string, cells []string) RawRow {
	values := make(map[string]string, len(columns))
	for i, col := range columns {
		if i < len(cells) {
			values[col] = cells[i]
		} else {
			values[col] = ""
		}
	}
	return RawRow{Number: number, Columns: columns, Values: values}
}

// IsBlank reports whether every cell is empty after trimming.
func IsBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
