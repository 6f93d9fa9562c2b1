// =============================================================================
// Portfolio Import - Shared Types
// =============================================================================
//
// This package contains the record types shared by the readers, the resolver,
// the validator and the exporters. Keeping them here avoids import cycles
// between those packages.
//
// FLOW:
//   xlsxparser / csvparser  ->  []RawRow
//   converter               ->  []ParsedDeposit  ->  []ParsedFamily
//   validation, export      <-  []ParsedFamily
//
// An empty string always means "no value". Readers never omit a column from
// RawRow.Values; they store "" instead.
//
// =============================================================================

package types

// NoReferenceKey is the family key used for rows that never saw a family
// reference, so that no row is dropped.
const NoReferenceKey = "__no_ref__"

// =============================================================================
// RAW ROWS
// =============================================================================

// RawRow is one data row of the source sheet, keyed by header label.
type RawRow struct {
	// Number is the 1-based row number in the source sheet or file.
	Number int

	// Columns lists the header labels in sheet order. Duplicate labels carry
	// a numeric suffix ("Pays_1"), blank labels are "__EMPTY", "__EMPTY_1"...
	Columns []string

	// Values maps every label in Columns to its cell text, "" when empty.
	Values map[string]string
}

// Get returns the value stored under label, "" when absent.
func (r RawRow) Get(label string) string {
	return r.Values[label]
}

// =============================================================================
// PARSED RECORDS
// =============================================================================

// ParsedDeposit is one jurisdiction-level filing after field resolution.
// Numbers are kept as typed; canonical forms are computed by the exporters.
type ParsedDeposit struct {
	RefFamille        string   `json:"refFamille,omitempty"`
	Titre             string   `json:"titre,omitempty"`
	NumeroDepot       string   `json:"numeroDepot,omitempty"`
	NumeroPublication string   `json:"numeroPublication,omitempty"`
	NumeroDelivrance  string   `json:"numeroDelivrance,omitempty"`
	DateDepot         string   `json:"dateDepot,omitempty"`
	DatePublication   string   `json:"datePublication,omitempty"`
	DateDelivrance    string   `json:"dateDelivrance,omitempty"`
	Statut            string   `json:"statut,omitempty"`
	CountryAlpha2     string   `json:"countryAlpha2,omitempty"`
	Inventeurs        []string `json:"inventeurs,omitempty"`
	Deposant          string   `json:"deposant,omitempty"`
	Client            string   `json:"client,omitempty"`

	// SourceRow is the sheet row this deposit came from.
	SourceRow int `json:"sourceRow"`
}

// ParsedFamily groups the deposits sharing one family reference, in sheet
// order.
type ParsedFamily struct {
	// ReferenceFamille is empty for the NoReferenceKey bucket.
	ReferenceFamille string          `json:"referenceFamille,omitempty"`
	Titre            string          `json:"titre,omitempty"`
	Deposits         []ParsedDeposit `json:"deposits"`
}

// Key returns the grouping key of the family.
func (f ParsedFamily) Key() string {
	if f.ReferenceFamille == "" {
		return NoReferenceKey
	}
	return f.ReferenceFamille
}
