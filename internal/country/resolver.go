// =============================================================================
// Country / Jurisdiction Resolver
// =============================================================================
//
// Works out the two-letter country of one deposit row from the signals the
// row carries: the filing number, the filing number hidden in a compound
// "country (filing number)" cell, the publication number, and the country
// name on the first line of that compound cell.
//
// RESOLUTION ORDER:
//   1. The filing prefix is the leading one or two letters of the first available
//      number (filing, compound filing, publication).
//   2. If that prefix belongs to a regional office (EP by default), the
//      prefix says nothing about the country: resolve the country name
//      instead, falling back to the prefix when the name is unknown.
//   3. Otherwise use the publication number's prefix, then the compound
//      filing number's prefix.
//
// The code is advisory metadata. Number canonicalization never reads it.
//
// =============================================================================

package country

import (
	"regexp"
	"strings"
)

var leadingLetters = regexp.MustCompile(`^[A-Za-z]{1,2}`)

// Signals are the per-row inputs of the resolver. Empty means absent.
type Signals struct {
	DepositNumber         string
	CompoundDepositNumber string
	PublicationNumber     string
	CountryName           string
}

// Source tells which signal produced a resolution.
type Source string

const (
	SourceNone              Source = ""
	SourceCountryName       Source = "country-name"
	SourceFilingPrefix      Source = "filing-prefix"
	SourcePublicationPrefix Source = "publication-prefix"
	SourceCompoundPrefix    Source = "compound-prefix"
)

// Resolution is the resolved code and where it came from.
type Resolution struct {
	Alpha2 string
	Source Source
}

// Resolver holds the name table and the set of regional office prefixes.
type Resolver struct {
	table    *Table
	regional map[string]bool
}

// DefaultRegionalOffices are prefixes that do not identify a country.
var DefaultRegionalOffices = []string{"EP"}

// NewResolver builds a resolver over table. A nil table means DefaultTable;
// an empty office list means DefaultRegionalOffices.
func NewResolver(table *Table, regionalOffices []string) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	if len(regionalOffices) == 0 {
		regionalOffices = DefaultRegionalOffices
	}

	regional := make(map[string]bool, len(regionalOffices))
	for _, office := range regionalOffices {
		regional[strings.ToUpper(strings.TrimSpace(office))] = true
	}
	return &Resolver{table: table, regional: regional}
}

// Resolve returns the country of a row, or a zero Resolution when no signal
// is available.
func (r *Resolver) Resolve(sig Signals) Resolution {
	candidate := firstNonEmpty(sig.DepositNumber, sig.CompoundDepositNumber, sig.PublicationNumber)
	filingPrefix := prefixOf(candidate)

	if filingPrefix != "" && r.regional[filingPrefix] {
		if code, ok := r.table.Lookup(sig.CountryName); ok {
			return Resolution{Alpha2: code, Source: SourceCountryName}
		}
		return Resolution{Alpha2: filingPrefix, Source: SourceFilingPrefix}
	}

	if p := prefixOf(sig.PublicationNumber); p != "" {
		return Resolution{Alpha2: p, Source: SourcePublicationPrefix}
	}
	if p := prefixOf(sig.CompoundDepositNumber); p != "" {
		return Resolution{Alpha2: p, Source: SourceCompoundPrefix}
	}
	return Resolution{}
}

// IsRegional reports whether prefix is configured as a regional office.
func (r *Resolver) IsRegional(prefix string) bool {
	return r.regional[strings.ToUpper(prefix)]
}

func prefixOf(s string) string {
	return strings.ToUpper(leadingLetters.FindString(strings.TrimSpace(s)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
