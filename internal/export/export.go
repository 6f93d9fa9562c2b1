// =============================================================================
// Portfolio Import - Export Module
// =============================================================================
//
// This module renders an import report as JSON, XML or a normalized XLSX
// workbook. Exports carry every number twice: as typed in the source sheet
// and in canonical form, computed on demand. Nothing is persisted.
//
// FORMATS:
//   json : the families with canonical numbers and the diagnostics
//   xml  : see the xmlwriter package
//   xlsx : a "Deposits" sheet with one row per deposit and a
//          "Diagnostics" sheet
//
// =============================================================================

package export

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/clemsmoz/startingbloch-sub005/internal/converter"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
	"github.com/clemsmoz/startingbloch-sub005/internal/xmlwriter"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = eris.New("unknown export format, use json | xml | xlsx")

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatXML, FormatXLSX:
		return f, nil
	default:
		return "", eris.Wrapf(ErrUnknownFormat, "%q", name)
	}
}

// Extension returns the file extension of the format, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Render encodes report in the given format.
func Render(report *converter.Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return renderJSON(report)
	case FormatXML:
		return xmlwriter.Generate(report.Families, report.SheetName)
	case FormatXLSX:
		return renderXLSX(report)
	default:
		return nil, eris.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// =============================================================================
// JSON
// =============================================================================

// Number is a number as typed and in canonical form.
type Number struct {
	Raw       string `json:"raw"`
	Canonical string `json:"canonical"`
	Outcome   string `json:"outcome"`
	Rule      string `json:"rule,omitempty"`
}

// Deposit is the exported view of a deposit.
type Deposit struct {
	types.ParsedDeposit
	Canonical struct {
		Depot       *Number `json:"depot,omitempty"`
		Publication *Number `json:"publication,omitempty"`
		Delivrance  *Number `json:"delivrance,omitempty"`
	} `json:"canonical"`
}

// Family is the exported view of a family.
type Family struct {
	ReferenceFamille string    `json:"referenceFamille,omitempty"`
	Titre            string    `json:"titre,omitempty"`
	Deposits         []Deposit `json:"deposits"`
}

// Document is the root of the JSON export.
type Document struct {
	Sheet       string                 `json:"sheet,omitempty"`
	Families    []Family               `json:"families"`
	Diagnostics []converter.Diagnostic `json:"diagnostics"`
}

// NewDocument builds the exported view of report.
func NewDocument(report *converter.Report) Document {
	doc := Document{
		Sheet:       report.SheetName,
		Families:    make([]Family, 0, len(report.Families)),
		Diagnostics: report.Diagnostics,
	}
	if doc.Diagnostics == nil {
		doc.Diagnostics = []converter.Diagnostic{}
	}

	for _, f := range report.Families {
		family := Family{
			ReferenceFamille: f.ReferenceFamille,
			Titre:            f.Titre,
			Deposits:         make([]Deposit, 0, len(f.Deposits)),
		}
		for _, d := range f.Deposits {
			ids := converter.Canonical(d)
			deposit := Deposit{ParsedDeposit: d}
			deposit.Canonical.Depot = number(d.NumeroDepot, ids.Depot.Value, ids.Depot.Outcome.String(), ids.Depot.Rule)
			deposit.Canonical.Publication = number(d.NumeroPublication, ids.Publication.Value, ids.Publication.Outcome.String(), ids.Publication.Rule)
			deposit.Canonical.Delivrance = number(d.NumeroDelivrance, ids.Delivrance.Value, ids.Delivrance.Outcome.String(), ids.Delivrance.Rule)
			family.Deposits = append(family.Deposits, deposit)
		}
		doc.Families = append(doc.Families, family)
	}
	return doc
}

func number(raw, canonical, outcome, rule string) *Number {
	if raw == "" {
		return nil
	}
	return &Number{Raw: raw, Canonical: canonical, Outcome: outcome, Rule: rule}
}

func renderJSON(report *converter.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(report)); err != nil {
		return nil, eris.Wrap(err, "failed to encode JSON export")
	}
	return buf.Bytes(), nil
}
