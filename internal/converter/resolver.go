package converter

import (
	"regexp"
	"strings"

	"github.com/clemsmoz/startingbloch-sub005/internal/country"
	"github.com/clemsmoz/startingbloch-sub005/internal/dates"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
)

// =============================================================================
// FORWARD-FILL STATE
// =============================================================================

// fillState carries the values a merged-cell sheet only writes on the first
// row of a block. It is threaded through the rows of one parse and never
// shared between parses.
type fillState struct {
	reference   string
	depositDate string
	status      string
}

// advance returns the state after a row. A non-empty value replaces its slot,
// an empty one keeps the previous value.
func (s fillState) advance(reference, depositDate, status string) fillState {
	if reference != "" {
		s.reference = reference
	}
	if depositDate != "" {
		s.depositDate = depositDate
	}
	if status != "" {
		s.status = status
	}
	return s
}

// =============================================================================
// ROW RESOLVER
// =============================================================================

var (
	lineBreak         = regexp.MustCompile(`\r?\n`)
	inventorSeparator = regexp.MustCompile(`[,;\n]`)
)

// rowResolver turns raw rows into deposits.
type rowResolver struct {
	columns   *ColumnMap
	countries *country.Resolver
	dates     dates.Normalizer
	logger    Logger
}

// resolveRows folds the rows in sheet order.
func (r *rowResolver) resolveRows(rows []types.RawRow) ([]types.ParsedDeposit, []Diagnostic) {
	var (
		state       fillState
		deposits    = make([]types.ParsedDeposit, 0, len(rows))
		diagnostics []Diagnostic
	)

	for _, row := range rows {
		var deposit types.ParsedDeposit
		var diags []Diagnostic
		deposit, state, diags = r.resolveRow(state, row)
		deposits = append(deposits, deposit)
		diagnostics = append(diagnostics, diags...)
	}
	return deposits, diagnostics
}

// resolveRow resolves one row against the carried state.
func (r *rowResolver) resolveRow(state fillState, row types.RawRow) (types.ParsedDeposit, fillState, []Diagnostic) {
	get := func(f Field) string { return r.columns.Value(row, f) }

	rawDepositDate := get(FieldDepositDate)
	state = state.advance(get(FieldReference), rawDepositDate, get(FieldStatus))

	countryName, compoundNumber := splitCompound(get(FieldCountryCompound))

	deposit := types.ParsedDeposit{
		RefFamille:        state.reference,
		Titre:             get(FieldTitle),
		NumeroDepot:       get(FieldDepositNumber),
		NumeroPublication: get(FieldPublicationNumber),
		NumeroDelivrance:  get(FieldGrantNumber),
		Statut:            state.status,
		Inventeurs:        splitInventors(get(FieldInventors)),
		Deposant:          get(FieldDepositor),
		Client:            get(FieldClient),
		SourceRow:         row.Number,
	}
	if deposit.NumeroDepot == "" {
		deposit.NumeroDepot = compoundNumber
	}

	deposit.CountryAlpha2 = r.countries.Resolve(country.Signals{
		DepositNumber:         get(FieldDepositNumber),
		CompoundDepositNumber: compoundNumber,
		PublicationNumber:     deposit.NumeroPublication,
		CountryName:           countryName,
	}).Alpha2

	var diags []Diagnostic
	date := func(field Field, raw, filled string) string {
		iso, ok := r.dates.Normalize(filled)
		if ok {
			return iso
		}
		if raw != "" {
			d := Diagnostic{
				Row:     row.Number,
				Field:   field.String(),
				Value:   raw,
				Message: "unparsable date, left empty",
			}
			r.logger.Warnf("row %d: %s %q is not a date, left empty", row.Number, field, raw)
			diags = append(diags, d)
		}
		return ""
	}

	deposit.DateDepot = date(FieldDepositDate, rawDepositDate, state.depositDate)
	pub := get(FieldPublicationDate)
	deposit.DatePublication = date(FieldPublicationDate, pub, pub)
	grant := get(FieldGrantDate)
	deposit.DateDelivrance = date(FieldGrantDate, grant, grant)

	return deposit, state, diags
}

// splitCompound reads a "country name / filing number" cell. The first
// non-blank line is the country name, the second one the filing number with
// every space removed.
func splitCompound(cell string) (name, number string) {
	var lines []string
	for _, line := range lineBreak.Split(cell, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		name = lines[0]
	}
	if len(lines) > 1 {
		number = strings.Join(strings.Fields(lines[1]), "")
	}
	return name, number
}

func splitInventors(cell string) []string {
	var names []string
	for _, name := range inventorSeparator.Split(cell, -1) {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
