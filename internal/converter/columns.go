package converter

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/clemsmoz/startingbloch-sub005/internal/textnorm"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
)

// =============================================================================
// FIELDS
// =============================================================================

// Field is a logical column of a portfolio sheet.
type Field int

const (
	FieldReference Field = iota
	FieldTitle
	FieldPublicationNumber
	FieldDepositNumber
	FieldStatus
	FieldDepositDate
	FieldPublicationDate
	FieldGrantNumber
	FieldGrantDate
	FieldInventors
	FieldDepositor
	FieldClient
	FieldCountryCompound
)

// fieldKeys are the names used in the import.columns configuration block.
var fieldKeys = map[Field]string{
	FieldReference:         "reference",
	FieldTitle:             "title",
	FieldPublicationNumber: "publicationNumber",
	FieldDepositNumber:     "depositNumber",
	FieldStatus:            "status",
	FieldDepositDate:       "depositDate",
	FieldPublicationDate:   "publicationDate",
	FieldGrantNumber:       "grantNumber",
	FieldGrantDate:         "grantDate",
	FieldInventors:         "inventors",
	FieldDepositor:         "depositor",
	FieldClient:            "client",
	FieldCountryCompound:   "countryCompound",
}

// ErrUnknownField is returned for a configuration key that names no field.
var ErrUnknownField = eris.New("unknown column field")

func (f Field) String() string {
	if key, ok := fieldKeys[f]; ok {
		return key
	}
	return "unknown"
}

// ParseField resolves a configuration key, ignoring case.
func ParseField(key string) (Field, error) {
	for f, name := range fieldKeys {
		if strings.EqualFold(name, strings.TrimSpace(key)) {
			return f, nil
		}
	}
	return 0, eris.Wrapf(ErrUnknownField, "%q", key)
}

// defaultAliases lists the header labels of each field in priority order.
var defaultAliases = map[Field][]string{
	FieldReference: {"ref_famille", "Reference Famille", "Référence famille", "RefFamille", "REF_FAMILLE", "Ref"},
	FieldTitle:     {"titre", "Titre", "title"},
	FieldPublicationNumber: {
		"numero_publication", "Numéro de publication", "Numéro Publication", "Numéro de Publication",
		"NumeroPublication", "Numero Publication", "publication", "Publication",
	},
	FieldDepositNumber:   {"numero_depot", "NumeroDepot", "Numero Dépôt", "depot"},
	FieldStatus:          {"statut", "Statut", "Status"},
	FieldDepositDate:     {"date_depot", "DateDepot", "Date Dépôt", "Date de dépôt", "Date de Depot", "date"},
	FieldPublicationDate: {"date_publication", "DatePublication", "Date Publication", "Date de publication"},
	FieldGrantNumber:     {"numero_delivrance", "NumeroDelivrance", "Numero Délivrance"},
	FieldGrantDate:       {"date_delivrance", "DateDelivrance", "Date Délivrance", "Date de délivrance"},
	FieldInventors:       {"inventeurs", "Inventeurs", "Inventor"},
	FieldDepositor:       {"deposant", "Deposant", "Filer"},
	FieldClient:          {"client", "Client"},
	FieldCountryCompound: {"Pays\n(Numéro de dépôt)", "Pays (Numéro de dépôt)", "Pays", "Country"},
}

// =============================================================================
// COLUMN MAP
// =============================================================================

// ColumnMap binds every field to the sheet columns that may carry it, in the
// order they are tried.
type ColumnMap struct {
	labels map[Field][]string
}

// BuildColumnMap matches the sheet columns against the alias lists. Extra
// aliases, keyed by configuration field name, are tried before the built-in
// ones.
//
// PARAMETERS:
//   - columns: The keyed header labels of the sheet.
//   - extra: Additional aliases per field key, may be nil.
//
// RETURNS:
//   - The column map.
//   - An error wrapping ErrUnknownField if extra names an unknown field.
//
// MATCHING:
//   Exact labels are taken first, in alias order. Then any column whose
//   normalized label (case, accents, spacing and punctuation ignored) equals a
//   normalized alias is appended.
func BuildColumnMap(columns []string, extra map[string][]string) (*ColumnMap, error) {
	aliases := make(map[Field][]string, len(defaultAliases))
	for f, list := range defaultAliases {
		aliases[f] = list
	}

	// Sorted so that a bad configuration always reports the same key.
	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		f, err := ParseField(key)
		if err != nil {
			return nil, err
		}
		aliases[f] = append(append([]string{}, extra[key]...), aliases[f]...)
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	m := &ColumnMap{labels: make(map[Field][]string, len(aliases))}
	for f, list := range aliases {
		seen := make(map[string]bool)
		var matched []string
		for _, alias := range list {
			alias = strings.TrimSpace(alias)
			if present[alias] && !seen[alias] {
				seen[alias] = true
				matched = append(matched, alias)
			}
		}
		for _, alias := range list {
			key := textnorm.Key(alias)
			if key == "" {
				continue
			}
			for _, c := range columns {
				if !seen[c] && textnorm.Key(c) == key {
					seen[c] = true
					matched = append(matched, c)
				}
			}
		}
		m.labels[f] = matched
	}
	return m, nil
}

// Labels returns the columns bound to f.
func (m *ColumnMap) Labels(f Field) []string {
	return m.labels[f]
}

// Has reports whether any column is bound to f.
func (m *ColumnMap) Has(f Field) bool {
	return len(m.labels[f]) > 0
}

// Value returns the first non-empty trimmed value of f in row.
func (m *ColumnMap) Value(row types.RawRow, f Field) string {
	for _, label := range m.labels[f] {
		if v := strings.TrimSpace(row.Get(label)); v != "" {
			return v
		}
	}
	return ""
}
