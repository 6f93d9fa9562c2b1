package country

import (
	_ "embed"
	"regexp"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"

	"github.com/clemsmoz/startingbloch-sub005/internal/textnorm"
)

//go:embed countries.yaml
var aliasesYAML []byte

var twoLetters = regexp.MustCompile(`^[A-Za-z]{2}$`)

// Table resolves English or French country names, ISO alpha-2 and alpha-3
// codes and a set of colloquial aliases to an alpha-2 code.
type Table struct {
	byKey map[string]string
}

type aliasFile struct {
	Aliases map[string][]string `yaml:"aliases"`
}

var (
	defaultTable     *Table
	defaultTableErr  error
	defaultTableOnce sync.Once
)

// DefaultTable returns the embedded bilingual table, built on first use.
func DefaultTable() *Table {
	defaultTableOnce.Do(func() {
		defaultTable, defaultTableErr = NewTable(aliasesYAML)
	})
	if defaultTableErr != nil {
		// The embedded file is part of the binary; failing here is a build defect.
		panic(defaultTableErr)
	}
	return defaultTable
}

// NewTable builds a table from CLDR region names plus the aliases document.
// Aliases win over CLDR names when both claim the same key.
func NewTable(aliasesDoc []byte) (*Table, error) {
	var doc aliasFile
	if err := yaml.Unmarshal(aliasesDoc, &doc); err != nil {
		return nil, eris.Wrap(err, "country: parse aliases")
	}

	t := &Table{byKey: make(map[string]string, 1024)}

	en := display.English.Regions()
	fr := display.French.Regions()
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			code := string([]rune{a, b})
			region, err := language.ParseRegion(code)
			if err != nil || !region.IsCountry() || region.String() != code {
				continue
			}
			// Deprecated codes (DD, YD, VD, BU...) share names with their
			// replacements and sort first.
			if region.Canonicalize() != region {
				continue
			}
			t.add(en.Name(region), code)
			t.add(fr.Name(region), code)
		}
	}

	for code, names := range doc.Aliases {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !twoLetters.MatchString(code) {
			return nil, eris.Errorf("country: alias key %q is not a two-letter code", code)
		}
		for _, name := range names {
			if k := textnorm.Key(name); k != "" {
				t.byKey[k] = code
			}
		}
	}

	return t, nil
}

func (t *Table) add(name, code string) {
	k := textnorm.Key(name)
	if k == "" {
		return
	}
	if _, taken := t.byKey[k]; !taken {
		t.byKey[k] = code
	}
}

// Lookup resolves name to an alpha-2 code. A bare two-letter input is taken
// as a code unless an alias says otherwise ("UK" is GB); three letters are
// tried as an ISO alpha-3 code before the name tables.
func (t *Table) Lookup(name string) (string, bool) {
	s := strings.TrimSpace(name)
	if s == "" {
		return "", false
	}

	key := textnorm.Key(s)
	if code, ok := t.byKey[key]; ok && len(s) <= 3 {
		return code, true
	}
	if twoLetters.MatchString(s) {
		return strings.ToUpper(s), true
	}
	if len(s) == 3 {
		if region, err := language.ParseRegion(strings.ToUpper(s)); err == nil && region.IsCountry() {
			return region.String(), true
		}
	}

	code, ok := t.byKey[key]
	return code, ok
}

// Len reports the number of distinct keys, mostly for tests.
func (t *Table) Len() int {
	return len(t.byKey)
}

// LookupName resolves name with DefaultTable.
func LookupName(name string) (string, bool) {
	return DefaultTable().Lookup(name)
}
