// =============================================================================
// Date Normalizer
// =============================================================================
//
// Portfolio sheets carry dates in whatever shape the person typing them
// preferred. This package turns them into ISO calendar dates (YYYY-MM-DD).
//
// ACCEPTED SHAPES:
//   2017-03-14            ISO, returned unchanged
//   14/03/2017  14.03.17  day / month / year with any of - . , / or spaces
//   14 mars 2017          French or English month names, any case or accents
//   3-Feb-05              abbreviations
//   42808                 Excel serial day number (unformatted date cells)
//
// Anything else is unparsable. Normalize reports that with ok == false and
// never returns an error: a bad date must not stop an import.
//
// =============================================================================

package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/clemsmoz/startingbloch-sub005/internal/textnorm"
)

// ISOLayout is the output layout of every normalized date.
const ISOLayout = "2006-01-02"

// =============================================================================
// TWO-DIGIT YEARS
// =============================================================================

// YearPolicy decides the century of a two-digit year.
type YearPolicy string

const (
	// PivotFifty maps 00-49 to 20xx and 50-99 to 19xx.
	PivotFifty YearPolicy = "pivot"

	// Century21 always prefixes "20".
	Century21 YearPolicy = "century21"
)

// ParseYearPolicy accepts "pivot", "century21" or an empty string (pivot).
func ParseYearPolicy(s string) (YearPolicy, bool) {
	switch YearPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PivotFifty:
		return PivotFifty, true
	case Century21:
		return Century21, true
	default:
		return "", false
	}
}

func (p YearPolicy) expand(yy string) string {
	if p == Century21 || yy < "50" {
		return "20" + yy
	}
	return "19" + yy
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer converts raw date cells. The zero value uses PivotFifty.
type Normalizer struct {
	Years YearPolicy
}

var (
	isoDate      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	excelSerial  = regexp.MustCompile(`^\d{5}(\.\d+)?$`)
	slashDate    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	fourDigits   = regexp.MustCompile(`\d{4}`)
	leadingInt   = regexp.MustCompile(`^\d+`)
	partSplitter = regexp.MustCompile(`[-\s/]+`)
	dotOrComma   = strings.NewReplacer(".", "-", ",", "-")
)

// Normalize converts raw with the default two-digit year policy.
func Normalize(raw string) (string, bool) {
	return Normalizer{}.Normalize(raw)
}

// Normalize converts raw into YYYY-MM-DD. ok is false when raw is empty or
// does not describe a real calendar date.
func (n Normalizer) Normalize(raw string) (iso string, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if isoDate.MatchString(s) {
		return s, true
	}
	if excelSerial.MatchString(s) {
		return fromSerial(s)
	}

	cleaned := strings.Join(strings.Fields(dotOrComma.Replace(s)), " ")

	var parts []string
	for _, p := range partSplitter.Split(cleaned, -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) >= 3 {
		// Year-first timestamps such as "2017/03/14 00:00:00".
		if len(parts[0]) == 4 && isDigits(parts[0]) {
			return n.assemble(parts[2], parts[1], parts[0])
		}
		return n.assemble(parts[0], parts[1], parts[2])
	}

	if m := slashDate.FindStringSubmatch(cleaned); m != nil {
		return n.assemble(m[1], m[2], m[3])
	}
	return "", false
}

// assemble validates and pads day / month / year tokens.
func (n Normalizer) assemble(dayTok, monthTok, yearTok string) (string, bool) {
	day, err := strconv.Atoi(dayTok)
	if err != nil {
		return "", false
	}

	month, ok := monthNumber(monthTok)
	if !ok {
		return "", false
	}

	var year string
	switch {
	case len(yearTok) == 2 && isDigits(yearTok):
		year = n.policy().expand(yearTok)
	case len(yearTok) == 4 && isDigits(yearTok):
		year = yearTok
	default:
		year = fourDigits.FindString(yearTok)
		if year == "" {
			return "", false
		}
	}

	iso := year + "-" + pad2(month) + "-" + pad2(day)
	if _, err := time.Parse(ISOLayout, iso); err != nil {
		return "", false
	}
	return iso, true
}

func (n Normalizer) policy() YearPolicy {
	if n.Years == "" {
		return PivotFifty
	}
	return n.Years
}

// monthNumber resolves a numeric or named month token.
func monthNumber(tok string) (int, bool) {
	if isDigits(tok) {
		m, err := strconv.Atoi(tok)
		return m, err == nil
	}
	if m, ok := monthNames[textnorm.Fold(tok)]; ok {
		return m, true
	}
	// "03e" and similar: a leading number with a suffix.
	if lead := leadingInt.FindString(tok); lead != "" {
		m, err := strconv.Atoi(lead)
		return m, err == nil
	}
	return 0, false
}

// fromSerial converts an Excel 1900-system serial day number.
func fromSerial(s string) (string, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return "", false
	}
	return t.Format(ISOLayout), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
