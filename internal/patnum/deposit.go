package patnum

import (
	"regexp"
	"strings"
)

// Rule recognizes one office's spelling of a number. Apply returns the
// canonical form (spaces allowed, they are stripped later) and true, or
// false to let the next rule try.
type Rule struct {
	Name  string
	Apply func(s string) (string, bool)
}

// depositRules is the deposit registry, keyed by the first token of the
// upper-cased input.
var depositRules = map[string][]Rule{
	"FR":  {{Name: "FR", Apply: depositFR}},
	"EP":  {{Name: "EP", Apply: depositEP}},
	"PCT": {{Name: "PCT/WO", Apply: depositPCT}},
	"WO":  {{Name: "PCT/WO", Apply: depositPCT}},
	"BR":  {{Name: "BR", Apply: depositBR}},
	"US":  {{Name: "US", Apply: depositUS}},
	"IN":  {{Name: "IN", Apply: depositIN}},
}

// genericOffices use the "<CC> <yyyy> 0 <serial>" shape.
var genericOffices = map[string]bool{
	"JP": true, "MX": true, "IL": true, "CL": true, "AU": true, "EA": true,
	"CN": true, "CA": true, "HK": true, "NZ": true, "KR": true,
}

// DepositRules returns the rules registered for an office prefix, in the
// order they are tried.
func DepositRules(prefix string) []Rule {
	rules := depositRules[strings.ToUpper(prefix)]
	return append([]Rule(nil), rules...)
}

func canonicalDeposit(s string) Result {
	upper := strings.ToUpper(strings.TrimSpace(s))
	toks := tokens(upper)
	cc := ""
	if len(toks) > 0 {
		cc = toks[0]
	}

	for _, rule := range depositRules[cc] {
		if out, ok := rule.Apply(s); ok {
			return Result{Value: out, Outcome: OutcomeRule, Rule: rule.Name}
		}
	}

	if strings.HasPrefix(upper, "PCT/") {
		if out, ok := depositPCT(s); ok {
			return Result{Value: out, Outcome: OutcomeRule, Rule: "PCT/WO"}
		}
	}

	if genericOffices[cc] {
		if out, ok := genericYearSerial(cc, s); ok {
			return Result{Value: out, Outcome: OutcomeRule, Rule: "generic:" + cc}
		}
	}

	if out, ok := genericYearSerial(cc, s); ok {
		return Result{Value: out, Outcome: OutcomeGenericFallback, Rule: "generic"}
	}
	return cleanup(s)
}

// =============================================================================
// OFFICE RULES
// =============================================================================

var (
	frCompact = regexp.MustCompile(`^FR(\d{2})(\d{5})$`)
	epCompact = regexp.MustCompile(`^EP(\d{2})(\d{6})\.(\d)$`)
	pctForm   = regexp.MustCompile(`^PCT/([A-Z]{2})(\d{4})/0(\d{5,6})$`)
	woForm    = regexp.MustCompile(`^WO\s*(\d{4})\s*([A-Z]{2})\s*(\d{5,7})$`)
)

// depositFR: FR + 2-digit year + 5-digit serial -> "FR yyyy 00 nnnnn".
func depositFR(s string) (string, bool) {
	m := frCompact.FindStringSubmatch(removeSpace(strings.ToUpper(s)))
	if m == nil {
		return "", false
	}
	return "FR " + year4(m[1]) + " 00 " + m[2], true
}

// depositEP: EP + 2-digit year + 6-digit serial + check digit, either as
// "EP13720022.6" or separated ("EP-13-720022-6").
func depositEP(s string) (string, bool) {
	upper := strings.ToUpper(s)
	if m := epCompact.FindStringSubmatch(removeSpace(upper)); m != nil {
		return "EP " + year4(m[1]) + " 0 " + m[2] + m[3], true
	}

	toks := tokens(upper)
	if len(toks) >= 4 && toks[0] == "EP" &&
		isDigits(toks[1]) && len(toks[1]) == 2 &&
		isDigits(toks[2]) && len(toks[2]) == 6 &&
		isDigits(toks[3]) && len(toks[3]) == 1 {
		return "EP " + year4(toks[1]) + " 0 " + toks[2] + toks[3], true
	}
	return "", false
}

// depositPCT handles international applications in both spellings:
// "PCT/FR2017/000123" and "WO 2017 FR 000123" give "WO 2017 FR 123".
func depositPCT(s string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if m := pctForm.FindStringSubmatch(removeSpace(upper)); m != nil {
		return "WO " + m[2] + " " + m[1] + " " + trimZeros(m[3]), true
	}
	if m := woForm.FindStringSubmatch(upper); m != nil {
		return "WO " + m[1] + " " + m[2] + " " + trimZeros(m[3]), true
	}
	return "", false
}

// depositBR: "BR 11 <yyyy> ... <n>" -> "BR <yyyy> 11 <n padded to 5>".
func depositBR(s string) (string, bool) {
	toks := tokens(strings.ToUpper(s))
	if len(toks) < 5 || toks[0] != "BR" || toks[1] != "11" {
		return "", false
	}
	last := toks[len(toks)-1]
	if !isDigits(toks[2]) || !isDigits(last) {
		return "", false
	}
	return "BR " + toks[2] + " 11 " + padLeft(trimZeros(last), 5), true
}

// depositUS: 2-digit year followed by a serial of at least six digits,
// possibly split by thousands separators ("US 11/278,568").
func depositUS(s string) (string, bool) {
	toks := tokens(strings.ToUpper(s))
	if len(toks) < 4 || toks[0] != "US" || len(toks[1]) != 2 || !isDigits(toks[1]) {
		return "", false
	}
	var body strings.Builder
	for _, t := range toks[2:] {
		if isDigits(t) {
			body.WriteString(t)
		}
	}
	if body.Len() < 6 {
		return "", false
	}
	return "US " + year4(toks[1]) + " 0 " + body.String(), true
}

// depositIN: exactly four tokens, number / office code / number. The
// four-digit number is the year, right side preferred.
func depositIN(s string) (string, bool) {
	toks := tokens(strings.ToUpper(s))
	if len(toks) != 4 || toks[0] != "IN" ||
		!isDigits(toks[1]) || !allLetters.MatchString(toks[2]) || !isDigits(toks[3]) {
		return "", false
	}
	left, code, right := toks[1], toks[2], toks[3]
	switch {
	case len(right) == 4:
		return "IN " + right + " " + code + " " + left, true
	case len(left) == 4:
		return "IN " + left + " " + code + " " + right, true
	default:
		return "", false
	}
}

// genericYearSerial emits "<cc> <yyyy> 0 <serial>", or "<cc> <serial>" when
// no four-digit token follows the prefix. An empty cc accepts any first
// token.
func genericYearSerial(cc, s string) (string, bool) {
	toks := tokens(strings.ToUpper(s))
	if len(toks) == 0 || (cc != "" && toks[0] != cc) {
		return "", false
	}

	yearAt := -1
	for i := 1; i < len(toks); i++ {
		if isDigits(toks[i]) && len(toks[i]) == 4 {
			yearAt = i
			break
		}
	}

	var serial strings.Builder
	for i := 1; i < len(toks); i++ {
		if i != yearAt && isDigits(toks[i]) {
			serial.WriteString(toks[i])
		}
	}
	if serial.Len() == 0 {
		return "", false
	}

	num := trimZeros(serial.String())
	if yearAt < 0 {
		return cc + " " + num, true
	}
	return cc + " " + toks[yearAt] + " 0 " + num, true
}
