package patnum

import "strings"

// canonicalPublication serves publication and grant numbers alike.
func canonicalPublication(s string) Result {
	if out, ok := publicationKR(s); ok {
		return Result{Value: out, Outcome: OutcomeRule, Rule: "KR"}
	}
	if out, ok := prefixNumber(s); ok {
		return Result{Value: out, Outcome: OutcomeRule, Rule: "prefix-number"}
	}
	return cleanup(s)
}

// publicationKR keeps Korean publication numbers whole: at least eight
// digits, zeros preserved.
func publicationKR(s string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(upper, "KR") {
		return "", false
	}
	num := digitsOf(upper)
	if len(num) < 8 {
		return "", false
	}
	return "KR " + num, true
}

// prefixNumber emits "<CC> <number>" from a one- or two-letter leading
// token and every numeric token, leading zeros dropped.
func prefixNumber(s string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	toks := tokens(upper)
	if len(toks) == 0 || !leadingAlpha2.MatchString(toks[0]) {
		return "", false
	}

	var num strings.Builder
	for _, t := range toks {
		if isDigits(t) {
			num.WriteString(t)
		}
	}
	digits := num.String()
	if digits == "" {
		digits = digitsOf(upper)
	}
	if digits == "" {
		return "", false
	}
	return toks[0] + " " + trimZeros(digits), true
}
