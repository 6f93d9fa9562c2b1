package patnum

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	letterThenDigit = regexp.MustCompile(`([A-Za-z])(\d)`)
	digitThenLetter = regexp.MustCompile(`(\d)([A-Za-z])`)
	separatorRun    = regexp.MustCompile(`[ \t./,;:_-]+`)
	leadingAlpha2   = regexp.MustCompile(`^[A-Z]{1,2}$`)
	allLetters      = regexp.MustCompile(`^[A-Z]+$`)
)

// tokens splits s at separators and at every letter/digit boundary:
// "US11,278" becomes [US 11 278].
func tokens(s string) []string {
	s = letterThenDigit.ReplaceAllString(s, "$1 $2")
	s = digitThenLetter.ReplaceAllString(s, "$1 $2")

	var out []string
	for _, tok := range separatorRun.Split(strings.TrimSpace(s), -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
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

// digitsOf keeps only the ASCII digits of s.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// trimZeros strips leading zeros from a digit string, keeping a lone "0".
// Serials can exceed 64 bits once concatenated, so no integer parsing here.
func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" && s != "" {
		return "0"
	}
	return t
}

// padLeft left-pads s with zeros to width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// year4 expands a two-digit year: 50 and above is 19xx, below is 20xx.
func year4(yy string) string {
	if yy >= "50" {
		return "19" + yy
	}
	return "20" + yy
}

func removeSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
