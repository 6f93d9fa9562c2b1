// =============================================================================
// Patent Number Canonicalization
// =============================================================================
//
// This package rewrites raw filing, publication and grant numbers, as typed by
// hand into portfolio spreadsheets, into one canonical shape per office.
//
// CANONICAL SHAPES (whitespace removed):
//   FR 17 00574          (deposit)      -> FR20170000574
//   PCT/EP2020/012345    (deposit)      -> WO2020EP12345
//   EP13720022.6         (deposit)      -> EP201307200226
//   KR 10 2014 0114335   (publication)  -> KR1020140114335
//
// DISPATCH:
//   Deposit numbers go through a registry keyed by office prefix. Each prefix
//   owns an ordered list of rules; the first rule that recognizes the input
//   wins. Publication and grant numbers share a single prefix + number rule.
//
//   Canonicalize never fails. When no rule recognizes the input the result is
//   a cleaned copy of the input and Result.Outcome says so.
//
// =============================================================================

package patnum

import (
	"github.com/rotisserie/eris"

	"github.com/clemsmoz/startingbloch-sub005/internal/textnorm"
)

// =============================================================================
// KINDS
// =============================================================================

// Kind is the role a number plays on a deposit.
type Kind int

const (
	KindDeposit Kind = iota
	KindPublication
	KindGrant
)

// ErrUnknownKind is returned by ParseKind for names outside the known set.
var ErrUnknownKind = eris.New("unknown number kind, use depot | publication | delivrance")

// kindNames maps folded names (French and English) to kinds.
var kindNames = map[string]Kind{
	"depot":       KindDeposit,
	"deposit":     KindDeposit,
	"filing":      KindDeposit,
	"publication": KindPublication,
	"pub":         KindPublication,
	"delivrance":  KindGrant,
	"grant":       KindGrant,
}

// ParseKind accepts "depot", "dépôt", "deposit", "publication", "pub",
// "delivrance", "délivrance" or "grant", in any case.
func ParseKind(name string) (Kind, error) {
	kind, ok := kindNames[textnorm.Fold(name)]
	if !ok {
		return 0, eris.Wrapf(ErrUnknownKind, "kind %q", name)
	}
	return kind, nil
}

// String returns the French label used in spreadsheets and logs.
func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "depot"
	case KindPublication:
		return "publication"
	case KindGrant:
		return "delivrance"
	default:
		return "unknown"
	}
}

// =============================================================================
// RESULT
// =============================================================================

// Outcome tells a confident canonicalization apart from a best-effort one.
type Outcome int

const (
	// OutcomeRule means an office-specific rule recognized the number.
	OutcomeRule Outcome = iota

	// OutcomeGenericFallback means no office rule applied and the generic
	// year/serial rule was used with whatever prefix the input carried.
	OutcomeGenericFallback

	// OutcomeCleanup means nothing recognized the input; the value is the
	// input with separators collapsed and whitespace removed.
	OutcomeCleanup
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRule:
		return "rule"
	case OutcomeGenericFallback:
		return "generic-fallback"
	case OutcomeCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// Result is the output of Canonicalize.
type Result struct {
	// Value is the canonical number with all whitespace removed.
	Value string

	// Outcome classifies how Value was produced.
	Outcome Outcome

	// Rule names the rule that produced Value, empty for OutcomeCleanup.
	Rule string
}

// Confident reports whether an office rule recognized the number.
func (r Result) Confident() bool {
	return r.Outcome == OutcomeRule
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Canonicalize rewrites raw into its canonical form for the given kind. It is
// total: empty or unrecognized input yields an OutcomeCleanup result.
func Canonicalize(raw string, kind Kind) Result {
	s := removeSpace(raw)

	var res Result
	switch kind {
	case KindPublication, KindGrant:
		res = canonicalPublication(s)
	default:
		res = canonicalDeposit(s)
	}

	res.Value = removeSpace(res.Value)
	return res
}

// Convert is Canonicalize for callers holding the kind as text. Only an
// unknown kind name produces an error.
func Convert(raw, kind string) (string, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return "", err
	}
	return Canonicalize(raw, k).Value, nil
}

// cleanup is the last-resort rewrite shared by every kind.
func cleanup(s string) Result {
	return Result{
		Value:   separatorRun.ReplaceAllString(s, " "),
		Outcome: OutcomeCleanup,
	}
}
