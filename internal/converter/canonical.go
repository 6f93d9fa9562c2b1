package converter

import (
	"github.com/clemsmoz/startingbloch-sub005/internal/patnum"
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
)

// Identifiers are the canonical forms of the three numbers of a deposit.
// A number that is absent yields a zero Result.
type Identifiers struct {
	Depot       patnum.Result
	Publication patnum.Result
	Delivrance  patnum.Result
}

// Canonical canonicalizes the numbers of d on demand. The deposit itself
// keeps the numbers as typed.
func Canonical(d types.ParsedDeposit) Identifiers {
	return Identifiers{
		Depot:       canonicalize(d.NumeroDepot, patnum.KindDeposit),
		Publication: canonicalize(d.NumeroPublication, patnum.KindPublication),
		Delivrance:  canonicalize(d.NumeroDelivrance, patnum.KindGrant),
	}
}

func canonicalize(raw string, kind patnum.Kind) patnum.Result {
	if raw == "" {
		return patnum.Result{}
	}
	return patnum.Canonicalize(raw, kind)
}
