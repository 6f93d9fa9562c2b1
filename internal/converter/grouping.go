package converter

import (
	"github.com/clemsmoz/startingbloch-sub005/internal/types"
)

// GroupFamilies groups deposits by family reference.
//
// PARAMETERS:
//   - deposits: The resolved deposits in sheet order.
//
// RETURNS:
//   - One family per distinct reference, in order of first appearance.
//     Deposits without any reference share the NoReferenceKey family.
//
// GROUPING LOGIC:
//   Deposits keep their sheet order inside a family. The family title is the
//   first non-empty title of its deposits.
func GroupFamilies(deposits []types.ParsedDeposit) []types.ParsedFamily {
	groups := make(map[string]*types.ParsedFamily)
	groupOrder := []string{} // Maintain order of first occurrence

	for _, d := range deposits {
		key := d.RefFamille
		if key == "" {
			key = types.NoReferenceKey
		}

		family, exists := groups[key]
		if !exists {
			family = &types.ParsedFamily{ReferenceFamille: d.RefFamille}
			groups[key] = family
			groupOrder = append(groupOrder, key)
		}
		if family.Titre == "" {
			family.Titre = d.Titre
		}
		family.Deposits = append(family.Deposits, d)
	}

	families := make([]types.ParsedFamily, len(groupOrder))
	for i, key := range groupOrder {
		families[i] = *groups[key]
	}
	return families
}
