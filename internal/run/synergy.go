package run

import "github.com/haythammda/Gift-Storm/internal/catalog"

// IsSynergyActive is true iff both paired upgrades were picked at least
// once, in any order.
func IsSynergyActive(s catalog.Synergy, owned []string) bool {
	if len(s.Upgrades) != 2 {
		return false
	}
	return has(owned, s.Upgrades[0]) && has(owned, s.Upgrades[1])
}

func ActiveSynergies(c *catalog.Catalog, owned []string) []catalog.Synergy {
	var out []catalog.Synergy
	for _, s := range c.Synergies {
		if IsSynergyActive(s, owned) {
			out = append(out, s)
		}
	}
	return out
}

// HasBonus reports whether an active synergy grants the bonus tag.
func HasBonus(c *catalog.Catalog, owned []string, bonus string) bool {
	for _, s := range ActiveSynergies(c, owned) {
		if s.BonusEffect == bonus {
			return true
		}
	}
	return false
}

// SynergyPartner returns the upgrade that pairs with id in a synergy, if
// any.
func SynergyPartner(c *catalog.Catalog, id string) (string, catalog.Synergy, bool) {
	for _, s := range c.Synergies {
		if len(s.Upgrades) != 2 {
			continue
		}
		switch id {
		case s.Upgrades[0]:
			return s.Upgrades[1], s, true
		case s.Upgrades[1]:
			return s.Upgrades[0], s, true
		}
	}
	return "", catalog.Synergy{}, false
}

// CompletesSynergy reports the synergy picking candidate would activate.
func CompletesSynergy(c *catalog.Catalog, owned []string, candidate string) (catalog.Synergy, bool) {
	if has(owned, candidate) {
		return catalog.Synergy{}, false
	}
	partner, s, ok := SynergyPartner(c, candidate)
	if !ok || !has(owned, partner) {
		return catalog.Synergy{}, false
	}
	return s, true
}
