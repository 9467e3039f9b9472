// Package run models one play session: in-run upgrade offers, synergies,
// the XP curve and the level-up queue.
package run

import (
	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/rng"
)

// ChoiceCount is how many upgrades a level-up offers.
const ChoiceCount = 3

// Count reports how many times id was picked.
func Count(owned []string, id string) int {
	n := 0
	for _, v := range owned {
		if v == id {
			n++
		}
	}
	return n
}

func has(owned []string, id string) bool {
	return Count(owned, id) > 0
}

// Eligible lists upgrades that may still be offered: stacking upgrades
// always, non-stacking ones only until picked.
func Eligible(c *catalog.Catalog, owned []string) []catalog.InRunUpgrade {
	out := make([]catalog.InRunUpgrade, 0, len(c.InRunUpgrades))
	for _, u := range c.InRunUpgrades {
		if !u.Stacking && has(owned, u.ID) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// OfferChoices shuffles the eligible upgrades and returns the first n, or
// all of them when fewer remain.
func OfferChoices(c *catalog.Catalog, owned []string, n int, src rng.Source) []catalog.InRunUpgrade {
	pool := Eligible(c, owned)
	rng.Shuffle(src, pool)
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

// RandomCommon picks one eligible common upgrade, used for the head start
// workshop perk.
func RandomCommon(c *catalog.Catalog, owned []string, src rng.Source) (catalog.InRunUpgrade, bool) {
	var commons []catalog.InRunUpgrade
	for _, u := range Eligible(c, owned) {
		if u.Rarity == catalog.Common {
			commons = append(commons, u)
		}
	}
	idx := rng.Pick(src, len(commons))
	if idx < 0 {
		return catalog.InRunUpgrade{}, false
	}
	return commons[idx], true
}
