package catalog

import (
	"errors"
	"fmt"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Validate checks cross references and balance table invariants.
func (c *Catalog) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidCatalog}, args...)...))
	}

	for _, u := range c.WorkshopUpgrades {
		if u.MaxLevel < 1 || u.CostPerLevel <= 0 {
			bad("workshop upgrade %q needs max_level >= 1 and a positive cost", u.ID)
		}
		if u.ScalingFactor != 0 && u.ScalingFactor < 1 {
			bad("workshop upgrade %q scaling factor below 1", u.ID)
		}
	}

	for _, tier := range []ChestTier{Wooden, Silver, Golden, Diamond} {
		ch, ok := c.chests[tier]
		if !ok {
			bad("missing %s chest", tier)
			continue
		}
		if sum := ch.RarityWeights.Sum(); sum != 100 {
			bad("chest %q rarity weights sum to %d", ch.ID, sum)
		}
		if len(ch.CardRange) != 2 || ch.CardRange[0] > ch.CardRange[1] {
			bad("chest %q card range malformed", ch.ID)
		}
		if len(ch.CoinRange) != 2 || ch.CoinRange[0] > ch.CoinRange[1] {
			bad("chest %q coin range malformed", ch.ID)
		}
	}

	for _, e := range c.Equipment {
		if !e.Slot.Valid() {
			bad("equipment %q has unknown slot %q", e.ID, e.Slot)
		}
	}

	for _, n := range c.SkillTree {
		if n.MaxLevel < 1 {
			bad("skill %q max level below 1", n.ID)
		}
		for _, p := range n.PrerequisiteIDs {
			if _, ok := c.skills[p]; !ok {
				bad("skill %q requires unknown skill %q", n.ID, p)
			}
		}
		if n.UnlocksWeaponID != "" {
			if _, ok := c.weapons[n.UnlocksWeaponID]; !ok {
				bad("skill %q unlocks unknown weapon %q", n.ID, n.UnlocksWeaponID)
			}
		}
	}

	for _, s := range c.Synergies {
		if len(s.Upgrades) != 2 {
			bad("synergy %q must pair exactly two upgrades", s.ID)
			continue
		}
		for _, id := range s.Upgrades {
			if _, ok := c.inRun[id]; !ok {
				bad("synergy %q references unknown upgrade %q", s.ID, id)
			}
		}
	}

	for _, p := range c.Products {
		if p.Kind == ProductSkin {
			if _, ok := c.skins[p.SkinID]; !ok {
				bad("product %q grants unknown skin %q", p.ID, p.SkinID)
			}
		}
	}

	if len(c.Levels) != LevelCount {
		bad("generated %d levels", len(c.Levels))
	}
	for _, l := range c.Levels {
		if _, ok := c.miniBoss[l.MiniBoss1]; !ok {
			bad("level %d mini boss %q unknown", l.ID, l.MiniBoss1)
		}
		if _, ok := c.miniBoss[l.MiniBoss2]; !ok {
			bad("level %d mini boss %q unknown", l.ID, l.MiniBoss2)
		}
		if _, ok := c.bosses[l.FinalBoss]; !ok {
			bad("level %d final boss %q unknown", l.ID, l.FinalBoss)
		}
	}

	return errors.Join(errs...)
}
