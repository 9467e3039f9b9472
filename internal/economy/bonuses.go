package economy

import "github.com/haythammda/Gift-Storm/internal/catalog"

// SkillBonuses aggregates skill-tree levels into the bonuses the run uses.
type SkillBonuses struct {
	Damage  float64 `json:"damageBonus"`
	Defense float64 `json:"defenseBonus"`
	Speed   float64 `json:"speedBonus"`
	Pickup  float64 `json:"pickupBonus"`
	HP      float64 `json:"hpBonus"`
}

// SkillBonusesFor folds every purchased node. Weapon unlock nodes and stats
// the run does not model contribute nothing.
func SkillBonusesFor(nodes []catalog.SkillNode, levels map[string]int) SkillBonuses {
	var b SkillBonuses
	for _, n := range nodes {
		lvl := float64(levels[n.ID])
		if lvl <= 0 || n.UnlocksWeaponID != "" {
			continue
		}
		v := n.Effect.Value * lvl
		switch n.Effect.Stat {
		case "damage":
			b.Damage += v
		case "maxHp":
			b.HP += v
		case "speed":
			b.Speed += v
		case "dodge":
			b.Defense += v
		case "critChance":
			b.Damage += v * 0.5
		case "fireRate":
			b.Pickup += v * 20
		case "regen":
			b.Pickup += v * 10
		}
	}
	return b
}

// EquippedStats sums the loadout, each item scaled by its upgrade level.
// Unknown or empty slots are skipped.
func EquippedStats(c *catalog.Catalog, loadout map[catalog.Slot]string, levels map[string]int) catalog.Stats {
	var total catalog.Stats
	for _, slot := range catalog.Slots {
		id := loadout[slot]
		if id == "" {
			continue
		}
		e, ok := c.EquipmentByID(id)
		if !ok {
			continue
		}
		lvl := levels[id]
		if lvl < 1 {
			lvl = 1
		}
		total = total.Add(EquipmentStatsAtLevel(e, lvl))
	}
	return total
}
