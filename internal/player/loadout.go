package player

import (
	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/economy"
)

// RunModifiers is everything the profile contributes to a new run.
type RunModifiers struct {
	MaxHP         int                  `json:"maxHp"`
	StartingCoins int                  `json:"startingCoins"`
	XPBonus       float64              `json:"xpBonus"`
	SeasonPass    bool                 `json:"seasonPass"`
	ActiveWeapons []string             `json:"activeWeapons"`
	Equipment     catalog.Stats        `json:"equipment"`
	Skills        economy.SkillBonuses `json:"skills"`
	Workshop      map[string]float64   `json:"workshop"`
}

// RunModifiers derives the starting state of a run from the profile.
func (s *Store) RunModifiers() RunModifiers {
	var m RunModifiers
	s.read(func(p *Profile) {
		m.Workshop = make(map[string]float64, len(s.cat.WorkshopUpgrades))
		for _, u := range s.cat.WorkshopUpgrades {
			if lvl := p.WorkshopUpgradeLevels[u.ID]; lvl > 0 {
				m.Workshop[u.ID] = economy.WorkshopEffect(u, lvl)
			}
		}
		m.Equipment = economy.EquippedStats(s.cat, p.EquipmentLoadout, p.EquipmentUpgradeLevels)
		m.Skills = economy.SkillBonusesFor(s.cat.SkillTree, p.SkillLevels)
		m.MaxHP = economy.StartingMaxHP(p.WorkshopUpgradeLevels["maxHp"]) +
			int(m.Workshop["startingHp"]) + int(m.Equipment.HP) + int(m.Skills.HP)
		m.XPBonus = m.Workshop["xpGain"]
		m.SeasonPass = p.HasSeasonPass
		if p.HasSeasonPass {
			m.StartingCoins = economy.SeasonPassStartingCoins
		}
		m.ActiveWeapons = append([]string{}, p.ActiveWeaponIDs...)
	})
	return m
}
