package player

import (
	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/economy"
	"github.com/haythammda/Gift-Storm/internal/loot"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

func (s *Store) WorkshopLevel(id string) int {
	var n int
	s.read(func(p *Profile) { n = p.WorkshopUpgradeLevels[id] })
	return n
}

// PurchaseWorkshopUpgrade buys exactly one level of a workshop upgrade.
func (s *Store) PurchaseWorkshopUpgrade(id string) bool {
	u, ok := s.cat.WorkshopUpgrade(id)
	if !ok {
		return false
	}
	var cost, level int
	ok = s.mutate("purchase_workshop", func(p *Profile) bool {
		level = p.WorkshopUpgradeLevels[id]
		if !economy.CanPurchaseWorkshopUpgrade(u, level, p.Coins) {
			return false
		}
		cost = economy.WorkshopUpgradeCost(u, level)
		p.Coins -= cost
		level++
		p.WorkshopUpgradeLevels[id] = level
		return true
	})
	if ok {
		s.record(telemetry.EventWorkshopPurchased, telemetry.EventMetadata{"id": id, "cost": cost, "level": level})
	}
	return ok
}

func (s *Store) SkillLevel(id string) int {
	var n int
	s.read(func(p *Profile) { n = p.SkillLevels[id] })
	return n
}

// PurchaseSkillNode buys the next level of a skill node. Nodes that unlock
// a weapon add it to the unlocked set.
func (s *Store) PurchaseSkillNode(id string) bool {
	n, ok := s.cat.SkillNode(id)
	if !ok {
		return false
	}
	var cost int
	ok = s.mutate("purchase_skill", func(p *Profile) bool {
		level := p.SkillLevels[id]
		if !economy.CanPurchaseSkillNode(n, p.SkillLevels, p.Coins) {
			return false
		}
		cost = economy.SkillNodeCost(n, level)
		p.Coins -= cost
		p.SkillLevels[id] = level + 1
		if n.UnlocksWeaponID != "" {
			p.UnlockedWeaponIDs = appendUnique(p.UnlockedWeaponIDs, n.UnlocksWeaponID)
		}
		return true
	})
	if ok {
		s.record(telemetry.EventSkillPurchased, telemetry.EventMetadata{"id": id, "cost": cost})
	}
	return ok
}

// SkillBonuses folds the purchased skill tree into run bonuses.
func (s *Store) SkillBonuses() economy.SkillBonuses {
	var b economy.SkillBonuses
	s.read(func(p *Profile) { b = economy.SkillBonusesFor(s.cat.SkillTree, p.SkillLevels) })
	return b
}

func (s *Store) PurchaseEquipment(id string) bool {
	e, ok := s.cat.EquipmentByID(id)
	if !ok {
		return false
	}
	ok = s.mutate("purchase_equipment", func(p *Profile) bool {
		if contains(p.OwnedEquipmentIDs, id) || p.Coins < e.Cost {
			return false
		}
		p.Coins -= e.Cost
		p.OwnedEquipmentIDs = append(p.OwnedEquipmentIDs, id)
		return true
	})
	if ok {
		s.record(telemetry.EventEquipmentPurchased, telemetry.EventMetadata{"id": id, "cost": e.Cost})
	}
	return ok
}

// Equip puts an owned item into its own slot.
func (s *Store) Equip(id string) bool {
	e, ok := s.cat.EquipmentByID(id)
	if !ok {
		return false
	}
	return s.mutate("equip", func(p *Profile) bool {
		if !contains(p.OwnedEquipmentIDs, id) {
			return false
		}
		p.EquipmentLoadout[e.Slot] = id
		return true
	})
}

func (s *Store) Unequip(slot catalog.Slot) bool {
	if !slot.Valid() {
		return false
	}
	return s.mutate("unequip", func(p *Profile) bool {
		if p.EquipmentLoadout[slot] == "" {
			return false
		}
		p.EquipmentLoadout[slot] = ""
		return true
	})
}

// EquipmentLevel is 1 for items never upgraded.
func (s *Store) EquipmentLevel(id string) int {
	n := 1
	s.read(func(p *Profile) {
		if v := p.EquipmentUpgradeLevels[id]; v > 0 {
			n = v
		}
	})
	return n
}

// UpgradeEquipment spends cards to raise an item one level, up to the max.
func (s *Store) UpgradeEquipment(id string) bool {
	if _, ok := s.cat.EquipmentByID(id); !ok {
		return false
	}
	var level int
	ok := s.mutate("upgrade_equipment", func(p *Profile) bool {
		level = max(p.EquipmentUpgradeLevels[id], 1)
		if level >= economy.MaxEquipmentLevel {
			return false
		}
		if !loot.Cards(p.EquipmentCardCounts).Spend(id, economy.EquipmentCardsNeeded(level)) {
			return false
		}
		if p.EquipmentCardCounts[id] == 0 {
			delete(p.EquipmentCardCounts, id)
		}
		level++
		p.EquipmentUpgradeLevels[id] = level
		return true
	})
	if ok {
		s.record(telemetry.EventEquipmentUpgraded, telemetry.EventMetadata{"id": id, "level": level})
	}
	return ok
}

// EquippedStats sums the current loadout at each item's upgrade level.
func (s *Store) EquippedStats() catalog.Stats {
	var st catalog.Stats
	s.read(func(p *Profile) {
		st = economy.EquippedStats(s.cat, p.EquipmentLoadout, p.EquipmentUpgradeLevels)
	})
	return st
}

// ToggleActiveWeapon adds or removes an unlocked weapon from the active set.
// The last active weapon cannot be removed and at most three may be active.
func (s *Store) ToggleActiveWeapon(id string) bool {
	return s.mutate("toggle_weapon", func(p *Profile) bool {
		if !contains(p.UnlockedWeaponIDs, id) {
			return false
		}
		if contains(p.ActiveWeaponIDs, id) {
			if len(p.ActiveWeaponIDs) <= 1 {
				return false
			}
			p.ActiveWeaponIDs = removeID(p.ActiveWeaponIDs, id)
			return true
		}
		if len(p.ActiveWeaponIDs) >= MaxActiveWeapons {
			return false
		}
		p.ActiveWeaponIDs = append(p.ActiveWeaponIDs, id)
		return true
	})
}
