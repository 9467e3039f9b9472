// Package economy holds the pure cost, effect and cap formulas of the
// meta-progression shop. Nothing here mutates state or draws randomness.
package economy

import (
	"math"

	"github.com/haythammda/Gift-Storm/internal/catalog"
)

const (
	DefaultScalingFactor     = 1.15
	MaxEquipmentLevel        = 5
	equipmentCardsPerUpgrade = 10
	equipmentLevelStep       = 0.2
	capEpsilon               = 1e-9

	BaseMaxHP               = 100
	MaxHPPerLevel           = 10
	CoinMultiplierPerLevel  = 0.1
	SeasonPassStartingCoins = 100
)

func scaling(u catalog.WorkshopUpgrade) float64 {
	if u.ScalingFactor == 0 {
		return DefaultScalingFactor
	}
	return u.ScalingFactor
}

// WorkshopUpgradeCost is floor(costPerLevel * scalingFactor^level).
func WorkshopUpgradeCost(u catalog.WorkshopUpgrade, level int) int {
	return int(math.Floor(float64(u.CostPerLevel) * math.Pow(scaling(u), float64(level))))
}

// WorkshopEffectCapped reports whether the realized effect has reached the
// upgrade's cap, or the next level would overshoot it. Upgrades without a
// cap never cap out.
func WorkshopEffectCapped(u catalog.WorkshopUpgrade, level int) bool {
	if u.EffectCap == nil {
		return false
	}
	limit := *u.EffectCap
	if u.Effect*float64(level) >= limit-capEpsilon {
		return true
	}
	return u.Effect*float64(level+1) > limit+capEpsilon
}

// WorkshopLevelLimit is the highest level u can legally reach: its max level,
// lowered to the last level whose effect stays within the cap.
func WorkshopLevelLimit(u catalog.WorkshopUpgrade) int {
	limit := u.MaxLevel
	if u.EffectCap != nil && u.Effect > 0 {
		limit = min(limit, int(math.Floor((*u.EffectCap+capEpsilon)/u.Effect)))
	}
	return max(limit, 0)
}

// CanPurchaseWorkshopUpgrade checks every rejection rule for buying the
// next level of u.
func CanPurchaseWorkshopUpgrade(u catalog.WorkshopUpgrade, level, coins int) bool {
	if level >= u.MaxLevel {
		return false
	}
	if WorkshopEffectCapped(u, level) {
		return false
	}
	return coins >= WorkshopUpgradeCost(u, level)
}

// WorkshopEffect is level*effect clamped to the cap when one is defined.
func WorkshopEffect(u catalog.WorkshopUpgrade, level int) float64 {
	v := u.Effect * float64(level)
	if u.EffectCap != nil && v > *u.EffectCap {
		return *u.EffectCap
	}
	return v
}

// SkillNodeCost scales linearly with the level being bought.
func SkillNodeCost(n catalog.SkillNode, level int) int {
	return n.Cost * (level + 1)
}

// PrerequisitesMet requires every prerequisite to have at least one level.
func PrerequisitesMet(n catalog.SkillNode, levels map[string]int) bool {
	for _, p := range n.PrerequisiteIDs {
		if levels[p] < 1 {
			return false
		}
	}
	return true
}

func CanPurchaseSkillNode(n catalog.SkillNode, levels map[string]int, coins int) bool {
	level := levels[n.ID]
	if level >= n.MaxLevel {
		return false
	}
	if coins < SkillNodeCost(n, level) {
		return false
	}
	return PrerequisitesMet(n, levels)
}

// EquipmentCardsNeeded is flat regardless of the current level.
func EquipmentCardsNeeded(level int) int {
	return equipmentCardsPerUpgrade
}

// EquipmentStatsAtLevel scales every stat by 1+(level-1)*0.2. HP is rounded
// to the nearest integer.
func EquipmentStatsAtLevel(e catalog.Equipment, level int) catalog.Stats {
	if level < 1 {
		level = 1
	}
	m := 1 + float64(level-1)*equipmentLevelStep
	return catalog.Stats{
		HP:           math.Round(e.Stats.HP * m),
		Speed:        e.Stats.Speed * m,
		ThrowRate:    e.Stats.ThrowRate * m,
		PickupRadius: e.Stats.PickupRadius * m,
		Damage:       e.Stats.Damage * m,
	}
}

// RunEndCoins applies the coin multiplier workshop upgrade to a run's haul.
func RunEndCoins(coins, coinMultiplierLevel int) int {
	return int(math.Floor(float64(coins) * (1 + float64(coinMultiplierLevel)*CoinMultiplierPerLevel)))
}

// StartingMaxHP is the run's max HP before equipment and skills.
func StartingMaxHP(maxHPLevel int) int {
	return BaseMaxHP + maxHPLevel*MaxHPPerLevel
}
