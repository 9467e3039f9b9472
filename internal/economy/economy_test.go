package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haythammda/Gift-Storm/internal/catalog"
)

func capOf(v float64) *float64 { return &v }

func TestWorkshopUpgradeCost(t *testing.T) {
	u := catalog.WorkshopUpgrade{ID: "x", MaxLevel: 10, CostPerLevel: 100, ScalingFactor: 1.15}

	assert.Equal(t, 100, WorkshopUpgradeCost(u, 0))
	assert.Equal(t, 114, WorkshopUpgradeCost(u, 1))
	assert.Equal(t, 132, WorkshopUpgradeCost(u, 2))

	t.Run("missing scaling factor defaults to 1.15", func(t *testing.T) {
		u := catalog.WorkshopUpgrade{CostPerLevel: 500, MaxLevel: 3}
		assert.Equal(t, 575, WorkshopUpgradeCost(u, 1))
	})
}

func TestWorkshopCostIsMonotonic(t *testing.T) {
	for _, u := range catalog.Default().WorkshopUpgrades {
		limit := u.MaxLevel
		if limit > 200 {
			limit = 200
		}
		prev := WorkshopUpgradeCost(u, 0)
		for lvl := 1; lvl < limit; lvl++ {
			cost := WorkshopUpgradeCost(u, lvl)
			require.GreaterOrEqual(t, cost, prev, "%s level %d", u.ID, lvl)
			prev = cost
		}
	}
}

func TestCanPurchaseWorkshopUpgrade(t *testing.T) {
	capped := catalog.WorkshopUpgrade{ID: "crit", MaxLevel: 999, CostPerLevel: 200, Effect: 0.01, ScalingFactor: 1.15, EffectCap: capOf(0.25)}

	tests := []struct {
		name  string
		u     catalog.WorkshopUpgrade
		level int
		coins int
		want  bool
	}{
		{"affordable", capped, 0, 200, true},
		{"short one coin", capped, 0, 199, false},
		{"at effect cap below max level", capped, 25, 1 << 30, false},
		{"one below cap", capped, 24, 1 << 30, true},
		{"at max level", catalog.WorkshopUpgrade{MaxLevel: 1, CostPerLevel: 500, Effect: 1}, 1, 1 << 30, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPurchaseWorkshopUpgrade(tt.u, tt.level, tt.coins))
		})
	}
}

func TestWorkshopEffectNeverExceedsCap(t *testing.T) {
	for _, u := range catalog.Default().WorkshopUpgrades {
		if u.EffectCap == nil {
			continue
		}
		level := 0
		for CanPurchaseWorkshopUpgrade(u, level, 1<<62) {
			level++
		}
		assert.LessOrEqual(t, u.Effect*float64(level), *u.EffectCap+1e-9, u.ID)
		assert.True(t, WorkshopEffectCapped(u, level), u.ID)
		assert.InDelta(t, *u.EffectCap, WorkshopEffect(u, level+10), 1e-9, u.ID)
	}
}

func TestSkillNodeCostAndPrerequisites(t *testing.T) {
	node := catalog.SkillNode{ID: "damage_2", Cost: 100, MaxLevel: 5, PrerequisiteIDs: []string{"damage_1"}}

	assert.Equal(t, 100, SkillNodeCost(node, 0))
	assert.Equal(t, 300, SkillNodeCost(node, 2))

	levels := map[string]int{}
	assert.False(t, PrerequisitesMet(node, levels))
	assert.False(t, CanPurchaseSkillNode(node, levels, 1000))

	levels["damage_1"] = 1
	assert.True(t, PrerequisitesMet(node, levels))
	assert.True(t, CanPurchaseSkillNode(node, levels, 100))
	assert.False(t, CanPurchaseSkillNode(node, levels, 99))

	levels["damage_2"] = 5
	assert.False(t, CanPurchaseSkillNode(node, levels, 1<<30))
}

func TestEquipmentStatsAtLevel(t *testing.T) {
	e := catalog.Equipment{Stats: catalog.Stats{HP: 12, Speed: 0.03}}

	s := EquipmentStatsAtLevel(e, 1)
	assert.Equal(t, 12.0, s.HP)
	assert.InDelta(t, 0.03, s.Speed, 1e-12)

	s = EquipmentStatsAtLevel(e, 3)
	assert.Equal(t, 17.0, s.HP) // 16.8 rounds up
	assert.InDelta(t, 0.042, s.Speed, 1e-12)
	assert.Zero(t, s.Damage)

	assert.Equal(t, 10, EquipmentCardsNeeded(1))
	assert.Equal(t, 10, EquipmentCardsNeeded(4))
}

func TestSkillBonusesFor(t *testing.T) {
	nodes := []catalog.SkillNode{
		{ID: "d", Effect: catalog.SkillEffect{Stat: "damage", Value: 0.08}},
		{ID: "c", Effect: catalog.SkillEffect{Stat: "critChance", Value: 0.04}},
		{ID: "f", Effect: catalog.SkillEffect{Stat: "fireRate", Value: 0.05}},
		{ID: "u", Effect: catalog.SkillEffect{Stat: "unlockWeapon", Value: 1}, UnlocksWeaponID: "snowball"},
	}
	b := SkillBonusesFor(nodes, map[string]int{"d": 2, "c": 1, "f": 1, "u": 1})
	assert.InDelta(t, 0.18, b.Damage, 1e-9)
	assert.InDelta(t, 1.0, b.Pickup, 1e-9)
	assert.Zero(t, b.HP)
}

func TestEquippedStats(t *testing.T) {
	c := catalog.Default()
	loadout := map[catalog.Slot]string{
		catalog.SlotJacket: "wool_jacket",
		catalog.SlotSocks:  "",
		catalog.SlotPants:  "not_real",
	}
	s := EquippedStats(c, loadout, map[string]int{"wool_jacket": 2})
	assert.Equal(t, 12.0, s.HP)
}

func TestRunEndCoinsAndStartingHP(t *testing.T) {
	assert.Equal(t, 57, RunEndCoins(57, 0))
	assert.Equal(t, 74, RunEndCoins(57, 3))
	assert.Equal(t, 100, StartingMaxHP(0))
	assert.Equal(t, 150, StartingMaxHP(5))
}

func TestWorkshopLevelLimit(t *testing.T) {
	capped := catalog.WorkshopUpgrade{MaxLevel: 999, Effect: 0.02, EffectCap: capOf(0.5)}
	assert.Equal(t, 25, WorkshopLevelLimit(capped))
	assert.False(t, WorkshopEffectCapped(capped, 24))
	assert.True(t, WorkshopEffectCapped(capped, 25))

	assert.Equal(t, 10, WorkshopLevelLimit(catalog.WorkshopUpgrade{MaxLevel: 10, Effect: 10}))
}
