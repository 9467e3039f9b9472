package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/rng"
)

func ids(us []catalog.InRunUpgrade) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.ID
	}
	return out
}

func TestOfferChoicesExcludesOwnedNonStacking(t *testing.T) {
	c := catalog.Default()
	owned := []string{"piercing", "freezeBlast", "fasterThrow"}
	src := rng.New(8)

	sawStacking := false
	for i := 0; i < 500; i++ {
		offer := OfferChoices(c, owned, ChoiceCount, src)
		require.Len(t, offer, ChoiceCount)
		got := ids(offer)
		assert.NotContains(t, got, "piercing")
		assert.NotContains(t, got, "freezeBlast")
		if Count(got, "fasterThrow") > 0 {
			sawStacking = true
		}
		seen := map[string]bool{}
		for _, id := range got {
			require.False(t, seen[id], "duplicate in one offer")
			seen[id] = true
		}
	}
	assert.True(t, sawStacking, "stacking upgrades reappear")
}

func TestOfferChoicesDegradesGracefully(t *testing.T) {
	c := catalog.Default()
	var owned []string
	for _, u := range c.InRunUpgrades {
		if !u.Stacking {
			owned = append(owned, u.ID)
		}
	}
	stacking := len(c.InRunUpgrades) - len(owned)
	require.Less(t, stacking, 5)

	offer := OfferChoices(c, owned, 5, rng.New(1))
	assert.Len(t, offer, stacking)
	for _, u := range offer {
		assert.True(t, u.Stacking)
	}
	assert.Empty(t, OfferChoices(c, owned, 0, rng.New(1)))
}

func TestSynergySymmetry(t *testing.T) {
	c := catalog.Default()
	for _, s := range c.Synergies {
		a, b := s.Upgrades[0], s.Upgrades[1]
		assert.True(t, IsSynergyActive(s, []string{a, b}), s.ID)
		assert.True(t, IsSynergyActive(s, []string{b, "haste", a}), s.ID)
		assert.False(t, IsSynergyActive(s, []string{a, a}), s.ID)
		assert.False(t, IsSynergyActive(s, []string{b}), s.ID)

		partner, got, ok := SynergyPartner(c, b)
		require.True(t, ok)
		assert.Equal(t, a, partner)
		assert.Equal(t, s.ID, got.ID)
	}

	owned := []string{"fasterThrow", "fasterThrow", "biggerBag"}
	active := ActiveSynergies(c, owned)
	require.Len(t, active, 1)
	assert.Equal(t, "giftStorm", active[0].ID)
	assert.True(t, HasBonus(c, owned, "projectileSpeed"))
	assert.False(t, HasBonus(c, owned, "extendedFreeze"))

	s, ok := CompletesSynergy(c, []string{"frostbite"}, "freezeBlast")
	require.True(t, ok)
	assert.Equal(t, "deepFreeze", s.ID)
	_, ok = CompletesSynergy(c, []string{"frostbite"}, "haste")
	assert.False(t, ok)
}

func TestXPCurve(t *testing.T) {
	want := []int{100, 120, 144, 172, 206}
	v := BaseXPToLevel
	for i, w := range want {
		require.Equal(t, w, v, "level %d", i+1)
		v = NextXPToLevel(v)
	}
}

func TestMultipleLevelUpsQueueChoices(t *testing.T) {
	s := New(Config{Rand: rng.New(21)})

	s.GainXP(230)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, 10, s.XP)
	assert.Equal(t, 144, s.XPToLevel)
	assert.Equal(t, 2, s.Pending())

	first := s.Offer()
	require.Len(t, first, ChoiceCount)
	assert.False(t, s.Choose("not_offered"))

	pick := first[0]
	require.True(t, s.Choose(pick.ID))
	assert.Equal(t, 1, s.Pending())
	second := s.Offer()
	require.NotEmpty(t, second)
	if !pick.Stacking {
		assert.NotContains(t, ids(second), pick.ID)
	}

	require.True(t, s.Choose(second[0].ID))
	assert.Zero(t, s.Pending())
	assert.Empty(t, s.Offer())
	assert.False(t, s.Choose(second[0].ID))
	assert.Len(t, s.Upgrades, 2)
}

func TestConfiguredXPCurve(t *testing.T) {
	s := New(Config{Rand: rng.New(3), FirstLevelXP: 50, XPGrowth: 2})
	assert.Equal(t, 50, s.XPToLevel)

	s.GainXP(160)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, 10, s.XP)
	assert.Equal(t, 200, s.XPToLevel)
}

func TestSeasonPassAndBonusScaleXP(t *testing.T) {
	s := New(Config{Rand: rng.New(1), SeasonPass: true, XPBonus: 0.1})
	s.GainXP(40)
	assert.Equal(t, 88, s.XP)
}

func TestRunEvents(t *testing.T) {
	s := New(Config{Rand: rng.New(2), MaxHP: 50, StartingCoins: 100})
	assert.Equal(t, 100, s.Coins)

	s.EnemyDefeated(Defeat{})
	s.EnemyDefeated(Defeat{Critical: true})
	assert.Equal(t, 30, s.Score)
	assert.Equal(t, 2, s.ChildrenHelped)

	s.PickupCollected(PickupCoin, 3)
	assert.Equal(t, 103, s.Coins)

	assert.False(t, s.PlayerDamaged(20))
	s.PickupCollected(PickupHealth, 50)
	assert.Equal(t, 50.0, s.HP, "healing caps at max")

	s.Upgrades = append(s.Upgrades, "warmthAura", "treasureHunter", "regeneration")
	s.PickupCollected(PickupCoin, 3)
	assert.Equal(t, 107, s.Coins)
	s.PlayerDamaged(20)
	assert.Equal(t, 40.0, s.HP)

	s.Tick(14)
	assert.Equal(t, 40.0, s.HP)
	s.Tick(17)
	assert.Equal(t, 42.0, s.HP, "two regen boundaries crossed")

	assert.True(t, s.PlayerDamaged(500))
	s.EnemyDefeated(Defeat{})
	assert.Equal(t, 30, s.Score, "events after the run ends are ignored")

	r := s.Result()
	assert.Equal(t, Result{Score: 30, Coins: 107, Seconds: 31, ChildrenHelped: 2, Level: 1}, r)
}

func TestHeadStartGrantsCommonUpgrade(t *testing.T) {
	c := catalog.Default()
	s := New(Config{Catalog: c, Rand: rng.New(3), HeadStart: true})
	require.Len(t, s.Upgrades, 1)
	u, ok := c.InRunUpgrade(s.Upgrades[0])
	require.True(t, ok)
	assert.Equal(t, catalog.Common, u.Rarity)
}
