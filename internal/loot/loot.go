package loot

import (
	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/rng"
)

// Chest tier brackets by level number, and the chance to roll one tier up.
const (
	diamondFloor   = 81
	goldenFloor    = 51
	silverFloor    = 21
	tierUpgradePct = 15
)

// TableEntry is one bucket of a cumulative percentage roll.
type TableEntry struct {
	Rarity catalog.Rarity
	Weight int // out of 100
}

// Table is checked in order; the first bucket whose running total exceeds
// the roll wins.
type Table []TableEntry

// RarityTable orders a chest's weights epic, rare, common so the rarest
// bucket is matched first.
func RarityTable(w catalog.RarityWeights) Table {
	return Table{
		{Rarity: catalog.Epic, Weight: w.Epic},
		{Rarity: catalog.Rare, Weight: w.Rare},
		{Rarity: catalog.Common, Weight: w.Common},
	}
}

// Roll draws one value in [0,100) and returns the matching rarity. Rolls past
// the last bucket fall back to common.
func (t Table) Roll(src rng.Source) catalog.Rarity {
	roll := src.Float64() * 100
	current := 0
	for _, entry := range t {
		current += entry.Weight
		if roll < float64(current) {
			return entry.Rarity
		}
	}
	return catalog.Common
}

// RollChestTier picks the chest tier awarded for completing level.
func RollChestTier(level int, src rng.Source) catalog.ChestTier {
	switch {
	case level >= diamondFloor:
		return catalog.Diamond
	case level >= goldenFloor:
		if rng.Chance(src, tierUpgradePct) {
			return catalog.Diamond
		}
		return catalog.Golden
	case level >= silverFloor:
		if rng.Chance(src, tierUpgradePct) {
			return catalog.Golden
		}
		return catalog.Silver
	default:
		if rng.Chance(src, tierUpgradePct) {
			return catalog.Silver
		}
		return catalog.Wooden
	}
}

// CardDrop is a merged stack of equipment cards from one opening.
type CardDrop struct {
	EquipmentID string `json:"equipmentId"`
	Count       int    `json:"count"`
}

// Reward is what opening a chest yields. NewEquipment is empty when the
// bonus grant missed or nothing eligible was left.
type Reward struct {
	Coins        int        `json:"coins"`
	Cards        []CardDrop `json:"cards"`
	NewEquipment string     `json:"newEquipment,omitempty"`
}

// CardTotal is the number of cards across every drop.
func (r Reward) CardTotal() int {
	n := 0
	for _, d := range r.Cards {
		n += d.Count
	}
	return n
}

// Open rolls a chest's contents. owned reports equipment the player already
// has; it is only consulted for the bonus grant. Draw order is fixed: coins,
// card count, each card's rarity then item, the bonus roll, acceptance rolls,
// then the bonus pick.
func Open(c *catalog.Catalog, chest catalog.Chest, owned func(id string) bool, src rng.Source) Reward {
	var r Reward
	if len(chest.CoinRange) == 2 {
		r.Coins = rng.Between(src, chest.CoinRange[0], chest.CoinRange[1])
	}
	count := 0
	if len(chest.CardRange) == 2 {
		count = rng.Between(src, chest.CardRange[0], chest.CardRange[1])
	}

	table := RarityTable(chest.RarityWeights)
	var drawn []string
	for i := 0; i < count; i++ {
		pool := c.EquipmentByRarity(table.Roll(src))
		idx := rng.Pick(src, len(pool))
		if idx < 0 {
			continue
		}
		drawn = append(drawn, pool[idx].ID)
	}
	r.Cards = MergeCards(drawn)

	if rng.Chance(src, chest.EquipmentChance) {
		var eligible []catalog.Equipment
		for _, e := range c.Equipment {
			if owned != nil && owned(e.ID) {
				continue
			}
			if accepts(chest.Rarity, e.Rarity, src) {
				eligible = append(eligible, e)
			}
		}
		if idx := rng.Pick(src, len(eligible)); idx >= 0 {
			r.NewEquipment = eligible[idx].ID
		}
	}
	return r
}

// accepts filters bonus equipment by chest tier. Rolls are only drawn for
// the rarities that need one.
func accepts(tier catalog.ChestTier, r catalog.Rarity, src rng.Source) bool {
	switch tier {
	case catalog.Diamond:
		return true
	case catalog.Golden:
		return r != catalog.Epic || src.Float64() < 0.3
	case catalog.Silver:
		switch r {
		case catalog.Common:
			return true
		case catalog.Rare:
			return src.Float64() < 0.5
		}
		return false
	default:
		return r == catalog.Common
	}
}
