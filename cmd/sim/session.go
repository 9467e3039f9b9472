package main

import (
	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/config"
	"github.com/haythammda/Gift-Storm/internal/difficulty"
	"github.com/haythammda/Gift-Storm/internal/player"
	"github.com/haythammda/Gift-Storm/internal/rng"
	"github.com/haythammda/Gift-Storm/internal/run"
)

const (
	tickSeconds       = 0.25
	baseSpawnInterval = 2.0
	baseThrowRate     = 2.0
	approachDistance  = 600.0
	damagePerPoint    = 5.0
	contactCooldown   = 1.0
	critChance        = 10.0
	coinDropChance    = 35.0
	xpPerChild        = 8
	upgradeBoost      = 0.05

	// endlessCap stops bots that never die.
	endlessCap = 1800.0
	// overtime bounds a campaign whose final boss is never defeated.
	overtime = 300.0
)

// runConfig maps the profile's run modifiers and the balance preset onto a
// new run.
func runConfig(cat *catalog.Catalog, mods player.RunModifiers, bal config.Balance, src rng.Source) run.Config {
	coins := mods.StartingCoins
	if mods.SeasonPass {
		coins = bal.SeasonPassCoins
	}
	return run.Config{
		Catalog:       cat,
		Rand:          src,
		MaxHP:         mods.MaxHP + bal.BonusHP,
		StartingCoins: coins,
		XPBonus:       mods.XPBonus,
		SeasonPass:    mods.SeasonPass,
		HeadStart:     mods.Workshop["startingUpgrade"] > 0,
		FirstLevelXP:  bal.FirstLevelXP,
		XPGrowth:      bal.XPGrowth,
	}
}

type foe struct {
	hits   float64
	damage float64
	arrive float64
	coins  int
	boss   difficulty.BossKind
}

// bot stands in for the player: it throws at the oldest child first and
// takes contact damage from every child that reaches it.
type bot struct {
	src    rng.Source
	st     *run.State
	rate   float64
	budget float64
	queue  []*foe
	bosses int
}

func newBot(st *run.State, mods player.RunModifiers, src rng.Source) *bot {
	throws := baseThrowRate * (1 + mods.Workshop["throwRate"] + mods.Equipment.ThrowRate)
	power := 1 + mods.Skills.Damage + mods.Equipment.Damage
	return &bot{src: src, st: st, rate: throws * power}
}

func (b *bot) spawn(hits int, speed, damage float64, coins int, boss difficulty.BossKind) {
	if speed <= 0 {
		speed = 1
	}
	b.queue = append(b.queue, &foe{
		hits:   float64(max(1, hits)),
		damage: damage * damagePerPoint,
		arrive: b.st.Elapsed + approachDistance/speed,
		coins:  coins,
		boss:   boss,
	})
}

// step advances one tick and returns the bosses defeated in it.
func (b *bot) step(dt float64) []difficulty.BossKind {
	b.st.Tick(dt)
	boost := 1 + upgradeBoost*float64(len(b.st.Upgrades))
	b.budget += b.rate * boost * dt

	var defeated []difficulty.BossKind
	for len(b.queue) > 0 && b.budget >= b.queue[0].hits {
		f := b.queue[0]
		b.queue = b.queue[1:]
		b.budget -= f.hits
		b.st.EnemyDefeated(run.Defeat{Critical: rng.Chance(b.src, critChance)})
		b.st.PickupCollected(run.PickupXP, xpPerChild)
		if f.coins > 0 {
			b.st.PickupCollected(run.PickupCoin, f.coins)
		} else if rng.Chance(b.src, coinDropChance) {
			b.st.PickupCollected(run.PickupCoin, 1)
		}
		if f.boss != "" {
			b.bosses++
			defeated = append(defeated, f.boss)
		}
	}
	if len(b.queue) == 0 {
		b.budget = 0
	}

	for _, f := range b.queue {
		if b.st.Elapsed >= f.arrive {
			b.st.PlayerDamaged(f.damage)
			f.arrive = b.st.Elapsed + contactCooldown
		}
	}

	for b.st.Pending() > 0 {
		offer := b.st.Offer()
		if len(offer) == 0 || !b.st.Choose(offer[0].ID) {
			break
		}
	}
	return defeated
}

type enemyTable struct {
	byID map[string]catalog.EnemyType
}

func newEnemyTable(cat *catalog.Catalog) enemyTable {
	t := enemyTable{byID: map[string]catalog.EnemyType{}}
	for _, e := range cat.EnemyTypes {
		t.byID[e.ID] = e
	}
	return t
}

func (t enemyTable) roll(elapsed float64, src rng.Source) catalog.EnemyType {
	v := difficulty.RollVariant(elapsed, src)
	if e, ok := t.byID[difficulty.EnemyTypeID(v)]; ok {
		return e
	}
	return catalog.EnemyType{ID: string(v), HitsNeeded: 1, BaseSpeed: 80, Damage: 1}
}

// EndlessResult is one simulated endless run.
type EndlessResult struct {
	run.Result
	Bosses int  `json:"bosses"`
	Capped bool `json:"capped"`
}

func simulateEndless(cat *catalog.Catalog, cfg run.Config, mods player.RunModifiers, bal config.Balance, src rng.Source) EndlessResult {
	st := run.New(cfg)
	b := newBot(st, mods, src)
	endless := difficulty.NewEndless(bal.BaseDifficulty, src)
	enemies := newEnemyTable(cat)

	var timer float64
	for !st.Over && st.Elapsed < endlessCap {
		snap := endless.Snapshot(st.Elapsed)
		timer += tickSeconds
		for interval := baseSpawnInterval * snap.SpawnScaling; timer >= interval; timer -= interval {
			for i := 0; i < snap.SpawnCount; i++ {
				e := enemies.roll(st.Elapsed, src)
				b.spawn(e.HitsNeeded, e.BaseSpeed*snap.Speed, float64(e.Damage)*snap.Difficulty, 0, "")
			}
		}
		for _, boss := range endless.Advance(st.Elapsed) {
			b.spawn(boss.HP, boss.Speed, float64(boss.Damage), boss.CoinReward, boss.Kind)
		}
		b.step(tickSeconds)
	}
	capped := !st.Over
	st.End()
	return EndlessResult{Result: st.Result(), Bosses: b.bosses, Capped: capped}
}

// CampaignResult is one simulated campaign level attempt.
type CampaignResult struct {
	run.Result
	Level      int               `json:"level"`
	Won        bool              `json:"won"`
	Stars      int               `json:"stars"`
	TimeMetric int               `json:"timeMetric"`
	Status     difficulty.Status `json:"status"`
}

func simulateCampaign(cat *catalog.Catalog, level int, cfg run.Config, mods player.RunModifiers, src rng.Source) (CampaignResult, error) {
	c, err := difficulty.NewCampaign(cat, level)
	if err != nil {
		return CampaignResult{}, err
	}
	st := run.New(cfg)
	b := newBot(st, mods, src)
	enemies := newEnemyTable(cat)

	interval := c.SpawnInterval(baseSpawnInterval)
	var timer float64
	for !st.Over && !c.Complete() && st.Elapsed < difficulty.LevelDuration+overtime {
		timer += tickSeconds
		for ; timer >= interval; timer -= interval {
			e := enemies.roll(st.Elapsed, src)
			b.spawn(c.EnemyHealth(e.HitsNeeded), c.EnemySpeed(e.BaseSpeed), float64(e.Damage), 0, "")
		}
		for _, boss := range c.Advance(st.Elapsed) {
			b.spawn(boss.HP, boss.Speed, float64(boss.Damage), boss.CoinReward, boss.Kind)
		}
		for _, k := range b.step(tickSeconds) {
			c.DefeatBoss(k)
		}
	}

	out := CampaignResult{Level: level, Won: c.Complete() && !st.Over, Status: c.Status()}
	if out.Won {
		out.Stars = difficulty.Stars(st.HP, st.MaxHP)
		out.TimeMetric = c.TimeMetric()
	}
	st.End()
	out.Result = st.Result()
	return out, nil
}
