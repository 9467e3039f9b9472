package difficulty

import (
	"errors"
	"fmt"
	"math"

	"github.com/haythammda/Gift-Storm/internal/catalog"
)

const (
	LevelDuration = 300.0
	MiniOneAt     = 120.0
	MiniTwoAt     = 240.0
	FinalAt       = 300.0
)

var ErrUnknownLevel = errors.New("unknown level")

// Phase is a step of the campaign timeline.
type Phase string

const (
	PhaseRegular   Phase = "regular"
	PhaseMiniOne   Phase = "miniboss1"
	PhaseHarder    Phase = "harder"
	PhaseMiniTwo   Phase = "miniboss2"
	PhaseIntense   Phase = "intense"
	PhaseFinalBoss Phase = "finalboss"
	PhaseComplete  Phase = "complete"
)

// Campaign is the phase machine of one campaign level. Time gates are
// necessary but a boss only spawns once the previous one is defeated.
type Campaign struct {
	cat   *catalog.Catalog
	level catalog.GameLevel

	phase   Phase
	elapsed float64

	spawned  map[BossKind]float64
	defeated map[BossKind]float64
}

func NewCampaign(c *catalog.Catalog, levelID int) (*Campaign, error) {
	if c == nil {
		c = catalog.Default()
	}
	lvl, ok := c.Level(levelID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, levelID)
	}
	return &Campaign{
		cat:      c,
		level:    lvl,
		phase:    PhaseRegular,
		spawned:  map[BossKind]float64{},
		defeated: map[BossKind]float64{},
	}, nil
}

func (c *Campaign) Level() catalog.GameLevel { return c.level }
func (c *Campaign) Phase() Phase             { return c.phase }
func (c *Campaign) Elapsed() float64         { return c.elapsed }
func (c *Campaign) Complete() bool           { return c.phase == PhaseComplete }

// Remaining is the level timer readout.
func (c *Campaign) Remaining() float64 { return math.Max(0, LevelDuration-c.elapsed) }

// TimeUp reports the timer ran out. The level still needs the final boss.
func (c *Campaign) TimeUp() bool { return c.elapsed >= LevelDuration }

func (c *Campaign) Spawned(k BossKind) bool {
	_, ok := c.spawned[k]
	return ok
}

func (c *Campaign) Defeated(k BossKind) bool {
	_, ok := c.defeated[k]
	return ok
}

// EnemyHealth and EnemySpeed scale regular children for this level.
func (c *Campaign) EnemyHealth(baseHits int) int {
	return scaleHits(baseHits, c.level.EnemyHealthMultiplier)
}

func (c *Campaign) EnemySpeed(base float64) float64 {
	return base * c.level.EnemySpeedMultiplier
}

// SpawnInterval shortens a base interval by the level's spawn rate.
func (c *Campaign) SpawnInterval(base float64) float64 {
	if c.level.SpawnRateMultiplier <= 0 {
		return base
	}
	return base / c.level.SpawnRateMultiplier
}

// Advance moves the clock to elapsed and returns bosses that spawn now.
// The clock never runs backwards.
func (c *Campaign) Advance(elapsed float64) []BossSpawn {
	if c.Complete() {
		return nil
	}
	c.elapsed = math.Max(c.elapsed, elapsed)

	var out []BossSpawn
	if !c.Spawned(BossMiniOne) && c.elapsed >= MiniOneAt {
		out = append(out, c.spawn(BossMiniOne, PhaseMiniOne))
	}
	if c.Defeated(BossMiniOne) && !c.Spawned(BossMiniTwo) && c.elapsed >= MiniTwoAt {
		out = append(out, c.spawn(BossMiniTwo, PhaseMiniTwo))
	}
	if c.Defeated(BossMiniTwo) && !c.Spawned(BossFinal) && c.elapsed >= FinalAt {
		out = append(out, c.spawn(BossFinal, PhaseFinalBoss))
	}
	return out
}

func (c *Campaign) spawn(k BossKind, next Phase) BossSpawn {
	c.spawned[k] = c.elapsed
	c.phase = next
	b := c.bossFor(k)
	b.At = c.elapsed
	return b
}

func (c *Campaign) bossFor(k BossKind) BossSpawn {
	switch k {
	case BossMiniOne, BossMiniTwo:
		id := c.level.MiniBoss1
		if k == BossMiniTwo {
			id = c.level.MiniBoss2
		}
		m, _ := c.cat.MiniBoss(id)
		return BossSpawn{
			Kind:       k,
			ID:         id,
			Name:       m.Name,
			HP:         scaleHits(m.BaseHitsNeeded, c.level.EnemyHealthMultiplier),
			Speed:      m.BaseSpeed * c.level.EnemySpeedMultiplier,
			Damage:     m.Damage,
			CoinReward: m.CoinReward,
		}
	default:
		b, _ := c.cat.Boss(c.level.FinalBoss)
		return BossSpawn{
			Kind:       BossFinal,
			ID:         c.level.FinalBoss,
			Name:       b.Name,
			HP:         scaleHits(b.HitsNeeded, c.level.EnemyHealthMultiplier),
			Speed:      b.BaseSpeed * c.level.EnemySpeedMultiplier,
			Damage:     b.Damage,
			CoinReward: b.CoinReward,
		}
	}
}

// DefeatBoss records a kill of a spawned, living boss and advances the
// phase. Anything else is rejected.
func (c *Campaign) DefeatBoss(k BossKind) bool {
	if !c.Spawned(k) || c.Defeated(k) {
		return false
	}
	c.defeated[k] = c.elapsed
	switch k {
	case BossMiniOne:
		c.phase = PhaseHarder
	case BossMiniTwo:
		c.phase = PhaseIntense
	case BossFinal:
		c.phase = PhaseComplete
	default:
		return false
	}
	return true
}

// TimeMetric is the time left on the clock when the final boss fell,
// measured from its spawn. Faster kills score higher.
func (c *Campaign) TimeMetric() int {
	at, ok := c.defeated[BossFinal]
	if !ok {
		return 0
	}
	return int(math.Max(0, LevelDuration-(at-c.spawned[BossFinal])))
}

// Stars grades a finished level by remaining health.
func Stars(hp, maxHP float64) int {
	if maxHP <= 0 {
		return 1
	}
	ratio := hp / maxHP
	switch {
	case ratio >= 0.8:
		return 3
	case ratio >= 0.5:
		return 2
	default:
		return 1
	}
}

// Status is the campaign readout for the HUD and the simulator.
type Status struct {
	Level     int     `json:"level"`
	Phase     Phase   `json:"phase"`
	Elapsed   float64 `json:"elapsed"`
	Remaining float64 `json:"remaining"`
	MiniOne   bool    `json:"miniBoss1Defeated"`
	MiniTwo   bool    `json:"miniBoss2Defeated"`
	Final     bool    `json:"finalBossDefeated"`
}

func (c *Campaign) Status() Status {
	return Status{
		Level:     c.level.ID,
		Phase:     c.phase,
		Elapsed:   c.elapsed,
		Remaining: c.Remaining(),
		MiniOne:   c.Defeated(BossMiniOne),
		MiniTwo:   c.Defeated(BossMiniTwo),
		Final:     c.Defeated(BossFinal),
	}
}
