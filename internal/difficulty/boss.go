package difficulty

import (
	"math"

	"github.com/haythammda/Gift-Storm/internal/rng"
)

// BossKind is which slot of a timeline a boss fills.
type BossKind string

const (
	BossEndless BossKind = "endless"
	BossMiniOne BossKind = "miniboss1"
	BossMiniTwo BossKind = "miniboss2"
	BossFinal   BossKind = "finalboss"
)

// BossSpawn tells the game loop what to put on the field.
type BossSpawn struct {
	Kind       BossKind `json:"kind"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	HP         int      `json:"hp"`
	Speed      float64  `json:"speed"`
	Damage     int      `json:"damage"`
	CoinReward int      `json:"coinReward"`
	At         float64  `json:"at"`
}

// EndlessBoss is one entry of the endless-mode boss roster.
type EndlessBoss struct {
	ID     string
	Name   string
	BaseHP int
	Speed  float64
}

var EndlessBosses = []EndlessBoss{
	{ID: "frostGiant", Name: "Frost Giant", BaseHP: 8, Speed: 40},
	{ID: "blizzardKing", Name: "Blizzard King", BaseHP: 10, Speed: 35},
	{ID: "iceDragon", Name: "Ice Dragon", BaseHP: 12, Speed: 45},
}

// Endless tracks the boss cadence of one endless run.
type Endless struct {
	Base    float64
	src     rng.Source
	spawned int
}

func NewEndless(base float64, src rng.Source) *Endless {
	if base <= 0 {
		base = 1
	}
	if src == nil {
		src = rng.NewTimeSeeded()
	}
	return &Endless{Base: base, src: src}
}

// Spawned is how many bosses have appeared so far.
func (e *Endless) Spawned() int { return e.spawned }

// Snapshot is the difficulty at elapsed for this run's base.
func (e *Endless) Snapshot(elapsed float64) Snapshot { return At(elapsed, e.Base) }

// Advance returns the bosses that became due up to elapsed. A long frame
// can release more than one.
func (e *Endless) Advance(elapsed float64) []BossSpawn {
	var out []BossSpawn
	for elapsed >= BossAt(e.spawned) {
		at := BossAt(e.spawned)
		b := EndlessBosses[rng.Pick(e.src, len(EndlessBosses))]
		out = append(out, BossSpawn{
			Kind:       BossEndless,
			ID:         b.ID,
			Name:       b.Name,
			HP:         BossHP(b.BaseHP, at),
			Speed:      b.Speed,
			Damage:     1,
			CoinReward: BossCoinReward(at),
			At:         at,
		})
		e.spawned++
	}
	return out
}

func scaleHits(base int, mult float64) int {
	return max(1, int(math.Round(float64(base)*mult)))
}
