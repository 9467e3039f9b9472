package run

import (
	"math"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/rng"
)

const (
	BaseXPToLevel     = 100
	XPGrowth          = 1.2
	ScorePerChild     = 10
	SeasonPassXPBoost = 2.0

	regenInterval      = 15.0
	warmthAuraDamage   = 0.5
	treasureCoinFactor = 1.5
)

// NextXPToLevel is the threshold after one that took prev XP.
func NextXPToLevel(prev int) int {
	return nextThreshold(prev, XPGrowth)
}

func nextThreshold(prev int, growth float64) int {
	return int(math.Floor(float64(prev) * growth))
}

// PickupKind is what the player collected.
type PickupKind string

const (
	PickupXP     PickupKind = "xp"
	PickupCoin   PickupKind = "coin"
	PickupHealth PickupKind = "health"
)

// Defeat describes a helped child. Critical doubles the score.
type Defeat struct {
	Critical bool
}

type Config struct {
	Catalog *catalog.Catalog
	Rand    rng.Source

	MaxHP         int
	StartingCoins int

	// XPBonus is the workshop xpGain effect, e.g. 0.1 for +10%.
	XPBonus    float64
	SeasonPass bool

	// HeadStart grants one random common upgrade at the start.
	HeadStart bool

	// FirstLevelXP and XPGrowth override the XP curve when set.
	FirstLevelXP int
	XPGrowth     float64
}

// State is one run, driven synchronously by game loop events. It is not
// safe for concurrent use.
type State struct {
	cat *catalog.Catalog
	src rng.Source

	HP             float64  `json:"hp"`
	MaxHP          float64  `json:"maxHp"`
	Level          int      `json:"level"`
	XP             int      `json:"xp"`
	XPToLevel      int      `json:"xpToLevel"`
	Score          int      `json:"score"`
	Coins          int      `json:"coins"`
	ChildrenHelped int      `json:"childrenHelped"`
	Elapsed        float64  `json:"elapsed"`
	Upgrades       []string `json:"upgrades"`
	Over           bool     `json:"over"`

	xpMult   float64
	xpGrowth float64
	pending  int
	offer    []catalog.InRunUpgrade
}

func New(cfg Config) *State {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Rand == nil {
		cfg.Rand = rng.NewTimeSeeded()
	}
	if cfg.MaxHP <= 0 {
		cfg.MaxHP = 100
	}
	if cfg.FirstLevelXP <= 0 {
		cfg.FirstLevelXP = BaseXPToLevel
	}
	if cfg.XPGrowth <= 1 {
		cfg.XPGrowth = XPGrowth
	}
	mult := 1 + cfg.XPBonus
	if cfg.SeasonPass {
		mult *= SeasonPassXPBoost
	}
	s := &State{
		cat:       cfg.Catalog,
		src:       cfg.Rand,
		HP:        float64(cfg.MaxHP),
		MaxHP:     float64(cfg.MaxHP),
		Level:     1,
		XPToLevel: cfg.FirstLevelXP,
		Coins:     cfg.StartingCoins,
		Upgrades:  []string{},
		xpMult:    mult,
		xpGrowth:  cfg.XPGrowth,
	}
	if cfg.HeadStart {
		if u, ok := RandomCommon(s.cat, s.Upgrades, s.src); ok {
			s.Upgrades = append(s.Upgrades, u.ID)
		}
	}
	return s
}

// Has reports whether the upgrade was picked this run.
func (s *State) Has(id string) bool { return has(s.Upgrades, id) }

// Synergies lists the synergies active this run.
func (s *State) Synergies() []catalog.Synergy { return ActiveSynergies(s.cat, s.Upgrades) }

// EnemyDefeated counts a helped child.
func (s *State) EnemyDefeated(d Defeat) {
	if s.Over {
		return
	}
	pts := ScorePerChild
	if d.Critical {
		pts *= 2
	}
	s.Score += pts
	s.ChildrenHelped++
}

// PickupCollected applies a pickup. XP pickups may queue level-ups.
func (s *State) PickupCollected(kind PickupKind, amount int) {
	if s.Over || amount <= 0 {
		return
	}
	switch kind {
	case PickupXP:
		s.GainXP(amount)
	case PickupCoin:
		if s.Has("treasureHunter") {
			amount = int(math.Floor(float64(amount) * treasureCoinFactor))
		}
		s.Coins += amount
	case PickupHealth:
		s.heal(float64(amount))
	}
}

// GainXP scales amount by the run's XP multiplier. Every threshold crossed
// queues one upgrade choice.
func (s *State) GainXP(amount int) {
	if s.Over || amount <= 0 {
		return
	}
	s.XP += int(math.Floor(float64(amount) * s.xpMult))
	for s.XP >= s.XPToLevel {
		s.XP -= s.XPToLevel
		s.Level++
		s.XPToLevel = nextThreshold(s.XPToLevel, s.xpGrowth)
		s.pending++
	}
	if s.pending > 0 && s.offer == nil {
		s.offer = OfferChoices(s.cat, s.Upgrades, ChoiceCount, s.src)
	}
}

// PlayerDamaged applies damage and reports whether the run ended.
func (s *State) PlayerDamaged(amount float64) bool {
	if s.Over || amount <= 0 {
		return s.Over
	}
	if s.Has("warmthAura") {
		amount *= warmthAuraDamage
	}
	s.HP = math.Max(0, s.HP-amount)
	if s.HP == 0 {
		s.Over = true
	}
	return s.Over
}

// Tick advances the run clock. Regeneration heals 1 HP per interval
// boundary crossed.
func (s *State) Tick(dt float64) {
	if s.Over || dt <= 0 {
		return
	}
	before := s.Elapsed
	s.Elapsed += dt
	if s.Has("regeneration") {
		crossed := math.Floor(s.Elapsed/regenInterval) - math.Floor(before/regenInterval)
		s.heal(crossed)
	}
}

func (s *State) heal(v float64) {
	s.HP = math.Min(s.MaxHP, s.HP+v)
}

// Pending is the number of level-up choices still owed.
func (s *State) Pending() int { return s.pending }

// Offer is the current choice screen, nil when nothing is pending.
func (s *State) Offer() []catalog.InRunUpgrade {
	return append([]catalog.InRunUpgrade(nil), s.offer...)
}

// Choose picks an offered upgrade. The next queued screen is drawn against
// the updated pick list.
func (s *State) Choose(id string) bool {
	if s.pending == 0 {
		return false
	}
	found := false
	for _, u := range s.offer {
		if u.ID == id {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	s.Upgrades = append(s.Upgrades, id)
	s.pending--
	s.offer = nil
	if s.pending > 0 {
		s.offer = OfferChoices(s.cat, s.Upgrades, ChoiceCount, s.src)
	}
	return true
}

// End stops the run, e.g. when the player quits or the level is won.
func (s *State) End() { s.Over = true }

// Result summarises the run for the profile and leaderboard.
type Result struct {
	Score          int `json:"score"`
	Coins          int `json:"coins"`
	Seconds        int `json:"seconds"`
	ChildrenHelped int `json:"childrenHelped"`
	Level          int `json:"level"`
}

func (s *State) Result() Result {
	return Result{
		Score:          s.Score,
		Coins:          s.Coins,
		Seconds:        int(s.Elapsed),
		ChildrenHelped: s.ChildrenHelped,
		Level:          s.Level,
	}
}
