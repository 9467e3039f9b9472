package config

import "strings"

// Balance holds gameplay balance configuration
type Balance struct {
	// Preset names the base values that unset fields fall back to.
	Preset string `yaml:"preset" json:"preset"`

	// Endless mode
	BaseDifficulty float64 `yaml:"base_difficulty" json:"base_difficulty"`

	// Run start
	BonusHP         int `yaml:"bonus_hp" json:"bonus_hp"`
	SeasonPassCoins int `yaml:"season_pass_coins" json:"season_pass_coins"`

	// XP curve
	FirstLevelXP int     `yaml:"first_level_xp" json:"first_level_xp"`
	XPGrowth     float64 `yaml:"xp_growth" json:"xp_growth"`
}

const (
	PresetDefault = "default"
	PresetCasual  = "casual"
	PresetHard    = "hard"
)

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		Preset:          PresetDefault,
		BaseDifficulty:  1,
		BonusHP:         0,
		SeasonPassCoins: 100,
		FirstLevelXP:    100,
		XPGrowth:        1.2,
	}
}

// Casual returns easier balance for casual difficulty
func Casual() Balance {
	cfg := Default()
	cfg.Preset = PresetCasual
	cfg.BaseDifficulty = 0.8
	cfg.BonusHP = 25
	cfg.XPGrowth = 1.15
	return cfg
}

// Hard returns harder balance for experienced players
func Hard() Balance {
	cfg := Default()
	cfg.Preset = PresetHard
	cfg.BaseDifficulty = 1.3
	cfg.FirstLevelXP = 120
	cfg.XPGrowth = 1.25
	cfg.SeasonPassCoins = 50
	return cfg
}

// Preset looks a balance preset up by name.
func Preset(name string) (Balance, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetDefault:
		return Default(), true
	case PresetCasual:
		return Casual(), true
	case PresetHard:
		return Hard(), true
	}
	return Balance{}, false
}

// ApplyDefaults fills unset fields from the named preset. An unknown preset
// falls back to Default.
func (b *Balance) ApplyDefaults() {
	base, ok := Preset(b.Preset)
	if !ok {
		base = Default()
	}
	b.Preset = base.Preset
	if b.BaseDifficulty <= 0 {
		b.BaseDifficulty = base.BaseDifficulty
	}
	if b.BonusHP <= 0 {
		b.BonusHP = base.BonusHP
	}
	if b.SeasonPassCoins <= 0 {
		b.SeasonPassCoins = base.SeasonPassCoins
	}
	if b.FirstLevelXP <= 0 {
		b.FirstLevelXP = base.FirstLevelXP
	}
	if b.XPGrowth <= 1 {
		b.XPGrowth = base.XPGrowth
	}
}
