package catalog

import (
	"fmt"
	"math"
)

const (
	LevelCount    = 100
	levelsPerMap  = 10
	easyTierMax   = 20
	mediumTierMax = 50
	hardTierMax   = 75
)

// GenerateLevels builds the campaign from closed-form formulas. Boss ids
// are chosen by index modulo pool size so the table is the same on every
// start.
func GenerateLevels(themes []MapTheme, names [][]string, pools BossPools) []GameLevel {
	levels := make([]GameLevel, 0, LevelCount)
	for i := 1; i <= LevelCount; i++ {
		world := (i - 1) / levelsPerMap
		slot := (i - 1) % levelsPerMap

		mini1, mini2, final := pools.forLevel(i)

		name := fmt.Sprintf("Level %d", i)
		if world < len(names) && slot < len(names[world]) {
			name = names[world][slot]
		}
		mapID := ""
		if len(themes) > 0 {
			mapID = themes[world%len(themes)].ID
		}

		fi := float64(i - 1)
		levels = append(levels, GameLevel{
			ID:                    i,
			Name:                  name,
			MapID:                 mapID,
			Difficulty:            round2(1 + fi*0.05),
			EnemyHealthMultiplier: round2(1 + fi*0.03),
			EnemySpeedMultiplier:  round2(math.Min(2.0, 1+fi*0.01)),
			SpawnRateMultiplier:   round2(1 + fi*0.02),
			MiniBoss1:             pickMod(mini1, i),
			MiniBoss2:             pickMod(mini2, i+1),
			FinalBoss:             pickMod(final, i),
			Rewards: LevelRewards{
				Coins: 10 + int(math.Floor(float64(i)*1.5)),
				XP:    0,
			},
		})
	}
	return levels
}

func (p BossPools) forLevel(i int) (mini1, mini2, final []string) {
	switch {
	case i <= easyTierMax:
		return p.MiniEasy, p.MiniEasy, p.FinalEasy
	case i <= mediumTierMax:
		return p.MiniEasy, p.MiniMedium, p.FinalMedium
	case i <= hardTierMax:
		return p.MiniMedium, p.MiniHard, p.FinalHard
	default:
		return p.MiniHard, p.MiniHard, p.FinalHard
	}
}

func pickMod(pool []string, i int) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[i%len(pool)]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
