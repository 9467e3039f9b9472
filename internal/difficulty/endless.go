// Package difficulty maps elapsed time to spawn pressure, enemy variants and
// boss timing for endless mode, and drives the campaign phase timeline.
package difficulty

import "math"

const (
	minSpawnScaling = 0.3
	maxSpeed        = 1.5
	maxSpawnCount   = 6

	FirstBossAt = 60.0
	BossEvery   = 45.0
)

// DifficultyMultiplier grows linearly, doubling base every 30 seconds.
func DifficultyMultiplier(elapsed, base float64) float64 {
	return base * (1 + elapsed/30)
}

// SpawnIntervalScaling shrinks the spawn interval to 30% over three minutes.
func SpawnIntervalScaling(elapsed float64) float64 {
	return math.Max(minSpawnScaling, 1-elapsed/180)
}

// SpeedMultiplier steps up 5% every 30 seconds, capped at 1.5.
func SpeedMultiplier(elapsed float64) float64 {
	return math.Min(maxSpeed, 1+math.Floor(elapsed/30)*0.05)
}

// DangerLevel is the displayed pressure metric.
func DangerLevel(elapsed, base float64) float64 {
	return (1 / SpawnIntervalScaling(elapsed)) * DifficultyMultiplier(elapsed, base) * SpeedMultiplier(elapsed)
}

// SpawnCount is the enemy batch size per spawn tick.
func SpawnCount(elapsed float64) int {
	return min(maxSpawnCount, 1+int(math.Floor(elapsed/20)))
}

// BossHP adds two hits per full minute survived.
func BossHP(baseHP int, elapsed float64) int {
	return baseHP + int(math.Floor(elapsed/60))*2
}

func BossCoinReward(elapsed float64) int {
	return 5 + int(math.Floor(elapsed/60))
}

// BossAt is when the n-th endless boss (0-based) becomes due.
func BossAt(n int) float64 {
	return FirstBossAt + float64(n)*BossEvery
}

// Snapshot is the per-tick answer for endless mode.
type Snapshot struct {
	Elapsed      float64 `json:"elapsed"`
	Difficulty   float64 `json:"difficulty"`
	SpawnScaling float64 `json:"spawnScaling"`
	Speed        float64 `json:"speed"`
	Danger       float64 `json:"danger"`
	SpawnCount   int     `json:"spawnCount"`
}

func At(elapsed, base float64) Snapshot {
	return Snapshot{
		Elapsed:      elapsed,
		Difficulty:   DifficultyMultiplier(elapsed, base),
		SpawnScaling: SpawnIntervalScaling(elapsed),
		Speed:        SpeedMultiplier(elapsed),
		Danger:       DangerLevel(elapsed, base),
		SpawnCount:   SpawnCount(elapsed),
	}
}
