package player

import (
	"github.com/google/uuid"

	"github.com/haythammda/Gift-Storm/internal/economy"
	"github.com/haythammda/Gift-Storm/internal/loot"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

const maxStars = 3

// AwardChest rolls a chest tier for level and queues it for opening.
func (s *Store) AwardChest(level int) (PendingChest, bool) {
	var pc PendingChest
	ok := s.mutate("award_chest", func(p *Profile) bool {
		var ok bool
		pc, ok = s.awardChestLocked(p, level)
		return ok
	})
	return pc, ok
}

func (s *Store) awardChestLocked(p *Profile, level int) (PendingChest, bool) {
	chest, ok := s.cat.Chest(loot.RollChestTier(level, s.src))
	if !ok {
		return PendingChest{}, false
	}
	pc := PendingChest{ID: uuid.NewString(), Chest: chest, LevelEarned: level}
	p.PendingChests = append(p.PendingChests, pc)
	s.record(telemetry.EventChestAwarded, telemetry.EventMetadata{"tier": string(chest.Rarity), "level": level})
	return pc, true
}

// OpenChest opens the pending chest with the given instance id, credits its
// coins and cards, grants any bonus equipment and removes exactly that chest.
func (s *Store) OpenChest(instanceID string) (loot.Reward, bool) {
	var reward loot.Reward
	ok := s.mutate("open_chest", func(p *Profile) bool {
		idx := -1
		for i, pc := range p.PendingChests {
			if pc.ID == instanceID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false
		}
		owned := func(id string) bool { return contains(p.OwnedEquipmentIDs, id) }
		reward = loot.Open(s.cat, p.PendingChests[idx].Chest, owned, s.src)

		p.Coins += reward.Coins
		loot.Cards(p.EquipmentCardCounts).Add(reward.Cards)
		if reward.NewEquipment != "" {
			p.OwnedEquipmentIDs = appendUnique(p.OwnedEquipmentIDs, reward.NewEquipment)
		}
		p.PendingChests = append(p.PendingChests[:idx:idx], p.PendingChests[idx+1:]...)
		return true
	})
	if ok {
		s.record(telemetry.EventChestOpened, telemetry.EventMetadata{
			"coins":         reward.Coins,
			"cards":         reward.CardTotal(),
			"new_equipment": reward.NewEquipment,
		})
	}
	return reward, ok
}

func (s *Store) PendingChests() []PendingChest {
	var out []PendingChest
	s.read(func(p *Profile) { out = append([]PendingChest{}, p.PendingChests...) })
	return out
}

// ClearPendingChests discards every unopened chest and reports how many.
func (s *Store) ClearPendingChests() int {
	n := 0
	s.mutate("clear_chests", func(p *Profile) bool {
		n = len(p.PendingChests)
		if n == 0 {
			return false
		}
		p.PendingChests = []PendingChest{}
		return true
	})
	return n
}

func (s *Store) IsLevelUnlocked(level int) bool {
	var ok bool
	s.read(func(p *Profile) { ok = level >= 1 && level <= p.HighestLevelUnlocked })
	return ok
}

func (s *Store) LevelProgress(level int) (LevelProgress, bool) {
	var lp LevelProgress
	var ok bool
	s.read(func(p *Profile) { lp, ok = p.LevelProgress[level] })
	return lp, ok
}

func (s *Store) HighestLevelUnlocked() int {
	var n int
	s.read(func(p *Profile) { n = p.HighestLevelUnlocked })
	return n
}

// CompleteLevel records a clear of an unlocked level: best stars and time
// are kept, attempts increase and the frontier advances when this was the
// frontier level.
func (s *Store) CompleteLevel(level, stars, bestTime int) bool {
	if level < 1 || level > MaxLevel {
		return false
	}
	return s.mutate("complete_level", func(p *Profile) bool {
		if level > p.HighestLevelUnlocked {
			return false
		}
		completeLevelLocked(p, level, stars, bestTime)
		return true
	})
}

func completeLevelLocked(p *Profile, level, stars, bestTime int) {
	stars = min(max(stars, 0), maxStars)
	lp := p.LevelProgress[level]
	lp.Completed = true
	lp.Stars = max(lp.Stars, stars)
	lp.BestTime = max(lp.BestTime, bestTime)
	lp.Attempts++
	p.LevelProgress[level] = lp
	if level >= p.HighestLevelUnlocked && level < MaxLevel {
		p.HighestLevelUnlocked = level + 1
	}
}

// RecordLevelAttempt counts a failed or abandoned attempt at an unlocked
// level. Clears count their own attempt.
func (s *Store) RecordLevelAttempt(level int) bool {
	if level < 1 || level > MaxLevel {
		return false
	}
	return s.mutate("record_attempt", func(p *Profile) bool {
		if level > p.HighestLevelUnlocked {
			return false
		}
		lp := p.LevelProgress[level]
		lp.Attempts++
		p.LevelProgress[level] = lp
		return true
	})
}

// LevelClear is what a finished campaign level reports.
type LevelClear struct {
	Level      int `json:"level"`
	Stars      int `json:"stars"`
	TimeMetric int `json:"timeMetric"`
}

type LevelCompletion struct {
	CoinsAwarded int          `json:"coinsAwarded"`
	Stars        int          `json:"stars"`
	Chest        PendingChest `json:"chest"`
	Frontier     int          `json:"highestLevelUnlocked"`
}

// FinishCampaignLevel credits the level reward, records the clear and
// awards the level's chest as one commit.
func (s *Store) FinishCampaignLevel(c LevelClear) (LevelCompletion, bool) {
	lvl, ok := s.cat.Level(c.Level)
	if !ok {
		return LevelCompletion{}, false
	}
	var out LevelCompletion
	ok = s.mutate("finish_level", func(p *Profile) bool {
		if c.Level > p.HighestLevelUnlocked {
			return false
		}
		chest, ok := s.awardChestLocked(p, c.Level)
		if !ok {
			return false
		}
		p.Coins += lvl.Rewards.Coins
		completeLevelLocked(p, c.Level, c.Stars, c.TimeMetric)
		out = LevelCompletion{
			CoinsAwarded: lvl.Rewards.Coins,
			Stars:        p.LevelProgress[c.Level].Stars,
			Chest:        chest,
			Frontier:     p.HighestLevelUnlocked,
		}
		return true
	})
	if ok {
		s.record(telemetry.EventLevelCompleted, telemetry.EventMetadata{"level": c.Level, "stars": min(max(c.Stars, 0), maxStars)})
	}
	return out, ok
}

// RunSummary is the flushable part of a finished endless run.
type RunSummary struct {
	Coins          int `json:"coins"`
	Seconds        int `json:"seconds"`
	ChildrenHelped int `json:"childrenHelped"`
}

type RunOutcome struct {
	CoinsAwarded int  `json:"coinsAwarded"`
	NewBest      bool `json:"newBest"`
}

// FinishRun applies the coin multiplier upgrade and folds the run into the
// lifetime totals.
func (s *Store) FinishRun(r RunSummary) RunOutcome {
	var out RunOutcome
	s.mutate("finish_run", func(p *Profile) bool {
		out.CoinsAwarded = economy.RunEndCoins(max(r.Coins, 0), p.WorkshopUpgradeLevels["coinMultiplier"])
		p.Coins += out.CoinsAwarded
		if r.Seconds > p.BestSurvivalTime {
			p.BestSurvivalTime = r.Seconds
			out.NewBest = true
		}
		p.TotalChildrenHelped += max(r.ChildrenHelped, 0)
		return true
	})
	s.record(telemetry.EventRunFinished, telemetry.EventMetadata{"seconds": r.Seconds, "coins": out.CoinsAwarded})
	return out
}
