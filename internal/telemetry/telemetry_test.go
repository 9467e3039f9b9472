package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haythammda/Gift-Storm/internal/clock"
)

func TestMemoryRepositoryFiltersAndCaps(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	repo := NewMemoryRepository(clk, 3)

	require.NoError(t, repo.RecordEvent(EventChestAwarded, EventMetadata{"tier": "wooden"}))
	clk.Advance(time.Hour)
	require.NoError(t, repo.RecordEvent(EventChestOpened, EventMetadata{"coins": 20}))
	require.NoError(t, repo.RecordEvent(EventRunFinished, EventMetadata{"seconds": 90, "coins": 40}))
	require.NoError(t, repo.RecordEvent(EventRunFinished, EventMetadata{"seconds": 30, "coins": 10}))

	all, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, all, 3, "oldest event dropped")
	assert.Equal(t, EventChestOpened, all[0].Type)
	assert.Equal(t, 4, all[2].ID)

	runs, err := repo.GetEvents(start.Add(time.Minute), []EventType{EventRunFinished})
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	require.NoError(t, repo.Clear())
	all, _ = repo.GetEvents(time.Time{}, nil)
	assert.Empty(t, all)
}

func TestCalculateStats(t *testing.T) {
	repo := NewMemoryRepository(nil, 0)
	Record(repo, EventWorkshopPurchased, EventMetadata{"id": "maxHp", "cost": 100})
	Record(repo, EventSkillPurchased, EventMetadata{"id": "damage_1", "cost": 50})
	Record(repo, EventChestAwarded, EventMetadata{"tier": "golden"})
	Record(repo, EventChestOpened, EventMetadata{"coins": 45, "new_equipment": "wool_jacket"})
	Record(repo, EventLevelCompleted, EventMetadata{"level": 1, "stars": 3})
	Record(repo, EventLevelCompleted, EventMetadata{"level": 2, "stars": 2})
	Record(repo, EventRunFinished, EventMetadata{"seconds": 120, "coins": 30})
	Record(nil, EventRunFinished, EventMetadata{"seconds": 999})

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	stats, err := CalculateStats(events, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 100, stats.CoinsSpent[string(EventWorkshopPurchased)])
	assert.Equal(t, 50, stats.CoinsSpent[string(EventSkillPurchased)])
	assert.Equal(t, 1, stats.ChestsByTier["golden"])
	assert.Equal(t, 1, stats.EquipmentGranted)
	assert.Equal(t, 75, stats.CoinsEarned)
	assert.InDelta(t, 2.5, stats.AvgStars, 1e-9)
	assert.Equal(t, 1, stats.Runs)
	assert.InDelta(t, 120, stats.AvgRunSeconds, 1e-9)
}
