package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period            string            `json:"period"`
	EventCounts       map[EventType]int `json:"event_counts"`
	CoinsSpent        map[string]int    `json:"coins_spent"`
	CoinsEarned       int               `json:"coins_earned"`
	ChestsByTier      map[string]int    `json:"chests_by_tier"`
	ChestsOpened      int               `json:"chests_opened"`
	EquipmentGranted  int               `json:"equipment_granted"`
	LevelsCompleted   int               `json:"levels_completed"`
	AvgStars          float64           `json:"avg_stars"`
	Runs              int               `json:"runs"`
	AvgRunSeconds     float64           `json:"avg_run_seconds"`
	ScoresSubmitted   int               `json:"scores_submitted"`
	DonationsSimTotal float64           `json:"donations_simulated_total"`
}

// CalculateStats aggregates economy balance figures from events.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:       since.Format("2006-01-02"),
		EventCounts:  make(map[EventType]int),
		CoinsSpent:   make(map[string]int),
		ChestsByTier: make(map[string]int),
	}

	var stars, runSeconds float64
	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventWorkshopPurchased, EventSkillPurchased, EventEquipmentPurchased:
			stats.CoinsSpent[string(event.Type)] += intOf(metadata["cost"])
		case EventCoinsAdded:
			stats.CoinsEarned += intOf(metadata["amount"])
		case EventChestAwarded:
			if tier, ok := metadata["tier"].(string); ok {
				stats.ChestsByTier[tier]++
			}
		case EventChestOpened:
			stats.ChestsOpened++
			stats.CoinsEarned += intOf(metadata["coins"])
			if id, ok := metadata["new_equipment"].(string); ok && id != "" {
				stats.EquipmentGranted++
			}
		case EventLevelCompleted:
			stats.LevelsCompleted++
			stars += float64(intOf(metadata["stars"]))
		case EventRunFinished:
			stats.Runs++
			runSeconds += float64(intOf(metadata["seconds"]))
			stats.CoinsEarned += intOf(metadata["coins"])
		case EventScoreSubmitted:
			stats.ScoresSubmitted++
		case EventDonationSimulated:
			if v, ok := metadata["amount"].(float64); ok {
				stats.DonationsSimTotal += v
			}
		}
	}

	if stats.LevelsCompleted > 0 {
		stats.AvgStars = stars / float64(stats.LevelsCompleted)
	}
	if stats.Runs > 0 {
		stats.AvgRunSeconds = runSeconds / float64(stats.Runs)
	}
	return stats, nil
}

// intOf reads a JSON number decoded into an interface.
func intOf(v any) int {
	f, _ := v.(float64)
	return int(f)
}
