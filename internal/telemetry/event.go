package telemetry

import "time"

type EventType string

const (
	EventCoinsAdded         EventType = "coins_added"
	EventWorkshopPurchased  EventType = "workshop_purchased"
	EventSkillPurchased     EventType = "skill_purchased"
	EventEquipmentPurchased EventType = "equipment_purchased"
	EventEquipmentUpgraded  EventType = "equipment_upgraded"
	EventChestAwarded       EventType = "chest_awarded"
	EventChestOpened        EventType = "chest_opened"
	EventLevelCompleted     EventType = "level_completed"
	EventRunFinished        EventType = "run_finished"
	EventPurchaseApplied    EventType = "purchase_applied"
	EventScoreSubmitted     EventType = "score_submitted"
	EventLeaderboardReset   EventType = "leaderboard_reset"
	EventDonationUpdated    EventType = "donation_updated"
	EventDonationSimulated  EventType = "donation_simulated"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Recorder is the write side handed to the stores. A nil Recorder is valid
// and drops events.
type Recorder interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}
