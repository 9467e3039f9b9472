// Package donation tracks the charity total against its goal and the
// milestones the community has unlocked.
package donation

import (
	"errors"
	"strings"

	"github.com/haythammda/Gift-Storm/internal/catalog"
)

const (
	DefaultGoal = 1000.0
	DefaultURL  = "https://example.com/donate"

	MaxSimulatedAmount = 10000.0
)

var (
	ErrSimulationDisabled = errors.New("dev simulation is not enabled")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// State is the persisted donation record.
type State struct {
	Total         float64 `json:"donationTotalJOD"`
	Goal          float64 `json:"donationGoalJOD"`
	URL           string  `json:"donationUrl"`
	DevSimulation bool    `json:"devSimulationEnabled"`
}

func DefaultState() State {
	return State{Goal: DefaultGoal, URL: DefaultURL}
}

func normalizeState(s State) State {
	if s.Total < 0 {
		s.Total = 0
	}
	if s.Goal < 1 {
		s.Goal = DefaultGoal
	}
	if strings.TrimSpace(s.URL) == "" {
		s.URL = DefaultURL
	}
	return s
}

type MilestoneStatus struct {
	catalog.Milestone
	Unlocked bool `json:"unlocked"`
}

// Status is what the landing page and the live feed show.
type Status struct {
	Total         float64           `json:"donationTotalJOD"`
	Goal          float64           `json:"donationGoalJOD"`
	URL           string            `json:"donationUrl"`
	DevSimulation bool              `json:"devSimulationEnabled"`
	Milestones    []MilestoneStatus `json:"milestones"`
	GlobalUnlocks []string          `json:"globalUnlocks"`
}

// Progress is the share of the goal reached, capped at 1.
func (s Status) Progress() float64 {
	if s.Goal <= 0 {
		return 0
	}
	return min(1, s.Total/s.Goal)
}

func buildStatus(s State, milestones []catalog.Milestone) Status {
	out := Status{
		Total:         s.Total,
		Goal:          s.Goal,
		URL:           s.URL,
		DevSimulation: s.DevSimulation,
		Milestones:    make([]MilestoneStatus, 0, len(milestones)),
		GlobalUnlocks: []string{},
	}
	for _, m := range milestones {
		unlocked := s.Total >= m.Threshold
		out.Milestones = append(out.Milestones, MilestoneStatus{Milestone: m, Unlocked: unlocked})
		if unlocked {
			out.GlobalUnlocks = append(out.GlobalUnlocks, m.Name)
		}
	}
	return out
}

// UpdateInput is an admin patch; nil fields are left alone.
type UpdateInput struct {
	Total         *float64 `json:"donationTotalJOD,omitempty"`
	Goal          *float64 `json:"donationGoalJOD,omitempty"`
	URL           *string  `json:"donationUrl,omitempty"`
	DevSimulation *bool    `json:"devSimulationEnabled,omitempty"`
}

func (in UpdateInput) apply(s State) State {
	if in.Total != nil {
		s.Total = max(0, *in.Total)
	}
	if in.Goal != nil {
		s.Goal = max(1, *in.Goal)
	}
	if in.URL != nil {
		s.URL = *in.URL
	}
	if in.DevSimulation != nil {
		s.DevSimulation = *in.DevSimulation
	}
	return s
}
