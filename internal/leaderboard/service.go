package leaderboard

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/haythammda/Gift-Storm/internal/clock"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

// TopicScore is the live feed topic for newly accepted scores.
const TopicScore = "score"

// Publisher fans accepted scores out to live subscribers.
type Publisher interface {
	Publish(topic string, payload any)
}

type Options struct {
	Repo      Repository
	Clock     clock.Clock
	Logger    *log.Logger
	Telemetry telemetry.Recorder
	Live      Publisher
}

type Service struct {
	repo   Repository
	clock  clock.Clock
	logger *log.Logger
	events telemetry.Recorder
	live   Publisher
}

func NewService(opts Options) *Service {
	if opts.Repo == nil {
		opts.Repo = NewMemoryRepo()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Service{
		repo:   opts.Repo,
		clock:  clock.Or(opts.Clock),
		logger: opts.Logger,
		events: opts.Telemetry,
		live:   opts.Live,
	}
}

// Submit validates and stores a run result.
func (s *Service) Submit(sub Submission) (Score, error) {
	clean, err := sub.Validate()
	if err != nil {
		return Score{}, err
	}
	sc := Score{
		ID:             uuid.NewString(),
		PlayerName:     clean.PlayerName,
		Score:          clean.Score,
		TimeSurvived:   clean.TimeSurvived,
		ChildrenHelped: clean.ChildrenHelped,
		CoinsEarned:    clean.CoinsEarned,
		CreatedAt:      s.clock.Now().Format(time.RFC3339),
	}
	if err := s.repo.Add(sc); err != nil {
		return Score{}, fmt.Errorf("store score: %w", err)
	}
	s.logger.Printf("[leaderboard] %s scored %d", sc.PlayerName, sc.Score)
	telemetry.Record(s.events, telemetry.EventScoreSubmitted, telemetry.EventMetadata{
		"score":          sc.Score,
		"timeSurvived":   sc.TimeSurvived,
		"childrenHelped": sc.ChildrenHelped,
	})
	if s.live != nil {
		s.live.Publish(TopicScore, sc)
	}
	return sc, nil
}

// Top returns the best scores, highest first. Ties keep submission order.
func (s *Service) Top(limit int) ([]Score, error) {
	all, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	if n := ClampLimit(limit); len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *Service) Reset() error {
	if err := s.repo.Clear(); err != nil {
		return fmt.Errorf("reset leaderboard: %w", err)
	}
	s.logger.Printf("[leaderboard] reset")
	telemetry.Record(s.events, telemetry.EventLeaderboardReset, nil)
	return nil
}
