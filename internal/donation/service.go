package donation

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

// TopicStatus is the live feed topic for donation changes.
const TopicStatus = "donation"

type Publisher interface {
	Publish(topic string, payload any)
}

type Options struct {
	Repo       Repository
	Milestones []catalog.Milestone

	// Defaults seed the state when the repository is empty.
	Defaults  State
	Logger    *log.Logger
	Telemetry telemetry.Recorder
	Live      Publisher
}

type Service struct {
	mu         sync.RWMutex
	repo       Repository
	milestones []catalog.Milestone
	s          State
	logger     *log.Logger
	events     telemetry.Recorder
	live       Publisher
}

func NewService(opts Options) (*Service, error) {
	if opts.Repo == nil {
		opts.Repo = NewMemoryRepo()
	}
	if opts.Milestones == nil {
		opts.Milestones = catalog.Default().Milestones
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	st, found, err := opts.Repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load donation state: %w", err)
	}
	if !found {
		st = opts.Defaults
	}
	return &Service{
		repo:       opts.Repo,
		milestones: opts.Milestones,
		s:          normalizeState(st),
		logger:     opts.Logger,
		events:     opts.Telemetry,
		live:       opts.Live,
	}, nil
}

func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return buildStatus(s.s, s.milestones)
}

func (s *Service) Update(in UpdateInput) Status {
	s.mu.Lock()
	s.s = in.apply(s.s)
	st := s.commitLocked("update")
	s.mu.Unlock()

	telemetry.Record(s.events, telemetry.EventDonationUpdated, telemetry.EventMetadata{
		"total": st.Total,
		"goal":  st.Goal,
	})
	s.publish(st)
	return st
}

// Simulate adds a fake donation for demos. It needs the dev flag.
func (s *Service) Simulate(amount float64) (Status, error) {
	if math.IsNaN(amount) || amount <= 0 || amount > MaxSimulatedAmount {
		return Status{}, ErrInvalidAmount
	}
	s.mu.Lock()
	if !s.s.DevSimulation {
		s.mu.Unlock()
		return Status{}, ErrSimulationDisabled
	}
	s.s.Total += amount
	st := s.commitLocked("simulate")
	s.mu.Unlock()

	telemetry.Record(s.events, telemetry.EventDonationSimulated, telemetry.EventMetadata{
		"amount": amount,
		"total":  st.Total,
	})
	s.publish(st)
	return st, nil
}

func (s *Service) commitLocked(op string) Status {
	if err := s.repo.Save(s.s); err != nil {
		s.logger.Printf("[donation] save after %s failed: %v", op, err)
	}
	return buildStatus(s.s, s.milestones)
}

func (s *Service) publish(st Status) {
	if s.live != nil {
		s.live.Publish(TopicStatus, st)
	}
}
