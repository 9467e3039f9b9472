package telemetry

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/haythammda/Gift-Storm/internal/clock"
)

// DefaultCapacity bounds the in-memory event log; the oldest events are
// dropped first.
const DefaultCapacity = 10000

// Repository stores telemetry events
type Repository interface {
	Recorder
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository stores events in memory
type MemoryRepository struct {
	mu       sync.RWMutex
	clock    clock.Clock
	capacity int
	events   []Event
	nextID   int
}

func NewMemoryRepository(c clock.Clock, capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryRepository{
		clock:    clock.Or(c),
		capacity: capacity,
		events:   make([]Event, 0),
		nextID:   1,
	}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.clock.Now(),
		Metadata:  string(metadataJSON),
	})
	r.nextID++
	if over := len(r.events) - r.capacity; over > 0 {
		r.events = append(r.events[:0:0], r.events[over:]...)
	}
	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for _, event := range r.events {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}
	return result, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.nextID = 1
	return nil
}

// Record is a nil-safe helper for optional recorders. Errors are dropped;
// telemetry never fails a game operation.
func Record(r Recorder, eventType EventType, metadata EventMetadata) {
	if r == nil {
		return
	}
	_ = r.RecordEvent(eventType, metadata)
}
