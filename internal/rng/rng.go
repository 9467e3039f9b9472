package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the random stream every economy roll is drawn from.
type Source interface {
	// Intn returns a value in [0, n). n must be > 0.
	Intn(n int) int
	// Float64 returns a value in [0, 1).
	Float64() float64
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a goroutine-safe source seeded with seed.
func New(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded returns a source seeded from the wall clock.
func NewTimeSeeded() Source {
	return New(time.Now().UnixNano())
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Chance reports whether a roll in [0,100) lands under pct.
func Chance(src Source, pct float64) bool {
	return src.Float64()*100 < pct
}

// Between returns a uniform integer in [lo, hi].
func Between(src Source, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Pick returns a uniform index into a slice of length n, or -1 when n is 0.
func Pick(src Source, n int) int {
	if n <= 0 {
		return -1
	}
	return src.Intn(n)
}

// Shuffle permutes ids in place (Fisher-Yates).
func Shuffle[T any](src Source, ids []T) {
	for i := len(ids) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
