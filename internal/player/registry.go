package player

import (
	"strings"
	"sync"
)

// RepoSource binds a repository to one player id.
type RepoSource func(playerID string) Repository

// FileSource binds players to their entries in a shared FileRepo document.
func FileSource(repo *FileRepo) RepoSource {
	return func(playerID string) Repository { return repo.ForUser(playerID) }
}

// MemorySource gives each player a fresh in-memory repo.
func MemorySource() RepoSource {
	return func(string) Repository { return NewMemoryRepo() }
}

// Registry hands out one Store per player, created on first use.
type Registry struct {
	mu     sync.Mutex
	source RepoSource
	opts   Options
	stores map[string]*Store
}

// NewRegistry builds stores with opts; opts.Repo is ignored.
func NewRegistry(source RepoSource, opts Options) *Registry {
	return &Registry{source: source, opts: opts, stores: map[string]*Store{}}
}

func (r *Registry) Store(playerID string) (*Store, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		playerID = defaultPlayerID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.stores[playerID]; ok {
		return st, nil
	}
	opts := r.opts
	opts.Repo = r.source(playerID)
	st, err := NewStore(opts)
	if err != nil {
		return nil, err
	}
	r.stores[playerID] = st
	return st, nil
}

// Len is the number of players loaded since startup.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
