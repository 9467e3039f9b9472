package player

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const defaultPlayerID = "default"

// Repository is the persistence collaborator of a Store. Load returns the
// defaults when nothing was saved yet.
type Repository interface {
	Load() (Profile, error)
	Save(p Profile) error
}

type fileState struct {
	Players map[string]Profile `json:"players"`
}

type store struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

// FileRepo keeps every player's profile in one profiles.json document.
type FileRepo struct {
	store    *store
	playerID string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &store{
		path: filepath.Join(dataDir, "profiles.json"),
		s:    fileState{Players: map[string]Profile{}},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return &FileRepo{store: st, playerID: defaultPlayerID}, nil
}

func (s *store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.s = fileState{Players: map[string]Profile{}}
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Players == nil {
		loaded.Players = map[string]Profile{}
	}
	for id, p := range loaded.Players {
		loaded.Players[id] = normalizeProfile(p)
	}
	s.s = loaded
	return nil
}

// saveLocked replaces the document via a temp file and rename.
func (s *store) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// ForUser returns a repo bound to playerID sharing the same document.
func (r *FileRepo) ForUser(playerID string) *FileRepo {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		playerID = defaultPlayerID
	}
	return &FileRepo{store: r.store, playerID: playerID}
}

func (r *FileRepo) PlayerID() string { return r.playerID }

func (r *FileRepo) Load() (Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.s.Players[r.playerID]
	if !ok {
		return defaultProfile(), nil
	}
	return cloneProfile(p), nil
}

func (r *FileRepo) Save(p Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.s.Players[r.playerID] = cloneProfile(p)
	return r.store.saveLocked()
}

// PlayerIDs lists every stored player.
func (r *FileRepo) PlayerIDs() []string {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ids := make([]string, 0, len(r.store.s.Players))
	for id := range r.store.s.Players {
		ids = append(ids, id)
	}
	return ids
}

// MemoryRepo holds a single profile in memory.
type MemoryRepo struct {
	mu    sync.Mutex
	p     *Profile
	saves int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// NewMemoryRepoWith seeds the repo with a stored, possibly partial, profile.
func NewMemoryRepoWith(p Profile) *MemoryRepo {
	cp := cloneProfile(p)
	return &MemoryRepo{p: &cp}
}

func (r *MemoryRepo) Load() (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.p == nil {
		return defaultProfile(), nil
	}
	return cloneProfile(*r.p), nil
}

func (r *MemoryRepo) Save(p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := cloneProfile(p)
	r.p = &cp
	r.saves++
	return nil
}

// Saves counts successful saves.
func (r *MemoryRepo) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
