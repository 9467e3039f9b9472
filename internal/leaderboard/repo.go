package leaderboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Repository stores submitted scores.
type Repository interface {
	Add(s Score) error
	List() ([]Score, error)
	Clear() error
}

type MemoryRepo struct {
	mu     sync.RWMutex
	scores []Score
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Add(s Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, s)
	return nil
}

func (r *MemoryRepo) List() ([]Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Score{}, r.scores...), nil
}

func (r *MemoryRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = nil
	return nil
}

type fileState struct {
	Scores []Score `json:"scores"`
}

// FileRepo persists scores to leaderboard.json in the data dir.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{path: filepath.Join(dataDir, "leaderboard.json")}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.s = fileState{}
			return nil
		}
		return err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *FileRepo) Add(s Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Scores = append(r.s.Scores, s)
	return r.saveLocked()
}

func (r *FileRepo) List() ([]Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Score{}, r.s.Scores...), nil
}

func (r *FileRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Scores = nil
	return r.saveLocked()
}
