package donation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Repository loads and saves the donation state. Load reports found=false
// when nothing was saved yet.
type Repository interface {
	Load() (s State, found bool, err error)
	Save(s State) error
}

type MemoryRepo struct {
	mu    sync.Mutex
	s     State
	saved bool
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Load() (State, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s, r.saved, nil
}

func (r *MemoryRepo) Save(s State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s, r.saved = s, true
	return nil
}

// FileRepo keeps the state in donation.json.
type FileRepo struct {
	mu   sync.Mutex
	path string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileRepo{path: filepath.Join(dataDir, "donation.json")}, nil
}

func (r *FileRepo) Load() (State, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, false, nil
		}
		return State{}, false, err
	}
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return State{}, false, err
	}
	return s, true, nil
}

func (r *FileRepo) Save(s State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
