package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Repository persists the admin credential.
type Repository interface {
	Load() (c Credential, found bool, err error)
	Save(c Credential) error
}

// FileRepo keeps the credential in admin.json, readable by the owner only.
type FileRepo struct {
	mu   sync.RWMutex
	path string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileRepo{path: filepath.Join(dataDir, "admin.json")}, nil
}

func (r *FileRepo) Load() (Credential, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credential{}, false, nil
		}
		return Credential{}, false, err
	}
	var c Credential
	if err := json.Unmarshal(b, &c); err != nil {
		return Credential{}, false, err
	}
	return c, true, nil
}

func (r *FileRepo) Save(c Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

type MemoryRepo struct {
	mu    sync.Mutex
	c     Credential
	found bool
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Load() (Credential, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c, r.found, nil
}

func (r *MemoryRepo) Save(c Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c, r.found = c, true
	return nil
}
