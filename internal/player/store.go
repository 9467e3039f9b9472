package player

import (
	"fmt"
	"log"
	"sync"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/rng"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

type Options struct {
	Repo      Repository
	Catalog   *catalog.Catalog
	Rand      rng.Source
	Logger    *log.Logger
	Telemetry telemetry.Recorder
}

// Store owns one player's profile. Every mutation runs against a copy that
// is committed only when all preconditions hold, so a rejected call leaves
// the profile untouched. Saves are best effort: failures are logged and the
// in-memory profile stays authoritative.
type Store struct {
	mu      sync.Mutex
	repo    Repository
	cat     *catalog.Catalog
	src     rng.Source
	logger  *log.Logger
	events  telemetry.Recorder
	profile Profile
}

func NewStore(opts Options) (*Store, error) {
	if opts.Repo == nil {
		opts.Repo = NewMemoryRepo()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rng.NewTimeSeeded()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	p, err := opts.Repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	profile := normalizeProfile(p)
	clampToCatalog(&profile, opts.Catalog)
	return &Store{
		repo:    opts.Repo,
		cat:     opts.Catalog,
		src:     opts.Rand,
		logger:  opts.Logger,
		events:  opts.Telemetry,
		profile: profile,
	}, nil
}

func (s *Store) Catalog() *catalog.Catalog { return s.cat }

// mutate applies fn to a copy of the profile and commits it when fn
// reports success.
func (s *Store) mutate(op string, fn func(p *Profile) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneProfile(s.profile)
	if !fn(&next) {
		return false
	}
	s.profile = next
	s.persistLocked(op)
	return true
}

func (s *Store) persistLocked(op string) {
	if err := s.repo.Save(s.profile); err != nil {
		s.logger.Printf("[player] save after %s failed: %v", op, err)
	}
}

func (s *Store) record(t telemetry.EventType, md telemetry.EventMetadata) {
	telemetry.Record(s.events, t, md)
}

func (s *Store) read(fn func(p *Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.profile)
}

// Snapshot returns a deep copy of the current profile.
func (s *Store) Snapshot() Profile {
	var out Profile
	s.read(func(p *Profile) { out = cloneProfile(*p) })
	return out
}

func (s *Store) Coins() int {
	var n int
	s.read(func(p *Profile) { n = p.Coins })
	return n
}

func (s *Store) AddCoins(amount int) bool {
	if amount <= 0 {
		return false
	}
	ok := s.mutate("add_coins", func(p *Profile) bool {
		p.Coins += amount
		return true
	})
	if ok {
		s.record(telemetry.EventCoinsAdded, telemetry.EventMetadata{"amount": amount})
	}
	return ok
}

func (s *Store) UnlockSeasonPass() bool {
	return s.mutate("unlock_season_pass", func(p *Profile) bool {
		if p.HasSeasonPass {
			return false
		}
		p.HasSeasonPass = true
		return true
	})
}

func (s *Store) UnlockSkin(id string) bool {
	if _, ok := s.cat.Skin(id); !ok {
		return false
	}
	return s.mutate("unlock_skin", func(p *Profile) bool {
		if contains(p.OwnedSkinIDs, id) {
			return false
		}
		p.OwnedSkinIDs = append(p.OwnedSkinIDs, id)
		return true
	})
}

// EquipSkin wears an owned skin. Season pass holders may wear any premium
// skin. An empty id clears the skin.
func (s *Store) EquipSkin(id string) bool {
	return s.mutate("equip_skin", func(p *Profile) bool {
		if id == "" {
			if p.EquippedSkinID == "" {
				return false
			}
			p.EquippedSkinID = ""
			return true
		}
		skin, ok := s.cat.Skin(id)
		if !ok {
			return false
		}
		if !contains(p.OwnedSkinIDs, id) && !(p.HasSeasonPass && skin.Premium) {
			return false
		}
		p.EquippedSkinID = id
		return true
	})
}

func (s *Store) UpdateSettings(patch SettingsPatch) bool {
	if patch.MobileControlSize != nil && !validControlSize(*patch.MobileControlSize) {
		return false
	}
	return s.mutate("update_settings", func(p *Profile) bool {
		st := &p.Settings
		if patch.SoundEnabled != nil {
			st.SoundEnabled = *patch.SoundEnabled
		}
		if patch.ReducedMotion != nil {
			st.ReducedMotion = *patch.ReducedMotion
		}
		if patch.MobileControlSize != nil {
			st.MobileControlSize = *patch.MobileControlSize
		}
		if patch.ManualAim != nil {
			st.ManualAim = *patch.ManualAim
		}
		if patch.ShowWarmthMeter != nil {
			st.ShowWarmthMeter = *patch.ShowWarmthMeter
		}
		return true
	})
}
