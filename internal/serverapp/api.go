package serverapp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/clock"
	"github.com/haythammda/Gift-Storm/internal/config"
	"github.com/haythammda/Gift-Storm/internal/difficulty"
	"github.com/haythammda/Gift-Storm/internal/ops"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

type gameAPI struct {
	cat     *catalog.Catalog
	balance config.Balance
}

func newGameAPI(cat *catalog.Catalog, b config.Balance) *gameAPI {
	return &gameAPI{cat: cat, balance: b}
}

// GET /api/catalog
func (a *gameAPI) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.cat.File)
}

// GET /api/levels
func (a *gameAPI) Levels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.cat.Levels)
}

// LevelPreview is a level with its boss lineup resolved.
type LevelPreview struct {
	Level    catalog.GameLevel      `json:"level"`
	Duration float64                `json:"duration"`
	Bosses   []difficulty.BossSpawn `json:"bosses"`
}

// GET /api/levels/{id}
func (a *gameAPI) Level(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid level id")
		return
	}
	c, err := difficulty.NewCampaign(a.cat, id)
	if errors.Is(err, difficulty.ErrUnknownLevel) {
		writeErr(w, http.StatusNotFound, "unknown level")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to load level")
		return
	}
	writeJSON(w, http.StatusOK, LevelPreview{
		Level:    c.Level(),
		Duration: difficulty.LevelDuration,
		Bosses:   bossLineup(c),
	})
}

// bossLineup plays the phase timeline with every boss defeated on arrival.
func bossLineup(c *difficulty.Campaign) []difficulty.BossSpawn {
	var out []difficulty.BossSpawn
	for _, at := range []float64{difficulty.MiniOneAt, difficulty.MiniTwoAt, difficulty.FinalAt} {
		for _, b := range c.Advance(at) {
			out = append(out, b)
			c.DefeatBoss(b.Kind)
		}
	}
	return out
}

// GET /api/difficulty?elapsed=90
func (a *gameAPI) Difficulty(w http.ResponseWriter, r *http.Request) {
	elapsed, err := strconv.ParseFloat(r.URL.Query().Get("elapsed"), 64)
	if err != nil || elapsed < 0 {
		elapsed = 0
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance":  a.balance.Preset,
		"snapshot": difficulty.At(elapsed, a.balance.BaseDifficulty),
		"bossHp":   difficulty.BossHP(1, elapsed),
		"nextBoss": nextBossAt(elapsed),
	})
}

func nextBossAt(elapsed float64) float64 {
	for n := 0; ; n++ {
		if at := difficulty.BossAt(n); at > elapsed {
			return at
		}
	}
}

// GET /api/schema/{name}
func (a *gameAPI) Schema(w http.ResponseWriter, r *http.Request) {
	switch mux.Vars(r)["name"] {
	case "profile":
		writeJSON(w, http.StatusOK, ops.ProfileSchema())
	case "catalog":
		writeJSON(w, http.StatusOK, ops.CatalogSchema())
	default:
		writeErr(w, http.StatusNotFound, "unknown schema")
	}
}

// GET /api/admin/stats?days=7
func statsHandler(events *telemetry.MemoryRepository, clk clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := strconv.Atoi(r.URL.Query().Get("days"))
		if err != nil || days <= 0 {
			days = 7
		}
		since := clk.Now().Add(-time.Duration(days) * 24 * time.Hour)
		list, err := events.GetEvents(since, nil)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "failed to read events")
			return
		}
		stats, err := telemetry.CalculateStats(list, since)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "failed to calculate stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
