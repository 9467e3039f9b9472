package player

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/economy"
)

// PlayerIDHeader selects the profile a request acts on.
const PlayerIDHeader = "X-Player-Id"

type Handler struct {
	storeResolver func(*http.Request) (*Store, error)
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) SetStoreResolver(fn func(*http.Request) (*Store, error)) {
	h.storeResolver = fn
}

// RegistryResolver resolves stores by the X-Player-Id header.
func RegistryResolver(reg *Registry) func(*http.Request) (*Store, error) {
	return func(r *http.Request) (*Store, error) {
		return reg.Store(r.Header.Get(PlayerIDHeader))
	}
}

func (h *Handler) storeForRequest(r *http.Request) *Store {
	if h.storeResolver == nil {
		return nil
	}
	st, err := h.storeResolver(r)
	if err != nil {
		return nil
	}
	return st
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

type ProfileResponse struct {
	Profile       Profile              `json:"profile"`
	EquippedStats catalog.Stats        `json:"equippedStats"`
	SkillBonuses  economy.SkillBonuses `json:"skillBonuses"`
	RunModifiers  RunModifiers         `json:"runModifiers"`
}

func buildProfileResponse(st *Store) ProfileResponse {
	return ProfileResponse{
		Profile:       st.Snapshot(),
		EquippedStats: st.EquippedStats(),
		SkillBonuses:  st.SkillBonuses(),
		RunModifiers:  st.RunModifiers(),
	}
}

// GET /api/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	st := h.storeForRequest(r)
	if st == nil {
		writeErr(w, http.StatusInternalServerError, "profile store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, buildProfileResponse(st))
}

// Command is the body of POST /api/profile/cmd.
type Command struct {
	Action   string         `json:"action"`
	ID       string         `json:"id,omitempty"`
	Slot     string         `json:"slot,omitempty"`
	Settings *SettingsPatch `json:"settings,omitempty"`
	Run      *RunSummary    `json:"run,omitempty"`
	Level    *LevelClear    `json:"level,omitempty"`
}

// POST /api/profile/cmd
func (h *Handler) Cmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	st := h.storeForRequest(r)
	if st == nil {
		writeErr(w, http.StatusInternalServerError, "profile store unavailable")
		return
	}

	var cmd Command
	if err := decodeJSON(r, &cmd); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	id := strings.TrimSpace(cmd.ID)

	var (
		ok     bool
		result any
	)
	switch strings.TrimSpace(cmd.Action) {
	case "purchase_workshop":
		ok = st.PurchaseWorkshopUpgrade(id)
	case "purchase_skill":
		ok = st.PurchaseSkillNode(id)
	case "purchase_equipment":
		ok = st.PurchaseEquipment(id)
	case "equip":
		ok = st.Equip(id)
	case "unequip":
		ok = st.Unequip(catalog.Slot(strings.TrimSpace(cmd.Slot)))
	case "upgrade_equipment":
		ok = st.UpgradeEquipment(id)
	case "toggle_weapon":
		ok = st.ToggleActiveWeapon(id)
	case "open_chest":
		result, ok = st.OpenChest(id)
	case "clear_chests":
		result, ok = st.ClearPendingChests(), true
	case "equip_skin":
		ok = st.EquipSkin(id)
	case "settings":
		if cmd.Settings == nil {
			writeErr(w, http.StatusBadRequest, `missing field "settings"`)
			return
		}
		ok = st.UpdateSettings(*cmd.Settings)
	case "finish_run":
		if cmd.Run == nil {
			writeErr(w, http.StatusBadRequest, `missing field "run"`)
			return
		}
		result, ok = st.FinishRun(*cmd.Run), true
	case "finish_level":
		if cmd.Level == nil {
			writeErr(w, http.StatusBadRequest, `missing field "level"`)
			return
		}
		result, ok = st.FinishCampaignLevel(*cmd.Level)
	case "record_attempt":
		if cmd.Level == nil {
			writeErr(w, http.StatusBadRequest, `missing field "level"`)
			return
		}
		ok = st.RecordLevelAttempt(cmd.Level.Level)
	case "":
		writeErr(w, http.StatusBadRequest, `missing field "action"`)
		return
	default:
		writeErr(w, http.StatusBadRequest, "unknown action")
		return
	}

	code := http.StatusOK
	if !ok {
		code = http.StatusConflict
		result = nil
	}
	writeJSON(w, code, map[string]any{
		"ok":     ok,
		"result": result,
		"state":  buildProfileResponse(st),
	})
}
