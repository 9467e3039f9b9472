package player

import (
	"github.com/google/uuid"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/economy"
)

const (
	DefaultWeaponID  = "gift_box"
	MaxActiveWeapons = 3
	MaxLevel         = catalog.LevelCount
)

// Mobile control sizes.
const (
	ControlSmall  = "small"
	ControlMedium = "medium"
	ControlLarge  = "large"
)

type Settings struct {
	SoundEnabled      bool   `json:"soundEnabled"`
	ReducedMotion     bool   `json:"reducedMotion"`
	MobileControlSize string `json:"mobileControlSize"`
	ManualAim         bool   `json:"manualAim"`
	ShowWarmthMeter   bool   `json:"showWarmthMeter"`
}

// SettingsPatch carries optional settings updates.
type SettingsPatch struct {
	SoundEnabled      *bool   `json:"soundEnabled,omitempty"`
	ReducedMotion     *bool   `json:"reducedMotion,omitempty"`
	MobileControlSize *string `json:"mobileControlSize,omitempty"`
	ManualAim         *bool   `json:"manualAim,omitempty"`
	ShowWarmthMeter   *bool   `json:"showWarmthMeter,omitempty"`
}

type LevelProgress struct {
	Completed bool `json:"completed"`
	Stars     int  `json:"stars"`
	BestTime  int  `json:"bestTime"`
	Attempts  int  `json:"attempts"`
}

// PendingChest is an awarded chest waiting to be opened. ID is unique per
// award so two chests of the same tier can be told apart.
type PendingChest struct {
	ID          string        `json:"id"`
	Chest       catalog.Chest `json:"chest"`
	LevelEarned int           `json:"levelEarned"`
}

// Profile is the durable meta-progression record of one player.
type Profile struct {
	Coins                  int                     `json:"coins"`
	WorkshopUpgradeLevels  map[string]int          `json:"workshopUpgrades"`
	BestSurvivalTime       int                     `json:"bestSurvivalTime"`
	TotalChildrenHelped    int                     `json:"totalChildrenHelped"`
	EquipmentLoadout       map[catalog.Slot]string `json:"equipmentLoadout"`
	OwnedEquipmentIDs      []string                `json:"ownedEquipment"`
	SkillLevels            map[string]int          `json:"skillLevels"`
	UnlockedWeaponIDs      []string                `json:"unlockedWeapons"`
	ActiveWeaponIDs        []string                `json:"activeWeapons"`
	HasSeasonPass          bool                    `json:"hasSeasonPass"`
	OwnedSkinIDs           []string                `json:"ownedSkins"`
	EquippedSkinID         string                  `json:"equippedSkin,omitempty"`
	LevelProgress          map[int]LevelProgress   `json:"levelProgress"`
	HighestLevelUnlocked   int                     `json:"highestLevelUnlocked"`
	EquipmentCardCounts    map[string]int          `json:"equipmentCards"`
	EquipmentUpgradeLevels map[string]int          `json:"equipmentLevels"`
	PendingChests          []PendingChest          `json:"pendingChests"`
	Settings               Settings                `json:"settings"`
}

func defaultSettings() Settings {
	return Settings{
		SoundEnabled:      true,
		MobileControlSize: ControlMedium,
		ShowWarmthMeter:   true,
	}
}

func defaultLoadout() map[catalog.Slot]string {
	out := make(map[catalog.Slot]string, len(catalog.Slots))
	for _, s := range catalog.Slots {
		out[s] = ""
	}
	return out
}

func defaultProfile() Profile {
	return Profile{
		WorkshopUpgradeLevels:  map[string]int{},
		EquipmentLoadout:       defaultLoadout(),
		OwnedEquipmentIDs:      []string{},
		SkillLevels:            map[string]int{},
		UnlockedWeaponIDs:      []string{DefaultWeaponID},
		ActiveWeaponIDs:        []string{DefaultWeaponID},
		OwnedSkinIDs:           []string{},
		LevelProgress:          map[int]LevelProgress{},
		HighestLevelUnlocked:   1,
		EquipmentCardCounts:    map[string]int{},
		EquipmentUpgradeLevels: map[string]int{},
		PendingChests:          []PendingChest{},
		Settings:               defaultSettings(),
	}
}

// normalizeProfile merges a loaded, possibly partial or older record over
// the defaults and repairs anything that would break an invariant.
func normalizeProfile(p Profile) Profile {
	out := defaultProfile()
	if p.Coins > 0 {
		out.Coins = p.Coins
	}
	out.BestSurvivalTime = max(p.BestSurvivalTime, 0)
	out.TotalChildrenHelped = max(p.TotalChildrenHelped, 0)
	out.HasSeasonPass = p.HasSeasonPass
	out.EquippedSkinID = p.EquippedSkinID

	for k, v := range p.WorkshopUpgradeLevels {
		if v > 0 {
			out.WorkshopUpgradeLevels[k] = v
		}
	}
	for k, v := range p.SkillLevels {
		if v > 0 {
			out.SkillLevels[k] = v
		}
	}
	for k, v := range p.EquipmentCardCounts {
		if v > 0 {
			out.EquipmentCardCounts[k] = v
		}
	}
	for k, v := range p.EquipmentUpgradeLevels {
		out.EquipmentUpgradeLevels[k] = min(max(v, 1), 5)
	}
	for k, v := range p.LevelProgress {
		out.LevelProgress[k] = v
	}

	out.OwnedEquipmentIDs = appendUnique(out.OwnedEquipmentIDs, p.OwnedEquipmentIDs...)
	out.OwnedSkinIDs = appendUnique(out.OwnedSkinIDs, p.OwnedSkinIDs...)
	out.UnlockedWeaponIDs = appendUnique(out.UnlockedWeaponIDs, p.UnlockedWeaponIDs...)

	for slot, id := range p.EquipmentLoadout {
		if slot.Valid() && (id == "" || contains(out.OwnedEquipmentIDs, id)) {
			out.EquipmentLoadout[slot] = id
		}
	}

	var active []string
	for _, id := range p.ActiveWeaponIDs {
		if contains(out.UnlockedWeaponIDs, id) && !contains(active, id) && len(active) < MaxActiveWeapons {
			active = append(active, id)
		}
	}
	if len(active) > 0 {
		out.ActiveWeaponIDs = active
	}

	if p.HighestLevelUnlocked > 0 {
		out.HighestLevelUnlocked = min(p.HighestLevelUnlocked, MaxLevel)
	}

	for _, pc := range p.PendingChests {
		if pc.ID == "" {
			pc.ID = uuid.NewString()
		}
		out.PendingChests = append(out.PendingChests, pc)
	}

	if p.Settings != (Settings{}) {
		out.Settings = p.Settings
		if !validControlSize(out.Settings.MobileControlSize) {
			out.Settings.MobileControlSize = ControlMedium
		}
	}
	return out
}

// clampToCatalog caps loaded workshop and skill levels at what the catalog
// allows. Ids the catalog does not know are kept as they are.
func clampToCatalog(p *Profile, c *catalog.Catalog) {
	for id, lvl := range p.WorkshopUpgradeLevels {
		if u, ok := c.WorkshopUpgrade(id); ok {
			p.WorkshopUpgradeLevels[id] = min(lvl, economy.WorkshopLevelLimit(u))
		}
	}
	for id, lvl := range p.SkillLevels {
		if n, ok := c.SkillNode(id); ok {
			p.SkillLevels[id] = min(lvl, n.MaxLevel)
		}
	}
}

func validControlSize(s string) bool {
	return s == ControlSmall || s == ControlMedium || s == ControlLarge
}

func cloneMapInt(src map[string]int) map[string]int {
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func cloneProfile(src Profile) Profile {
	out := src
	out.WorkshopUpgradeLevels = cloneMapInt(src.WorkshopUpgradeLevels)
	out.SkillLevels = cloneMapInt(src.SkillLevels)
	out.EquipmentCardCounts = cloneMapInt(src.EquipmentCardCounts)
	out.EquipmentUpgradeLevels = cloneMapInt(src.EquipmentUpgradeLevels)
	out.EquipmentLoadout = make(map[catalog.Slot]string, len(src.EquipmentLoadout))
	for k, v := range src.EquipmentLoadout {
		out.EquipmentLoadout[k] = v
	}
	out.LevelProgress = make(map[int]LevelProgress, len(src.LevelProgress))
	for k, v := range src.LevelProgress {
		out.LevelProgress[k] = v
	}
	out.OwnedEquipmentIDs = append([]string{}, src.OwnedEquipmentIDs...)
	out.UnlockedWeaponIDs = append([]string{}, src.UnlockedWeaponIDs...)
	out.ActiveWeaponIDs = append([]string{}, src.ActiveWeaponIDs...)
	out.OwnedSkinIDs = append([]string{}, src.OwnedSkinIDs...)
	out.PendingChests = append([]PendingChest{}, src.PendingChests...)
	return out
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func appendUnique(list []string, ids ...string) []string {
	for _, id := range ids {
		if id != "" && !contains(list, id) {
			list = append(list, id)
		}
	}
	return list
}

func removeID(list []string, id string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
