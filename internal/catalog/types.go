package catalog

// Rarity of equipment cards and in-run upgrades.
type Rarity string

const (
	Common Rarity = "common"
	Rare   Rarity = "rare"
	Epic   Rarity = "epic"
)

// Slot is an equipment loadout position.
type Slot string

const (
	SlotJacket  Slot = "jacket"
	SlotSocks   Slot = "socks"
	SlotGloves  Slot = "gloves"
	SlotPants   Slot = "pants"
	SlotSweater Slot = "sweater"
)

// Slots lists every loadout slot in display order.
var Slots = []Slot{SlotJacket, SlotSocks, SlotGloves, SlotPants, SlotSweater}

func (s Slot) Valid() bool {
	for _, v := range Slots {
		if v == s {
			return true
		}
	}
	return false
}

// ChestTier identifies a chest quality.
type ChestTier string

const (
	Wooden  ChestTier = "wooden"
	Silver  ChestTier = "silver"
	Golden  ChestTier = "golden"
	Diamond ChestTier = "diamond"
)

type Milestone struct {
	Threshold   float64 `yaml:"threshold" json:"threshold"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
}

// WorkshopUpgrade is a permanent, coin-bought stat upgrade.
type WorkshopUpgrade struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Description   string   `yaml:"description" json:"description"`
	MaxLevel      int      `yaml:"max_level" json:"maxLevel"`
	CostPerLevel  int      `yaml:"cost_per_level" json:"costPerLevel"`
	Effect        float64  `yaml:"effect" json:"effect"`
	ScalingFactor float64  `yaml:"scaling_factor,omitempty" json:"scalingFactor,omitempty"`
	EffectCap     *float64 `yaml:"effect_cap,omitempty" json:"effectCap,omitempty"`
}

// Stats are equipment bonuses. HP is flat, the rest are fractions.
type Stats struct {
	HP           float64 `yaml:"hp,omitempty" json:"hp,omitempty"`
	Speed        float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
	ThrowRate    float64 `yaml:"throw_rate,omitempty" json:"throwRate,omitempty"`
	PickupRadius float64 `yaml:"pickup_radius,omitempty" json:"pickupRadius,omitempty"`
	Damage       float64 `yaml:"damage,omitempty" json:"damage,omitempty"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		HP:           s.HP + o.HP,
		Speed:        s.Speed + o.Speed,
		ThrowRate:    s.ThrowRate + o.ThrowRate,
		PickupRadius: s.PickupRadius + o.PickupRadius,
		Damage:       s.Damage + o.Damage,
	}
}

type Equipment struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Slot        Slot   `yaml:"slot" json:"slot"`
	Description string `yaml:"description" json:"description"`
	Cost        int    `yaml:"cost" json:"cost"`
	Stats       Stats  `yaml:"stats" json:"stats"`
	Sprite      string `yaml:"sprite" json:"sprite"`
	Rarity      Rarity `yaml:"rarity" json:"rarity"`
}

type WeaponStats struct {
	FireRate        float64 `yaml:"fire_rate" json:"fireRate"`
	Damage          float64 `yaml:"damage" json:"damage"`
	ProjectileSpeed float64 `yaml:"projectile_speed" json:"projectileSpeed"`
	ProjectileCount int     `yaml:"projectile_count" json:"projectileCount"`
	Range           float64 `yaml:"range" json:"range"`
}

type Weapon struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Cost        int         `yaml:"cost" json:"cost"`
	UnlockLevel int         `yaml:"unlock_level" json:"unlockLevel"`
	BaseStats   WeaponStats `yaml:"base_stats" json:"baseStats"`
	Sprite      string      `yaml:"sprite" json:"sprite"`
	Type        string      `yaml:"type" json:"type"`
}

type WeaponUpgradeEffect struct {
	FireRate        float64 `yaml:"fire_rate,omitempty" json:"fireRate,omitempty"`
	Damage          float64 `yaml:"damage,omitempty" json:"damage,omitempty"`
	ProjectileSpeed float64 `yaml:"projectile_speed,omitempty" json:"projectileSpeed,omitempty"`
	ProjectileCount int     `yaml:"projectile_count,omitempty" json:"projectileCount,omitempty"`
	Range           float64 `yaml:"range,omitempty" json:"range,omitempty"`
	Special         string  `yaml:"special,omitempty" json:"special,omitempty"`
}

type WeaponUpgrade struct {
	ID             string              `yaml:"id" json:"id"`
	WeaponID       string              `yaml:"weapon_id" json:"weaponId"`
	Name           string              `yaml:"name" json:"name"`
	Description    string              `yaml:"description" json:"description"`
	Tier           int                 `yaml:"tier" json:"tier"`
	PrerequisiteID string              `yaml:"prerequisite_id" json:"prerequisiteId,omitempty"`
	Effect         WeaponUpgradeEffect `yaml:"effect" json:"effect"`
}

type SkillEffect struct {
	Stat  string  `yaml:"stat" json:"stat"`
	Value float64 `yaml:"value" json:"value"`
}

type Position struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// SkillNode is one purchasable node of the skill tree graph.
type SkillNode struct {
	ID              string      `yaml:"id" json:"id"`
	Name            string      `yaml:"name" json:"name"`
	Description     string      `yaml:"description" json:"description"`
	Cost            int         `yaml:"cost" json:"cost"`
	MaxLevel        int         `yaml:"max_level" json:"maxLevel"`
	PrerequisiteIDs []string    `yaml:"prerequisite_ids" json:"prerequisiteIds"`
	Category        string      `yaml:"category" json:"category"`
	Effect          SkillEffect `yaml:"effect" json:"effect"`
	Position        Position    `yaml:"position" json:"position"`
	UnlocksWeaponID string      `yaml:"unlocks_weapon_id,omitempty" json:"unlocksWeaponId,omitempty"`
}

// RarityWeights are percentages and must sum to 100.
type RarityWeights struct {
	Common int `yaml:"common" json:"common"`
	Rare   int `yaml:"rare" json:"rare"`
	Epic   int `yaml:"epic" json:"epic"`
}

func (w RarityWeights) Sum() int { return w.Common + w.Rare + w.Epic }

type Chest struct {
	ID              string        `yaml:"id" json:"id"`
	Name            string        `yaml:"name" json:"name"`
	Rarity          ChestTier     `yaml:"rarity" json:"rarity"`
	EquipmentChance float64       `yaml:"equipment_chance" json:"equipmentChance"`
	CardRange       []int         `yaml:"card_range" json:"cardRange"`
	CoinRange       []int         `yaml:"coin_range" json:"coinRange"`
	RarityWeights   RarityWeights `yaml:"rarity_weights" json:"rarityWeights"`
}

type EnemyType struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	Description    string  `yaml:"description" json:"description"`
	HitsNeeded     int     `yaml:"hits_needed" json:"hitsNeeded"`
	BaseSpeed      float64 `yaml:"base_speed" json:"baseSpeed"`
	Damage         int     `yaml:"damage" json:"damage"`
	SpecialAbility string  `yaml:"special_ability" json:"specialAbility,omitempty"`
	Sprite         string  `yaml:"sprite" json:"sprite"`
	Color          int     `yaml:"color" json:"color"`
}

type BossType struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	HitsNeeded  int      `yaml:"hits_needed" json:"hitsNeeded"`
	BaseSpeed   float64  `yaml:"base_speed" json:"baseSpeed"`
	Damage      int      `yaml:"damage" json:"damage"`
	Abilities   []string `yaml:"abilities" json:"abilities"`
	Sprite      string   `yaml:"sprite" json:"sprite"`
	Color       int      `yaml:"color" json:"color"`
	CoinReward  int      `yaml:"coin_reward" json:"coinReward"`
}

type MapTheme struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	BackgroundColor int    `yaml:"background_color" json:"backgroundColor"`
	GroundColor     int    `yaml:"ground_color" json:"groundColor"`
	DecorationColor int    `yaml:"decoration_color" json:"decorationColor"`
	Description     string `yaml:"description" json:"description"`
}

type MiniBoss struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	Description    string  `yaml:"description" json:"description"`
	BaseHitsNeeded int     `yaml:"base_hits_needed" json:"baseHitsNeeded"`
	BaseSpeed      float64 `yaml:"base_speed" json:"baseSpeed"`
	Damage         int     `yaml:"damage" json:"damage"`
	Ability        string  `yaml:"ability" json:"ability"`
	Sprite         string  `yaml:"sprite" json:"sprite"`
	Color          int     `yaml:"color" json:"color"`
	CoinReward     int     `yaml:"coin_reward" json:"coinReward"`
}

// InRunUpgrade is a level-up choice that only lasts for one run.
type InRunUpgrade struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Rarity      Rarity `yaml:"rarity" json:"rarity"`
	Stacking    bool   `yaml:"stacking" json:"stacking"`
}

// Synergy pairs two in-run upgrades into a bonus effect tag.
type Synergy struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Upgrades    []string `yaml:"upgrades" json:"upgrades"`
	BonusEffect string   `yaml:"bonus_effect" json:"bonusEffect"`
}

type Skin struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Color       string `yaml:"color" json:"color"`
	Premium     bool   `yaml:"premium" json:"premium"`
}

// ProductKind tags what a completed payment grants.
type ProductKind string

const (
	ProductCoins    ProductKind = "coins"
	ProductGamePass ProductKind = "gamepass"
	ProductSkin     ProductKind = "skin"
)

type Product struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Kind        ProductKind `yaml:"kind" json:"kind"`
	AmountCents int         `yaml:"amount_cents" json:"amountCents"`
	Coins       int         `yaml:"coins,omitempty" json:"coins,omitempty"`
	SkinID      string      `yaml:"skin_id,omitempty" json:"skinId,omitempty"`
}

type LevelRewards struct {
	Coins int `json:"coins"`
	XP    int `json:"xp"`
}

// GameLevel is one generated campaign stage.
type GameLevel struct {
	ID                    int          `json:"id"`
	Name                  string       `json:"name"`
	MapID                 string       `json:"mapId"`
	Difficulty            float64      `json:"difficulty"`
	EnemyHealthMultiplier float64      `json:"enemyHealthMultiplier"`
	EnemySpeedMultiplier  float64      `json:"enemySpeedMultiplier"`
	SpawnRateMultiplier   float64      `json:"spawnRateMultiplier"`
	MiniBoss1             string       `json:"miniBoss1"`
	MiniBoss2             string       `json:"miniBoss2"`
	FinalBoss             string       `json:"finalBoss"`
	Rewards               LevelRewards `json:"rewards"`
}

// BossPools are the tiered boss id lists levels draw from.
type BossPools struct {
	MiniEasy    []string `yaml:"mini_easy" json:"miniEasy"`
	MiniMedium  []string `yaml:"mini_medium" json:"miniMedium"`
	MiniHard    []string `yaml:"mini_hard" json:"miniHard"`
	FinalEasy   []string `yaml:"final_easy" json:"finalEasy"`
	FinalMedium []string `yaml:"final_medium" json:"finalMedium"`
	FinalHard   []string `yaml:"final_hard" json:"finalHard"`
}
