package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var embeddedCatalog []byte

// File is the on-disk shape of catalog.yml.
type File struct {
	Milestones       []Milestone       `yaml:"milestones" json:"milestones"`
	WorkshopUpgrades []WorkshopUpgrade `yaml:"workshop_upgrades" json:"workshopUpgrades"`
	Chests           []Chest           `yaml:"chests" json:"chests"`
	Equipment        []Equipment       `yaml:"equipment" json:"equipment"`
	Weapons          []Weapon          `yaml:"weapons" json:"weapons"`
	WeaponUpgrades   []WeaponUpgrade   `yaml:"weapon_upgrades" json:"weaponUpgrades"`
	SkillTree        []SkillNode       `yaml:"skill_tree" json:"skillTree"`
	EnemyTypes       []EnemyType       `yaml:"enemy_types" json:"enemyTypes"`
	BossTypes        []BossType        `yaml:"boss_types" json:"bossTypes"`
	MapThemes        []MapTheme        `yaml:"map_themes" json:"mapThemes"`
	MiniBosses       []MiniBoss        `yaml:"mini_bosses" json:"miniBosses"`
	InRunUpgrades    []InRunUpgrade    `yaml:"in_run_upgrades" json:"inRunUpgrades"`
	Synergies        []Synergy         `yaml:"synergies" json:"synergies"`
	LevelNames       [][]string        `yaml:"level_names" json:"levelNames"`
	BossPools        BossPools         `yaml:"boss_pools" json:"bossPools"`
	Skins            []Skin            `yaml:"skins" json:"skins"`
	Products         []Product         `yaml:"products" json:"products"`
}

// Catalog is the immutable balance data plus the generated level table.
// Callers must treat returned slices as read-only.
type Catalog struct {
	File
	Levels []GameLevel `json:"levels"`

	workshop  map[string]WorkshopUpgrade
	equipment map[string]Equipment
	skills    map[string]SkillNode
	weapons   map[string]Weapon
	chests    map[ChestTier]Chest
	miniBoss  map[string]MiniBoss
	bosses    map[string]BossType
	maps      map[string]MapTheme
	inRun     map[string]InRunUpgrade
	skins     map[string]Skin
	products  map[string]Product
	byRarity  map[Rarity][]Equipment
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It panics if the embedded file is
// malformed, which is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(embeddedCatalog)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("catalog: embedded catalog invalid: %v", defaultErr))
	}
	return defaultCat
}

// Parse decodes and validates a catalog document and generates its levels.
func Parse(b []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f)
}

// New indexes f, generates the level table and validates the result.
func New(f File) (*Catalog, error) {
	c := &Catalog{
		File:      f,
		workshop:  map[string]WorkshopUpgrade{},
		equipment: map[string]Equipment{},
		skills:    map[string]SkillNode{},
		weapons:   map[string]Weapon{},
		chests:    map[ChestTier]Chest{},
		miniBoss:  map[string]MiniBoss{},
		bosses:    map[string]BossType{},
		maps:      map[string]MapTheme{},
		inRun:     map[string]InRunUpgrade{},
		skins:     map[string]Skin{},
		products:  map[string]Product{},
		byRarity:  map[Rarity][]Equipment{},
	}
	for _, u := range f.WorkshopUpgrades {
		c.workshop[u.ID] = u
	}
	for _, e := range f.Equipment {
		c.equipment[e.ID] = e
		c.byRarity[e.Rarity] = append(c.byRarity[e.Rarity], e)
	}
	for _, n := range f.SkillTree {
		c.skills[n.ID] = n
	}
	for _, w := range f.Weapons {
		c.weapons[w.ID] = w
	}
	for _, ch := range f.Chests {
		c.chests[ch.Rarity] = ch
	}
	for _, m := range f.MiniBosses {
		c.miniBoss[m.ID] = m
	}
	for _, b := range f.BossTypes {
		c.bosses[b.ID] = b
	}
	for _, m := range f.MapThemes {
		c.maps[m.ID] = m
	}
	for _, u := range f.InRunUpgrades {
		c.inRun[u.ID] = u
	}
	for _, s := range f.Skins {
		c.skins[s.ID] = s
	}
	for _, p := range f.Products {
		c.products[p.ID] = p
	}
	if len(f.MapThemes) == 0 {
		return nil, errors.New("catalog: no map themes")
	}
	c.Levels = GenerateLevels(f.MapThemes, f.LevelNames, f.BossPools)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) WorkshopUpgrade(id string) (WorkshopUpgrade, bool) {
	u, ok := c.workshop[id]
	return u, ok
}

func (c *Catalog) EquipmentByID(id string) (Equipment, bool) {
	e, ok := c.equipment[id]
	return e, ok
}

// EquipmentByRarity returns the items of one rarity in catalog order.
func (c *Catalog) EquipmentByRarity(r Rarity) []Equipment {
	return c.byRarity[r]
}

func (c *Catalog) SkillNode(id string) (SkillNode, bool) {
	n, ok := c.skills[id]
	return n, ok
}

func (c *Catalog) Weapon(id string) (Weapon, bool) {
	w, ok := c.weapons[id]
	return w, ok
}

func (c *Catalog) Chest(tier ChestTier) (Chest, bool) {
	ch, ok := c.chests[tier]
	return ch, ok
}

func (c *Catalog) MiniBoss(id string) (MiniBoss, bool) {
	m, ok := c.miniBoss[id]
	return m, ok
}

func (c *Catalog) Boss(id string) (BossType, bool) {
	b, ok := c.bosses[id]
	return b, ok
}

func (c *Catalog) MapTheme(id string) (MapTheme, bool) {
	m, ok := c.maps[id]
	return m, ok
}

func (c *Catalog) InRunUpgrade(id string) (InRunUpgrade, bool) {
	u, ok := c.inRun[id]
	return u, ok
}

func (c *Catalog) Skin(id string) (Skin, bool) {
	s, ok := c.skins[id]
	return s, ok
}

func (c *Catalog) Product(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Level returns the campaign level with the given 1-based id.
func (c *Catalog) Level(id int) (GameLevel, bool) {
	if id < 1 || id > len(c.Levels) {
		return GameLevel{}, false
	}
	return c.Levels[id-1], true
}
