package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Admin    AdminConfig    `yaml:"admin" json:"-"`
	Donation DonationConfig `yaml:"donation" json:"donation"`
	Payment  PaymentConfig  `yaml:"payment" json:"payment"`
	Balance  Balance        `yaml:"balance" json:"balance"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// Storage is "file" or "memory". Memory keeps nothing across restarts.
	Storage        string   `yaml:"storage" json:"storage"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

type AdminConfig struct {
	Key       string        `yaml:"key"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type DonationConfig struct {
	Goal          float64 `yaml:"goal" json:"goal"`
	URL           string  `yaml:"url" json:"url"`
	DevSimulation bool    `yaml:"dev_simulation" json:"dev_simulation"`
}

type PaymentConfig struct {
	CheckoutBaseURL string `yaml:"checkout_base_url" json:"checkout_base_url"`
	PublicBaseURL   string `yaml:"public_base_url" json:"public_base_url"`
}

const (
	StorageFile   = "file"
	StorageMemory = "memory"
)

func (s *ServerConfig) ApplyDefaults() {
	if strings.TrimSpace(s.Addr) == "" {
		s.Addr = ":8080"
	}
	if strings.TrimSpace(s.DataDir) == "" {
		s.DataDir = "data"
	}
	switch strings.ToLower(strings.TrimSpace(s.Storage)) {
	case StorageMemory:
		s.Storage = StorageMemory
	default:
		s.Storage = StorageFile
	}
}

func (a *AdminConfig) ApplyDefaults() {
	if a.TokenTTL <= 0 {
		a.TokenTTL = 12 * time.Hour
	}
}

func (d *DonationConfig) ApplyDefaults() {
	if d.Goal <= 0 {
		d.Goal = 1000
	}
	if strings.TrimSpace(d.URL) == "" {
		d.URL = "https://example.com/donate"
	}
}

func (p *PaymentConfig) ApplyDefaults() {
	if strings.TrimSpace(p.PublicBaseURL) == "" {
		p.PublicBaseURL = "http://localhost:8080"
	}
	p.PublicBaseURL = strings.TrimRight(p.PublicBaseURL, "/")
}

func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Admin.ApplyDefaults()
	c.Donation.ApplyDefaults()
	c.Payment.ApplyDefaults()
	c.Balance.ApplyDefaults()
}

// Defaults is the configuration used when no file is given.
func Defaults() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}

// LoadOrDefault is Load, except that a missing file yields Defaults.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	return c, err
}
