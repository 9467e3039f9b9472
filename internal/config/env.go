package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// FromEnv loads balance configuration from environment variables
// Falls back to defaults if variables are not set
func FromEnv() Balance {
	cfg := Default()

	// Support preset modes
	if mode := os.Getenv("GIFTSTORM_DIFFICULTY"); mode != "" {
		if p, ok := Preset(mode); ok {
			cfg = p
		}
	}

	if val := getEnvFloat("GIFTSTORM_BASE_DIFFICULTY"); val > 0 {
		cfg.BaseDifficulty = val
	}
	if val := getEnvInt("GIFTSTORM_BONUS_HP"); val > 0 {
		cfg.BonusHP = val
	}
	if val := getEnvInt("GIFTSTORM_FIRST_LEVEL_XP"); val > 0 {
		cfg.FirstLevelXP = val
	}
	if val := getEnvFloat("GIFTSTORM_XP_GROWTH"); val > 1 {
		cfg.XPGrowth = val
	}
	return cfg
}

// ApplyEnv overrides deployment settings and secrets from GIFTSTORM_*
// variables. Balance is replaced only when GIFTSTORM_DIFFICULTY is set.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("GIFTSTORM_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("GIFTSTORM_DATA_DIR")); v != "" {
		c.Server.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("GIFTSTORM_ALLOWED_ORIGINS")); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("GIFTSTORM_ADMIN_KEY"); v != "" {
		c.Admin.Key = v
	}
	if v := os.Getenv("GIFTSTORM_JWT_SECRET"); v != "" {
		c.Admin.JWTSecret = v
	}
	if v, err := time.ParseDuration(os.Getenv("GIFTSTORM_TOKEN_TTL")); err == nil && v > 0 {
		c.Admin.TokenTTL = v
	}
	if v := strings.TrimSpace(os.Getenv("GIFTSTORM_PUBLIC_URL")); v != "" {
		c.Payment.PublicBaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("GIFTSTORM_CHECKOUT_URL")); v != "" {
		c.Payment.CheckoutBaseURL = v
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("GIFTSTORM_DEV_SIMULATION"))) {
	case "1", "true", "yes":
		c.Donation.DevSimulation = true
	case "0", "false", "no":
		c.Donation.DevSimulation = false
	}
	if os.Getenv("GIFTSTORM_DIFFICULTY") != "" {
		c.Balance = FromEnv()
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return num
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
