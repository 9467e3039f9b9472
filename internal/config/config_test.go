package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "giftstorm.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "version: \"1\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "data", cfg.Server.DataDir)
	assert.Equal(t, StorageFile, cfg.Server.Storage)
	assert.Equal(t, 12*time.Hour, cfg.Admin.TokenTTL)
	assert.Equal(t, 1000.0, cfg.Donation.Goal)
	assert.Equal(t, "https://example.com/donate", cfg.Donation.URL)
	assert.False(t, cfg.Donation.DevSimulation)
	assert.Equal(t, Default(), cfg.Balance)
}

func TestLoad_ReadsSections(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  addr: ":9000"
  storage: memory
  allowed_origins: ["https://giftstorm.example"]
admin:
  key: hunter2
  token_ttl: 30m
donation:
  goal: 2500
  dev_simulation: true
payment:
  public_base_url: "https://giftstorm.example/"
balance:
  preset: hard
  bonus_hp: 10
`))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, StorageMemory, cfg.Server.Storage)
	assert.Equal(t, []string{"https://giftstorm.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "hunter2", cfg.Admin.Key)
	assert.Equal(t, 30*time.Minute, cfg.Admin.TokenTTL)
	assert.Equal(t, 2500.0, cfg.Donation.Goal)
	assert.True(t, cfg.Donation.DevSimulation)
	assert.Equal(t, "https://giftstorm.example", cfg.Payment.PublicBaseURL)

	want := Hard()
	want.BonusHP = 10
	assert.Equal(t, want, cfg.Balance)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [\n"))
	assert.Error(t, err)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestBalancePresets(t *testing.T) {
	for _, name := range []string{"", "default", "Casual", " hard "} {
		_, ok := Preset(name)
		assert.True(t, ok, name)
	}
	_, ok := Preset("nightmare")
	assert.False(t, ok)

	assert.Less(t, Casual().BaseDifficulty, Default().BaseDifficulty)
	assert.Greater(t, Hard().BaseDifficulty, Default().BaseDifficulty)

	b := Balance{Preset: "nightmare"}
	b.ApplyDefaults()
	assert.Equal(t, Default(), b)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GIFTSTORM_DIFFICULTY", "casual")
	t.Setenv("GIFTSTORM_XP_GROWTH", "1.3")
	t.Setenv("GIFTSTORM_FIRST_LEVEL_XP", "not-a-number")

	b := FromEnv()
	assert.Equal(t, PresetCasual, b.Preset)
	assert.Equal(t, 1.3, b.XPGrowth)
	assert.Equal(t, Casual().FirstLevelXP, b.FirstLevelXP)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GIFTSTORM_ADDR", ":7000")
	t.Setenv("GIFTSTORM_DATA_DIR", "/var/lib/giftstorm")
	t.Setenv("GIFTSTORM_ADMIN_KEY", "from-env")
	t.Setenv("GIFTSTORM_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("GIFTSTORM_DEV_SIMULATION", "yes")

	cfg := Defaults()
	cfg.ApplyEnv()

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/giftstorm", cfg.Server.DataDir)
	assert.Equal(t, "from-env", cfg.Admin.Key)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Donation.DevSimulation)
	assert.Equal(t, Default(), cfg.Balance)
}
