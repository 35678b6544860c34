package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/engine"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := decode(defaultTanksYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultTanksConfig(), cfg)
	assert.Equal(t, engine.DefaultConfig(), cfg.ToEngine())
}

func TestLoadTanksCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runtime:\n  tick_rate: 60\nactors:\n  tank_speed: 2\n"), 0o644))

	cfg, err := LoadTanks(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Runtime.TickRate)
	assert.Equal(t, 2, cfg.Actors.TankSpeed)
	assert.Equal(t, 13, cfg.Board.BlockCount, "unset keys keep their defaults")
	assert.Equal(t, 6, cfg.Runtime.KeyHoldTicks)
}

func TestLoadTanksErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTanks(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("board: [1, 2"), 0o644))
	_, err = LoadTanks(bad)
	assert.Error(t, err)

	fast := filepath.Join(dir, "fast.yaml")
	require.NoError(t, os.WriteFile(fast, []byte("actors:\n  quick_tank_speed: 3\n"), 0o644))
	_, err = LoadTanks(fast)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestLoadTanksFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadTanks("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTanksConfig(), cfg)
}

func TestLoadTanksLocalDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", FileName), []byte("runtime:\n  difficulty: hard\n"), 0o644))

	cfg, err := LoadTanks("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, cfg.Runtime.Difficulty)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TanksConfig)
	}{
		{"zero tick rate", func(c *TanksConfig) { c.Runtime.TickRate = 0 }},
		{"huge tick rate", func(c *TanksConfig) { c.Runtime.TickRate = 1000 }},
		{"zero key hold", func(c *TanksConfig) { c.Runtime.KeyHoldTicks = 0 }},
		{"unknown difficulty", func(c *TanksConfig) { c.Runtime.Difficulty = "nightmare" }},
		{"bad board", func(c *TanksConfig) { c.Board.PixelsPerBlock = 10 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultTanksConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), engine.ErrInvalidConfig)
		})
	}
}

func TestApplyPreset(t *testing.T) {
	for _, p := range Presets() {
		t.Run(string(p), func(t *testing.T) {
			cfg := DefaultTanksConfig()
			ApplyPreset(&cfg, p)
			assert.NoError(t, cfg.Validate())
			assert.Equal(t, p, cfg.Runtime.Difficulty)
		})
	}

	easy, hard := DefaultTanksConfig(), DefaultTanksConfig()
	ApplyPreset(&easy, DifficultyEasy)
	ApplyPreset(&hard, DifficultyHard)
	assert.Less(t, easy.Actors.QuickTankSpeed, hard.Actors.QuickTankSpeed)
	assert.Less(t, easy.Runtime.TickRate, hard.Runtime.TickRate)

	p, err := ParsePreset("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, p)
	_, err = ParsePreset("nightmare")
	assert.Error(t, err)
}
