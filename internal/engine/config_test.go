package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 208, cfg.BoardSize())
	assert.Equal(t, 52, cfg.MapSize())
	assert.Equal(t, 2, cfg.ProjectileSpeed(KindPlayerTank))
	assert.Equal(t, 4, cfg.ProjectileSpeed(KindQuickTank))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero blocks", func(c *Config) { c.BlockCount = 0 }},
		{"block not multiple of 8", func(c *Config) { c.PixelsPerBlock = 12 }},
		{"board smaller than tank", func(c *Config) { c.BlockCount, c.PixelsPerBlock = 1, 8 }},
		{"zero tank speed", func(c *Config) { c.TankSpeed = 0 }},
		{"projectile too fast", func(c *Config) { c.QuickTankSpeed = 3 }},
		{"zero multiplier", func(c *Config) { c.ProjectileMultiplier = 0 }},
		{"zero walk cycle", func(c *Config) { c.WalkCycleTicks = 0 }},
		{"zero effect delay", func(c *Config) { c.EffectFrameDelay = 0 }},
		{"zero explosion frames", func(c *Config) { c.ExplosionFrames = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, d := range AllDirs {
		got, err := ParseDir(d.String())
		assert.NoError(t, err)
		assert.Equal(t, d, got)
	}
	for a := ActionNothing; a <= ActionMoveRight; a++ {
		got, err := ParseAction(a.String())
		assert.NoError(t, err)
		assert.Equal(t, a, got)
	}
	for _, k := range []Kind{KindPlayerTank, KindProjectile, KindQuickTank} {
		got, err := ParseKind(k.String())
		assert.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseDir("north")
	assert.Error(t, err)
	_, err = ParseAction("jump")
	assert.Error(t, err)

	a, err := ParseAction("fire")
	assert.NoError(t, err)
	assert.Equal(t, ActionShoot, a)
}

func TestActionDirection(t *testing.T) {
	for _, d := range AllDirs {
		got, ok := MoveAction(d).Direction()
		assert.True(t, ok)
		assert.Equal(t, d, got)
	}
	_, ok := ActionShoot.Direction()
	assert.False(t, ok)
	_, ok = ActionNothing.Direction()
	assert.False(t, ok)
}
