// Package config provides YAML-based configuration loading and difficulty
// presets for the tank simulation.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-tanks/internal/engine"
)

// TanksConfig contains all configuration for a session.
type TanksConfig struct {
	Board     BoardConfig     `yaml:"board"`
	Actors    ActorsConfig    `yaml:"actors"`
	Animation AnimationConfig `yaml:"animation"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
}

// BoardConfig defines the board geometry.
type BoardConfig struct {
	BlockCount     int `yaml:"block_count"`
	PixelsPerBlock int `yaml:"pixels_per_block"`
}

// ActorsConfig defines movement speeds.
type ActorsConfig struct {
	TankSpeed            int `yaml:"tank_speed"`
	QuickTankSpeed       int `yaml:"quick_tank_speed"`
	ProjectileMultiplier int `yaml:"projectile_multiplier"`
}

// AnimationConfig defines animation counters.
type AnimationConfig struct {
	WalkCycleTicks   int `yaml:"walk_cycle_ticks"`
	EffectFrameDelay int `yaml:"effect_frame_delay"`
	ExplosionFrames  int `yaml:"explosion_frames"`
}

// RuntimeConfig defines platform pacing.
type RuntimeConfig struct {
	TickRate     int              `yaml:"tick_rate"`
	KeyHoldTicks int              `yaml:"key_hold_ticks"`
	Difficulty   DifficultyPreset `yaml:"difficulty"`
}

// ToEngine converts the simulation sections to an engine configuration.
func (c TanksConfig) ToEngine() engine.Config {
	return engine.Config{
		BlockCount:           c.Board.BlockCount,
		PixelsPerBlock:       c.Board.PixelsPerBlock,
		TankSpeed:            c.Actors.TankSpeed,
		QuickTankSpeed:       c.Actors.QuickTankSpeed,
		ProjectileMultiplier: c.Actors.ProjectileMultiplier,
		WalkCycleTicks:       c.Animation.WalkCycleTicks,
		EffectFrameDelay:     c.Animation.EffectFrameDelay,
		ExplosionFrames:      c.Animation.ExplosionFrames,
	}
}

// Validate checks the whole configuration.
func (c TanksConfig) Validate() error {
	if err := c.ToEngine().Validate(); err != nil {
		return err
	}
	if c.Runtime.TickRate < 1 || c.Runtime.TickRate > 240 {
		return fmt.Errorf("%w: tick rate %d out of range [1, 240]", engine.ErrInvalidConfig, c.Runtime.TickRate)
	}
	if c.Runtime.KeyHoldTicks < 1 {
		return fmt.Errorf("%w: key hold ticks %d", engine.ErrInvalidConfig, c.Runtime.KeyHoldTicks)
	}
	if _, err := ParsePreset(string(c.Runtime.Difficulty)); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrInvalidConfig, err)
	}
	return nil
}
