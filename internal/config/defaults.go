package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-tanks/internal/engine"
)

//go:embed defaults/tanks.yaml
var defaultTanksYAML []byte

// DefaultTanksConfig returns the hardcoded default configuration.
func DefaultTanksConfig() TanksConfig {
	ec := engine.DefaultConfig()
	return TanksConfig{
		Board: BoardConfig{
			BlockCount:     ec.BlockCount,
			PixelsPerBlock: ec.PixelsPerBlock,
		},
		Actors: ActorsConfig{
			TankSpeed:            ec.TankSpeed,
			QuickTankSpeed:       ec.QuickTankSpeed,
			ProjectileMultiplier: ec.ProjectileMultiplier,
		},
		Animation: AnimationConfig{
			WalkCycleTicks:   ec.WalkCycleTicks,
			EffectFrameDelay: ec.EffectFrameDelay,
			ExplosionFrames:  ec.ExplosionFrames,
		},
		Runtime: RuntimeConfig{
			TickRate:     30,
			KeyHoldTicks: 6,
			Difficulty:   DifficultyNormal,
		},
	}
}
