package engine

import "fmt"

// Fixed geometry, in pixels.
const (
	SubTileSize     = 4  // finest destructible unit
	ParentBlockSize = 8  // 2x2 sub-tiles
	TankSize        = 16 // tank collision box side
	ProjectileSize  = 4  // projectile collision box side
)

// Config holds the tunable simulation parameters.
type Config struct {
	BlockCount     int // blocks per board side
	PixelsPerBlock int

	TankSpeed            int // px per tick
	QuickTankSpeed       int // px per tick
	ProjectileMultiplier int // projectile speed = owner speed * multiplier

	WalkCycleTicks   int // move attempts per walk frame toggle
	EffectFrameDelay int // ticks per effect frame
	ExplosionFrames  int
}

// DefaultConfig returns the reference configuration: a 13x16 px board.
func DefaultConfig() Config {
	return Config{
		BlockCount:           13,
		PixelsPerBlock:       16,
		TankSpeed:            1,
		QuickTankSpeed:       2,
		ProjectileMultiplier: 2,
		WalkCycleTicks:       3,
		EffectFrameDelay:     3,
		ExplosionFrames:      3,
	}
}

// BoardSize returns the board side length in pixels.
func (c Config) BoardSize() int {
	return c.BlockCount * c.PixelsPerBlock
}

// MapSize returns the terrain grid side length in sub-tiles.
func (c Config) MapSize() int {
	return c.BoardSize() / SubTileSize
}

// SpeedFor returns the movement speed of a tank kind.
func (c Config) SpeedFor(k Kind) int {
	if k == KindQuickTank {
		return c.QuickTankSpeed
	}
	return c.TankSpeed
}

// ProjectileSpeed returns the speed of a projectile fired by a tank of kind k.
func (c Config) ProjectileSpeed(k Kind) int {
	return c.SpeedFor(k) * c.ProjectileMultiplier
}

// Validate checks that the configuration keeps the collision rules sound.
// A projectile faster than one sub-tile per tick could skip a fragment, so
// projectile speeds are capped at SubTileSize.
func (c Config) Validate() error {
	switch {
	case c.BlockCount < 1:
		return fmt.Errorf("%w: block count %d", ErrInvalidConfig, c.BlockCount)
	case c.PixelsPerBlock < ParentBlockSize || c.PixelsPerBlock%ParentBlockSize != 0:
		return fmt.Errorf("%w: pixels per block %d must be a positive multiple of %d",
			ErrInvalidConfig, c.PixelsPerBlock, ParentBlockSize)
	case c.BoardSize() < TankSize:
		return fmt.Errorf("%w: board size %d smaller than a tank", ErrInvalidConfig, c.BoardSize())
	case c.ProjectileMultiplier < 1:
		return fmt.Errorf("%w: projectile multiplier %d", ErrInvalidConfig, c.ProjectileMultiplier)
	case c.WalkCycleTicks < 1:
		return fmt.Errorf("%w: walk cycle ticks %d", ErrInvalidConfig, c.WalkCycleTicks)
	case c.EffectFrameDelay < 1:
		return fmt.Errorf("%w: effect frame delay %d", ErrInvalidConfig, c.EffectFrameDelay)
	case c.ExplosionFrames < 1:
		return fmt.Errorf("%w: explosion frames %d", ErrInvalidConfig, c.ExplosionFrames)
	}

	for _, k := range []Kind{KindPlayerTank, KindQuickTank} {
		speed := c.SpeedFor(k)
		if speed < 1 || speed > TankSize {
			return fmt.Errorf("%w: %s speed %d out of range [1, %d]", ErrInvalidConfig, k, speed, TankSize)
		}
		if ps := c.ProjectileSpeed(k); ps > SubTileSize {
			return fmt.Errorf("%w: %s projectile speed %d exceeds %d", ErrInvalidConfig, k, ps, SubTileSize)
		}
	}
	return nil
}
