package engine

import "errors"

var (
	// ErrOutOfBounds is returned for grid indices or pixel regions outside the map.
	// It signals a contract violation by the caller and is never clamped.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrInvalidCell is returned when a cell value does not decode to a fragment.
	ErrInvalidCell = errors.New("invalid cell")

	// ErrUnknownActor is returned for an actor ID that was never registered.
	ErrUnknownActor = errors.New("unknown actor")

	// ErrSpawnBlocked is returned when an actor is registered on top of terrain.
	ErrSpawnBlocked = errors.New("spawn blocked")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")
)
