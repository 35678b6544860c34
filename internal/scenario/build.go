package scenario

import (
	"fmt"

	"github.com/vovakirdan/tui-tanks/internal/driver"
	"github.com/vovakirdan/tui-tanks/internal/engine"
)

// BuildConfig controls how a scenario becomes a running world.
type BuildConfig struct {
	Engine       engine.Config
	KeyHoldTicks int                 // ticks a pressed move keeps going
	Source       engine.ActionSource // when set, drives every actor (replays)
	WorldOptions []engine.Option
}

// Session is a built scenario: the world plus handles to its keyboard drivers.
type Session struct {
	Scenario  Scenario
	World     *engine.World
	Keyboards map[engine.ActorID]*driver.Keyboard
	Player    engine.ActorID // first keyboard-driven actor, or engine.NoActor
}

// Build validates the scenario and creates its world.
func Build(s Scenario, bc BuildConfig) (*Session, error) {
	if err := Validate(s, bc.Engine); err != nil {
		return nil, err
	}

	tiles, err := terrain(s, bc.Engine)
	if err != nil {
		return nil, err
	}
	world, err := engine.NewWorld(bc.Engine, tiles, bc.WorldOptions...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.ID, err)
	}

	sess := &Session{
		Scenario:  s,
		World:     world,
		Keyboards: make(map[engine.ActorID]*driver.Keyboard),
		Player:    engine.NoActor,
	}

	for i, a := range s.Actors {
		id, err := world.AddActor(a.Spec)
		if err != nil {
			return nil, fmt.Errorf("scenario %s actor %d: %w", s.ID, i, err)
		}

		var src engine.ActionSource
		switch {
		case bc.Source != nil:
			src = bc.Source
		case a.Driver == driver.NameKeyboard:
			kb := driver.NewKeyboard(bc.KeyHoldTicks)
			sess.Keyboards[id] = kb
			if sess.Player == engine.NoActor {
				sess.Player = id
			}
			src = kb
		default:
			src, err = driver.New(a.Driver, a.Script, a.Loop)
			if err != nil {
				return nil, fmt.Errorf("scenario %s actor %d: %w", s.ID, i, err)
			}
		}
		if err := world.SetSource(id, src); err != nil {
			return nil, err
		}
	}

	return sess, nil
}
