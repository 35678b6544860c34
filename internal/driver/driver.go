// Package driver provides the action sources that steer tanks: idle and
// scripted drivers for scenarios, a keyboard driver fed by the terminal UI
// and a replay driver fed by a recording.
package driver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-tanks/internal/engine"
)

// Driver names accepted in scenario files.
const (
	NameIdle     = "idle"
	NameDummy    = "dummy"
	NameScript   = "script"
	NameKeyboard = "keyboard"
)

// Names lists every driver name, sorted.
func Names() []string {
	return []string{NameDummy, NameIdle, NameKeyboard, NameScript}
}

// Known reports whether name is a driver name.
func Known(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Idle never acts.
type Idle struct{}

// Action returns ActionNothing.
func (Idle) Action(engine.View, engine.ActorID) engine.Action { return engine.ActionNothing }

// Dummy drives straight up forever.
type Dummy struct{}

// Action returns ActionMoveUp.
func (Dummy) Action(engine.View, engine.ActorID) engine.Action { return engine.ActionMoveUp }

// Script plays a fixed action list, one per tick. When the list runs out it
// either starts over or idles.
type Script struct {
	actions []engine.Action
	loop    bool
	pos     int
}

// NewScript creates a script driver.
func NewScript(actions []engine.Action, loop bool) *Script {
	return &Script{actions: actions, loop: loop}
}

// Action returns the next scripted action.
func (s *Script) Action(engine.View, engine.ActorID) engine.Action {
	if s.pos >= len(s.actions) {
		if !s.loop || len(s.actions) == 0 {
			return engine.ActionNothing
		}
		s.pos = 0
	}
	a := s.actions[s.pos]
	s.pos++
	return a
}

// Done reports whether a non-looping script has played every action.
func (s *Script) Done() bool {
	return !s.loop && s.pos >= len(s.actions)
}

// ParseScript parses whitespace or comma separated action tokens.
// A token may carry a repeat count: "up*8" is eight MoveUp actions.
func ParseScript(src string) ([]engine.Action, error) {
	fields := strings.FieldsFunc(src, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	var actions []engine.Action
	for _, field := range fields {
		token, count := field, 1
		if name, rep, ok := strings.Cut(field, "*"); ok {
			n, err := strconv.Atoi(rep)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("script token %q: bad repeat count", field)
			}
			token, count = name, n
		}
		a, err := engine.ParseAction(token)
		if err != nil {
			return nil, fmt.Errorf("script token %q: %w", field, err)
		}
		for i := 0; i < count; i++ {
			actions = append(actions, a)
		}
	}
	return actions, nil
}

// Keyboard turns discrete key presses into per-tick actions.
// Terminals report presses but not releases, so a move keeps going for
// holdTicks after its last press. Shots are queued and fire one per tick,
// taking priority over the held move.
type Keyboard struct {
	holdTicks int
	queue     []engine.Action
	held      engine.Action
	remaining int
}

// NewKeyboard creates a keyboard driver.
func NewKeyboard(holdTicks int) *Keyboard {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &Keyboard{holdTicks: holdTicks}
}

// Press registers a key intent.
func (k *Keyboard) Press(a engine.Action) {
	switch {
	case a == engine.ActionShoot:
		k.queue = append(k.queue, a)
	case a == engine.ActionNothing:
		k.Release()
	default:
		k.held = a
		k.remaining = k.holdTicks
	}
}

// Release stops the held move and drops queued shots.
func (k *Keyboard) Release() {
	k.held = engine.ActionNothing
	k.remaining = 0
	k.queue = k.queue[:0]
}

// Action returns the next pending intent.
func (k *Keyboard) Action(engine.View, engine.ActorID) engine.Action {
	if len(k.queue) > 0 {
		a := k.queue[0]
		k.queue = k.queue[1:]
		return a
	}
	if k.remaining > 0 {
		k.remaining--
		return k.held
	}
	return engine.ActionNothing
}

// Replay feeds recorded actions back, indexed by tick and actor.
type Replay struct {
	actions [][]engine.Action
}

// NewReplay creates a replay driver over per-tick action rows.
func NewReplay(actions [][]engine.Action) *Replay {
	return &Replay{actions: actions}
}

// Action returns the recorded action for the coming tick.
// Past the end of the recording every actor idles.
func (r *Replay) Action(view engine.View, id engine.ActorID) engine.Action {
	if view.Tick >= uint64(len(r.actions)) {
		return engine.ActionNothing
	}
	row := r.actions[view.Tick]
	if id < 0 || int(id) >= len(row) {
		return engine.ActionNothing
	}
	return row[id]
}

// Len returns the number of recorded ticks.
func (r *Replay) Len() int {
	return len(r.actions)
}

// New creates a scripted or built-in driver by name. Keyboard drivers are
// created with NewKeyboard because the caller needs the handle.
func New(name string, script []engine.Action, loop bool) (engine.ActionSource, error) {
	switch name {
	case NameIdle, "":
		return Idle{}, nil
	case NameDummy:
		return Dummy{}, nil
	case NameScript:
		return NewScript(script, loop), nil
	default:
		return nil, fmt.Errorf("driver: cannot create %q", name)
	}
}
