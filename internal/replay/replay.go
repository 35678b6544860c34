// Package replay records the actions of a session and re-simulates them.
// A recording stores inputs only: the starting scenario, the engine config
// and one action per actor per tick. Replaying them must land on the same
// world digest.
package replay

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/tui-tanks/internal/driver"
	"github.com/vovakirdan/tui-tanks/internal/engine"
	"github.com/vovakirdan/tui-tanks/internal/scenario"
)

// ErrCorrupt is returned when a recording's frames do not match its actor count.
var ErrCorrupt = errors.New("replay: corrupt recording")

// Recording is a session's inputs plus the digest it ended on.
type Recording struct {
	ID          string        `msgpack:"id"`
	Scenario    string        `msgpack:"scenario"`
	Setup       Setup         `msgpack:"setup"`
	Seed        int64         `msgpack:"seed"`
	TickRate    int           `msgpack:"tick_rate"`
	Engine      engine.Config `msgpack:"engine"`
	Actors      int           `msgpack:"actors"`
	Frames      []byte        `msgpack:"frames"` // Actors bytes per tick
	Ticks       uint64        `msgpack:"ticks"`
	FinalDigest uint64        `msgpack:"final_digest"`
	CreatedAt   time.Time     `msgpack:"created_at"`
}

// New starts an empty recording of a scenario.
func New(s scenario.Scenario, cfg engine.Config, tickRate int, seed int64) *Recording {
	return &Recording{
		ID:        uuid.NewString(),
		Scenario:  s.ID,
		Setup:     NewSetup(s),
		Seed:      seed,
		TickRate:  tickRate,
		Engine:    cfg,
		Actors:    len(s.Actors),
		CreatedAt: time.Now().UTC(),
	}
}

// ScenarioData returns the scenario the recording was made on.
func (r *Recording) ScenarioData() scenario.Scenario {
	return r.Setup.Scenario(r.Scenario)
}

// Record appends one tick of actions. It implements engine.ActionLog.
func (r *Recording) Record(tick uint64, actions []engine.Action) {
	for i := 0; i < r.Actors; i++ {
		a := engine.ActionNothing
		if i < len(actions) {
			a = actions[i]
		}
		r.Frames = append(r.Frames, byte(a))
	}
	r.Ticks = tick
}

// Finish stamps the final digest of the recorded world.
func (r *Recording) Finish(w *engine.World) {
	r.Ticks = w.TickCount()
	r.FinalDigest = w.Digest()
}

// Actions expands the frames into per-tick action rows.
func (r *Recording) Actions() ([][]engine.Action, error) {
	if r.Actors <= 0 {
		if len(r.Frames) != 0 {
			return nil, ErrCorrupt
		}
		return nil, nil
	}
	if len(r.Frames)%r.Actors != 0 {
		return nil, fmt.Errorf("%w: %d frame bytes for %d actors", ErrCorrupt, len(r.Frames), r.Actors)
	}

	rows := make([][]engine.Action, len(r.Frames)/r.Actors)
	for t := range rows {
		row := make([]engine.Action, r.Actors)
		for i := range row {
			row[i] = engine.Action(r.Frames[t*r.Actors+i])
		}
		rows[t] = row
	}
	return rows, nil
}

// Encode serializes a recording with msgpack.
func Encode(r *Recording) ([]byte, error) {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("replay: encode: %w", err)
	}
	return data, nil
}

// Decode parses a msgpack recording.
func Decode(data []byte) (*Recording, error) {
	var r Recording
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if _, err := r.Actions(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Start builds a scenario for live play with a recording attached as its
// action log.
func Start(s scenario.Scenario, bc scenario.BuildConfig, tickRate int, seed int64) (*scenario.Session, *Recording, error) {
	rec := New(s, bc.Engine, tickRate, seed)
	bc.WorldOptions = append(append([]engine.Option(nil), bc.WorldOptions...), engine.WithActionLog(rec))
	sess, err := scenario.Build(s, bc)
	if err != nil {
		return nil, nil, err
	}
	return sess, rec, nil
}

// Result is the outcome of re-simulating a recording.
type Result struct {
	Ticks   uint64
	Digest  uint64
	Match   bool
	Session *scenario.Session
}

// Session rebuilds the recorded scenario with every actor driven by the
// recording.
func Session(r *Recording) (*scenario.Session, error) {
	s := r.ScenarioData()
	if len(s.Actors) != r.Actors {
		return nil, fmt.Errorf("%w: scenario %s has %d actors, recording has %d", ErrCorrupt, s.ID, len(s.Actors), r.Actors)
	}
	rows, err := r.Actions()
	if err != nil {
		return nil, err
	}
	return scenario.Build(s, scenario.BuildConfig{
		Engine:       r.Engine,
		KeyHoldTicks: 1,
		Source:       driver.NewReplay(rows),
	})
}

// Run re-simulates a recording headlessly and compares the final digest.
func Run(r *Recording) (Result, error) {
	sess, err := Session(r)
	if err != nil {
		return Result{}, err
	}
	for sess.World.TickCount() < r.Ticks {
		if _, err := sess.World.Tick(); err != nil {
			return Result{}, fmt.Errorf("replay: %w", err)
		}
	}

	digest := sess.World.Digest()
	return Result{
		Ticks:   sess.World.TickCount(),
		Digest:  digest,
		Match:   digest == r.FinalDigest,
		Session: sess,
	}, nil
}
