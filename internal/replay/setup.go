package replay

import (
	"github.com/vovakirdan/tui-tanks/internal/engine"
	"github.com/vovakirdan/tui-tanks/internal/scenario"
)

// Setup is the scenario a recording was made on: its terrain and actors.
// Recordings carry it so they replay without the original file or registry.
type Setup struct {
	Name        string       `msgpack:"name"`
	Description string       `msgpack:"description,omitempty"`
	Blocks      []SetupBlock `msgpack:"blocks"`
	Actors      []SetupActor `msgpack:"actors"`
	FilePath    string       `msgpack:"file_path,omitempty"`
}

// SetupBlock is one parent block of starting terrain.
type SetupBlock struct {
	X        int   `msgpack:"x"`
	Y        int   `msgpack:"y"`
	Material uint8 `msgpack:"material"`
}

// SetupActor is one starting tank and the driver it was recorded with.
type SetupActor struct {
	Kind   uint8  `msgpack:"kind"`
	X      int    `msgpack:"x"`
	Y      int    `msgpack:"y"`
	Dir    uint8  `msgpack:"dir"`
	Driver string `msgpack:"driver"`
	Script []byte `msgpack:"script,omitempty"`
	Loop   bool   `msgpack:"loop,omitempty"`
}

// NewSetup captures a parsed scenario.
func NewSetup(s scenario.Scenario) Setup {
	setup := Setup{
		Name:        s.Name,
		Description: s.Description,
		Blocks:      make([]SetupBlock, len(s.Blocks)),
		Actors:      make([]SetupActor, len(s.Actors)),
		FilePath:    s.FilePath,
	}
	for i, b := range s.Blocks {
		setup.Blocks[i] = SetupBlock{X: b.X, Y: b.Y, Material: uint8(b.Material)}
	}
	for i, a := range s.Actors {
		script := make([]byte, len(a.Script))
		for j, act := range a.Script {
			script[j] = byte(act)
		}
		setup.Actors[i] = SetupActor{
			Kind:   uint8(a.Spec.Kind),
			X:      a.Spec.X,
			Y:      a.Spec.Y,
			Dir:    uint8(a.Spec.Dir),
			Driver: a.Driver,
			Script: script,
			Loop:   a.Loop,
		}
	}
	return setup
}

// Scenario rebuilds the parsed scenario under the given ID.
func (s Setup) Scenario(id string) scenario.Scenario {
	out := scenario.Scenario{
		ID:          id,
		Name:        s.Name,
		Description: s.Description,
		Blocks:      make([]scenario.Block, len(s.Blocks)),
		Actors:      make([]scenario.Actor, len(s.Actors)),
		FilePath:    s.FilePath,
	}
	for i, b := range s.Blocks {
		out.Blocks[i] = scenario.Block{X: b.X, Y: b.Y, Material: engine.Material(b.Material)}
	}
	for i, a := range s.Actors {
		var script []engine.Action
		for _, b := range a.Script {
			script = append(script, engine.Action(b))
		}
		out.Actors[i] = scenario.Actor{
			Spec: engine.ActorSpec{
				Kind: engine.Kind(a.Kind),
				X:    a.X,
				Y:    a.Y,
				Dir:  engine.Dir(a.Dir),
			},
			Driver: a.Driver,
			Script: script,
			Loop:   a.Loop,
		}
	}
	return out
}
