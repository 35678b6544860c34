// Package scenario loads tank scenarios: the starting terrain and the
// actors with their drivers. Scenarios are YAML files whose terrain is an
// ASCII layout of 8 px blocks plus an optional explicit block list.
package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tanks/internal/driver"
	"github.com/vovakirdan/tui-tanks/internal/engine"
)

// Layout characters.
const (
	LayoutEmpty    = '.'
	LayoutBrick    = '#'
	LayoutConcrete = '@'
)

// File is the YAML structure of a scenario file.
type File struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Layout      []string   `yaml:"layout,omitempty"`
	Blocks      []BlockDef `yaml:"blocks,omitempty"`
	Actors      []ActorDef `yaml:"actors"`
}

// BlockDef places one parent block at coarse coordinates.
type BlockDef struct {
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Material string `yaml:"material,omitempty"` // brick (default) or concrete
}

// ActorDef describes a tank and its driver.
type ActorDef struct {
	Kind   string `yaml:"kind,omitempty"` // player (default) or quick
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Dir    string `yaml:"dir,omitempty"`    // up (default), left, down, right
	Driver string `yaml:"driver,omitempty"` // idle (default), dummy, script, keyboard
	Script string `yaml:"script,omitempty"`
	Loop   bool   `yaml:"loop,omitempty"`
}

// Block is a parsed terrain block.
type Block struct {
	X, Y     int
	Material engine.Material
}

// Actor is a parsed actor definition.
type Actor struct {
	Spec   engine.ActorSpec
	Driver string
	Script []engine.Action
	Loop   bool
}

// Scenario is a parsed scenario ready to build.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Blocks      []Block
	Actors      []Actor
	FilePath    string
}

// ValidationError contains details about a scenario problem.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Parse decodes a YAML scenario.
func Parse(data []byte) (Scenario, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Scenario{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	s := Scenario{ID: f.ID, Name: f.Name, Description: f.Description}
	if s.Name == "" {
		s.Name = s.ID
	}

	for y, row := range f.Layout {
		for x, ch := range []rune(row) {
			switch ch {
			case LayoutEmpty, ' ':
			case LayoutBrick:
				s.Blocks = append(s.Blocks, Block{X: x, Y: y, Material: engine.MaterialBrick})
			case LayoutConcrete:
				s.Blocks = append(s.Blocks, Block{X: x, Y: y, Material: engine.MaterialConcrete})
			default:
				return Scenario{}, invalid("BAD_LAYOUT", "layout row %d col %d: unknown cell %q", y, x, ch)
			}
		}
	}

	for i, b := range f.Blocks {
		mat, err := parseMaterial(b.Material)
		if err != nil {
			return Scenario{}, invalid("BAD_BLOCK", "block %d: %v", i, err)
		}
		s.Blocks = append(s.Blocks, Block{X: b.X, Y: b.Y, Material: mat})
	}

	for i, a := range f.Actors {
		actor, err := parseActor(a)
		if err != nil {
			return Scenario{}, invalid("BAD_ACTOR", "actor %d: %v", i, err)
		}
		s.Actors = append(s.Actors, actor)
	}

	return s, nil
}

func parseMaterial(s string) (engine.Material, error) {
	switch s {
	case "", "brick":
		return engine.MaterialBrick, nil
	case "concrete":
		return engine.MaterialConcrete, nil
	default:
		return 0, fmt.Errorf("unknown material %q", s)
	}
}

func parseActor(a ActorDef) (Actor, error) {
	kind := engine.KindPlayerTank
	if a.Kind != "" {
		k, err := engine.ParseKind(a.Kind)
		if err != nil {
			return Actor{}, err
		}
		kind = k
	}

	dir := engine.DirUp
	if a.Dir != "" {
		d, err := engine.ParseDir(a.Dir)
		if err != nil {
			return Actor{}, err
		}
		dir = d
	}

	name := a.Driver
	if name == "" {
		name = driver.NameIdle
	}

	script, err := driver.ParseScript(a.Script)
	if err != nil {
		return Actor{}, err
	}

	return Actor{
		Spec:   engine.ActorSpec{Kind: kind, X: a.X, Y: a.Y, Dir: dir},
		Driver: name,
		Script: script,
		Loop:   a.Loop,
	}, nil
}

// LoadFile reads and parses a scenario file.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading file %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	if s.ID == "" {
		s.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if s.Name == "" {
			s.Name = s.ID
		}
	}
	s.FilePath = path
	return s, nil
}

// Validate checks a scenario against the board geometry.
// Checks:
//   - the scenario has an ID and at least one actor
//   - every block lies on the board
//   - every actor is a tank, lies on the board and clear of terrain
//   - every driver is known and scripted drivers have a script
func Validate(s Scenario, cfg engine.Config) error {
	if s.ID == "" {
		return invalid("MISSING_ID", "scenario has no id")
	}
	if len(s.Actors) == 0 {
		return invalid("NO_ACTORS", "scenario %s has no actors", s.ID)
	}

	tiles, err := terrain(s, cfg)
	if err != nil {
		return err
	}

	board := cfg.BoardSize()
	for i, a := range s.Actors {
		if !a.Spec.Kind.IsTank() {
			return invalid("BAD_KIND", "actor %d: kind %s cannot be placed", i, a.Spec.Kind)
		}
		body := engine.CollisionRect(a.Spec.Kind, a.Spec.Dir).Translate(a.Spec.X, a.Spec.Y)
		if body.X < 0 || body.Y < 0 || body.Right() > board || body.Bottom() > board {
			return invalid("ACTOR_OUT_OF_BOUNDS", "actor %d at %v leaves the %dpx board", i, body, board)
		}
		free, err := tiles.RegionIsClear(body)
		if err != nil {
			return invalid("ACTOR_OUT_OF_BOUNDS", "actor %d: %v", i, err)
		}
		if !free {
			return invalid("ACTOR_ON_TERRAIN", "actor %d at %v overlaps terrain", i, body)
		}
		if !driver.Known(a.Driver) {
			return invalid("UNKNOWN_DRIVER", "actor %d: unknown driver %q (known: %s)",
				i, a.Driver, strings.Join(driver.Names(), ", "))
		}
		if a.Driver == driver.NameScript && len(a.Script) == 0 {
			return invalid("EMPTY_SCRIPT", "actor %d: script driver without actions", i)
		}
	}
	return nil
}

// terrain builds the starting tile map.
func terrain(s Scenario, cfg engine.Config) (*engine.TileMap, error) {
	tiles := engine.NewTileMap(cfg.MapSize())
	for _, b := range s.Blocks {
		if err := tiles.PlaceBlock(b.X, b.Y, b.Material); err != nil {
			return nil, invalid("BLOCK_OUT_OF_BOUNDS", "%s block at (%d,%d): %v", b.Material, b.X, b.Y, err)
		}
	}
	return tiles, nil
}
