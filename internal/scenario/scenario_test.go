package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/driver"
	"github.com/vovakirdan/tui-tanks/internal/engine"
)

const sample = `
id: sample
name: Sample
layout:
  - "...."
  - ".#@."
blocks:
  - {x: 10, y: 10}
  - {x: 11, y: 10, material: concrete}
actors:
  - x: 64
    y: 64
    driver: keyboard
  - kind: quick
    x: 128
    y: 128
    dir: left
    driver: script
    script: "left*2 shoot"
    loop: true
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "sample", s.ID)
	assert.Equal(t, "Sample", s.Name)
	assert.Equal(t, []Block{
		{X: 1, Y: 1, Material: engine.MaterialBrick},
		{X: 2, Y: 1, Material: engine.MaterialConcrete},
		{X: 10, Y: 10, Material: engine.MaterialBrick},
		{X: 11, Y: 10, Material: engine.MaterialConcrete},
	}, s.Blocks)

	require.Len(t, s.Actors, 2)
	assert.Equal(t, engine.ActorSpec{Kind: engine.KindPlayerTank, X: 64, Y: 64, Dir: engine.DirUp}, s.Actors[0].Spec)
	assert.Equal(t, driver.NameKeyboard, s.Actors[0].Driver)
	assert.Equal(t, engine.ActorSpec{Kind: engine.KindQuickTank, X: 128, Y: 128, Dir: engine.DirLeft}, s.Actors[1].Spec)
	assert.Equal(t, []engine.Action{engine.ActionMoveLeft, engine.ActionMoveLeft, engine.ActionShoot}, s.Actors[1].Script)
	assert.True(t, s.Actors[1].Loop)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"bad layout rune", "id: x\nlayout: [\"..x\"]\nactors: []", "BAD_LAYOUT"},
		{"bad material", "id: x\nblocks: [{x: 1, y: 1, material: glass}]", "BAD_BLOCK"},
		{"bad kind", "id: x\nactors: [{kind: plane, x: 0, y: 0}]", "BAD_ACTOR"},
		{"bad dir", "id: x\nactors: [{dir: north, x: 0, y: 0}]", "BAD_ACTOR"},
		{"bad script", "id: x\nactors: [{driver: script, script: jump, x: 0, y: 0}]", "BAD_ACTOR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			var ve ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.code, ve.Code)
		})
	}

	_, err := Parse([]byte("id: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := engine.DefaultConfig()
	base := func() Scenario {
		return Scenario{
			ID:     "v",
			Blocks: []Block{{X: 5, Y: 5, Material: engine.MaterialBrick}},
			Actors: []Actor{{Spec: engine.ActorSpec{Kind: engine.KindPlayerTank, X: 0, Y: 0}, Driver: driver.NameIdle}},
		}
	}

	require.NoError(t, Validate(base(), cfg))

	tests := []struct {
		name   string
		mutate func(*Scenario)
		code   string
	}{
		{"missing id", func(s *Scenario) { s.ID = "" }, "MISSING_ID"},
		{"no actors", func(s *Scenario) { s.Actors = nil }, "NO_ACTORS"},
		{"block off board", func(s *Scenario) { s.Blocks[0].X = 26 }, "BLOCK_OUT_OF_BOUNDS"},
		{"actor off board", func(s *Scenario) { s.Actors[0].Spec.X = 193 }, "ACTOR_OUT_OF_BOUNDS"},
		{"actor negative", func(s *Scenario) { s.Actors[0].Spec.Y = -1 }, "ACTOR_OUT_OF_BOUNDS"},
		{"actor on brick", func(s *Scenario) { s.Actors[0].Spec.X, s.Actors[0].Spec.Y = 32, 32 }, "ACTOR_ON_TERRAIN"},
		{"projectile actor", func(s *Scenario) { s.Actors[0].Spec.Kind = engine.KindProjectile }, "BAD_KIND"},
		{"unknown driver", func(s *Scenario) { s.Actors[0].Driver = "ai" }, "UNKNOWN_DRIVER"},
		{"empty script", func(s *Scenario) { s.Actors[0].Driver = driver.NameScript }, "EMPTY_SCRIPT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base()
			tc.mutate(&s)
			var ve ValidationError
			err := Validate(s, cfg)
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.code, ve.Code)
		})
	}
}

func TestBuild(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	sess, err := Build(s, BuildConfig{Engine: engine.DefaultConfig(), KeyHoldTicks: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, sess.World.ActorCount())
	assert.Equal(t, engine.ActorID(0), sess.Player)
	require.Contains(t, sess.Keyboards, engine.ActorID(0))

	sess.Keyboards[0].Press(engine.ActionMoveRight)
	res, err := sess.World.Tick()
	require.NoError(t, err)
	assert.Equal(t, 65, res.Actors[0].X)
	assert.Equal(t, engine.DirRight, res.Actors[0].Dir)
	assert.Equal(t, 126, res.Actors[1].X, "quick tank follows its script")

	// 4 layout and explicit blocks, 4 sub-tiles each.
	filled := 0
	terrain := sess.World.Terrain()
	for row := 0; row < terrain.Size(); row++ {
		for col := 0; col < terrain.Size(); col++ {
			c, err := terrain.Get(col, row)
			require.NoError(t, err)
			if !c.Empty() {
				filled++
			}
		}
	}
	assert.Equal(t, 16, filled)
}

func TestBuildWithSourceOverride(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	sess, err := Build(s, BuildConfig{Engine: engine.DefaultConfig(), Source: driver.Dummy{}})
	require.NoError(t, err)
	assert.Empty(t, sess.Keyboards)
	assert.Equal(t, engine.NoActor, sess.Player)

	res, err := sess.World.Tick()
	require.NoError(t, err)
	assert.Equal(t, 63, res.Actors[0].Y)
	assert.Equal(t, engine.DirUp, res.Actors[1].Dir)
}

func TestBuildRejectsInvalid(t *testing.T) {
	s := Scenario{ID: "empty"}
	_, err := Build(s, BuildConfig{Engine: engine.DefaultConfig()})
	var ve ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte("actors:\n  - {x: 0, y: 0}\n"), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "arena", s.ID, "id defaults to the file name")
	assert.Equal(t, "arena", s.Name)
	assert.Equal(t, path, s.FilePath)
	assert.NoError(t, Validate(s, engine.DefaultConfig()))

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
