package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkCycle(t *testing.T) {
	w := NewWalkCycle(3)
	assert.Equal(t, FrameFirst, w.Frame)

	assert.False(t, w.Advance())
	assert.False(t, w.Advance())
	assert.Equal(t, FrameFirst, w.Frame)
	assert.True(t, w.Advance())
	assert.Equal(t, FrameSecond, w.Frame)
	assert.Equal(t, 0, w.Counter())

	for i := 0; i < 3; i++ {
		w.Advance()
	}
	assert.Equal(t, FrameFirst, w.Frame)
}

func TestEffectLifecycle(t *testing.T) {
	e := NewEffect(EffectExplosion, 10, 20, 3, 3)

	var frames []int
	ticks := 0
	for !e.Finished() {
		frames = append(frames, e.Frame())
		e.Step()
		ticks++
		if ticks > 100 {
			t.Fatal("effect never finished")
		}
	}

	assert.Equal(t, 9, ticks, "3 frames of 3 ticks each")
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2, 2, 2}, frames)

	e.Step()
	assert.Equal(t, 3, e.Frame(), "finished effects do not restart")
	assert.True(t, e.Finished())
}
