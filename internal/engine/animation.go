package engine

// WalkFrame is one of the two tank tread frames.
type WalkFrame uint8

const (
	FrameFirst WalkFrame = iota
	FrameSecond
)

// String returns the string representation of a walk frame.
func (f WalkFrame) String() string {
	if f == FrameSecond {
		return "second"
	}
	return "first"
}

// WalkCycle alternates between two frames every period move attempts.
type WalkCycle struct {
	Frame   WalkFrame
	counter int
	period  int
}

// NewWalkCycle returns a cycle starting at FrameFirst.
func NewWalkCycle(period int) WalkCycle {
	if period < 1 {
		period = 1
	}
	return WalkCycle{period: period}
}

// Advance counts one move attempt and reports whether the frame toggled.
func (w *WalkCycle) Advance() bool {
	w.counter++
	if w.counter < w.period {
		return false
	}
	w.counter = 0
	if w.Frame == FrameFirst {
		w.Frame = FrameSecond
	} else {
		w.Frame = FrameFirst
	}
	return true
}

// Counter returns the number of attempts since the last toggle.
func (w WalkCycle) Counter() int {
	return w.counter
}

// EffectKind identifies a visual effect.
type EffectKind uint8

const (
	EffectExplosion EffectKind = iota
)

// String returns the string representation of an effect kind.
func (k EffectKind) String() string {
	if k == EffectExplosion {
		return "explosion"
	}
	return "unknown"
}

// Effect is a finite frame sequence advancing one frame every delay ticks.
// It cannot be restarted. The owner removes it once Finished reports true.
type Effect struct {
	Kind EffectKind
	X, Y int // pixel position of the impact

	frames  int
	delay   int
	frame   int
	elapsed int
}

// NewEffect creates an effect at frame 0.
func NewEffect(kind EffectKind, x, y, frames, delay int) *Effect {
	if delay < 1 {
		delay = 1
	}
	return &Effect{Kind: kind, X: x, Y: y, frames: frames, delay: delay}
}

// Step advances the effect by one tick.
func (e *Effect) Step() {
	if e.Finished() {
		return
	}
	e.elapsed++
	if e.elapsed >= e.delay {
		e.elapsed = 0
		e.frame++
	}
}

// Frame returns the current frame index.
func (e *Effect) Frame() int {
	return e.frame
}

// Finished reports whether the frame index has run past the sequence.
func (e *Effect) Finished() bool {
	return e.frame >= e.frames
}
