package marquee

import (
	"math"
	"time"
)

// Frame is the engine state after a tick, as needed by a renderer.
type Frame struct {
	Offset        float64
	Velocity      float64
	TranslateX    float64
	CopyCount     int
	SequenceWidth float64
	Held          bool
}

// Engine holds the scroll state of a single loop. It is not safe for
// concurrent use; Animator serializes access for hosts with several goroutines.
type Engine struct {
	cfg Config

	offset   float64
	velocity float64

	seqWidth       float64
	containerWidth float64
	copies         int

	hovered bool

	last    time.Time
	hasLast bool
}

// NewEngine returns an engine at rest with offset 0 and MinCopies copies.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.Normalize(), copies: MinCopies}
}

// Config returns the normalized configuration in use.
func (e *Engine) Config() Config { return e.cfg }

// Reconfigure swaps the configuration while keeping offset and velocity, so
// a speed or direction change eases rather than jumps.
func (e *Engine) Reconfigure(cfg Config) {
	e.cfg = cfg.Normalize()
}

// SetHovered records whether the pointer is over the track.
func (e *Engine) SetHovered(on bool) { e.hovered = on }

// SetPaused sets the externally forced pause flag.
func (e *Engine) SetPaused(on bool) { e.cfg.Paused = on }

// Measure stores new dimensions. A zero sequence width is the transient
// not-ready state: previous values are kept and false is returned. The
// offset is never touched; the next tick wraps with the new width.
func (e *Engine) Measure(containerWidth, sequenceWidth float64) bool {
	n, ok := CopyCount(containerWidth, sequenceWidth)
	if !ok {
		return false
	}
	e.containerWidth = containerWidth
	e.seqWidth = math.Ceil(sequenceWidth)
	e.copies = n
	return true
}

// Held reports whether the target velocity is currently zero.
func (e *Engine) Held() bool {
	return (e.cfg.PauseOnHover && e.hovered) || e.cfg.Paused
}

// TargetVelocity is the velocity the integrator eases towards.
func (e *Engine) TargetVelocity() float64 {
	if e.Held() {
		return 0
	}
	return e.cfg.Velocity()
}

// Tick advances the engine to now. The first tick after construction or
// Reset only records the timestamp.
func (e *Engine) Tick(now time.Time) Frame {
	var dt time.Duration
	if e.hasLast {
		dt = now.Sub(e.last)
	}
	e.last = now
	e.hasLast = true
	return e.Advance(dt)
}

// Advance integrates velocity and offset over dt. Negative dt counts as zero
// and dt is capped at MaxFrameDelta.
func (e *Engine) Advance(dt time.Duration) Frame {
	if dt < 0 {
		dt = 0
	}
	if dt > e.cfg.MaxFrameDelta {
		dt = e.cfg.MaxFrameDelta
	}
	sec := dt.Seconds()

	target := e.TargetVelocity()
	easing := 1 - math.Exp(-sec/SmoothTau)
	e.velocity += (target - e.velocity) * easing

	if e.seqWidth > 0 {
		e.offset = Wrap(e.offset+e.velocity*sec, e.seqWidth)
	}
	return e.Frame()
}

// Frame returns the current state without advancing.
func (e *Engine) Frame() Frame {
	return Frame{
		Offset:        e.offset,
		Velocity:      e.velocity,
		TranslateX:    -e.offset,
		CopyCount:     e.copies,
		SequenceWidth: e.seqWidth,
		Held:          e.Held(),
	}
}

// Offset returns the wrapped scroll offset.
func (e *Engine) Offset() float64 { return e.offset }

// Velocity returns the current smoothed velocity in px/s.
func (e *Engine) Velocity() float64 { return e.velocity }

// CopyCount returns the number of sequences the track should render.
func (e *Engine) CopyCount() int { return e.copies }

// SequenceWidth returns the last valid sequence width, or 0 before the
// first successful measurement.
func (e *Engine) SequenceWidth() float64 { return e.seqWidth }

// ContainerWidth returns the last container width stored by Measure.
func (e *Engine) ContainerWidth() float64 { return e.containerWidth }

// ResetClock forgets the last timestamp so the next Tick has dt=0. Used when
// a loop is restarted after a stop.
func (e *Engine) ResetClock() {
	e.hasLast = false
	e.last = time.Time{}
}

// Reset returns the scroll state to its mount values.
func (e *Engine) Reset() {
	e.offset = 0
	e.velocity = 0
	e.ResetClock()
}
