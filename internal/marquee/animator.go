package marquee

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Animator drives an Engine from a FrameScheduler. Exactly one frame is
// pending while running; each frame ticks the engine, re-schedules itself and
// then hands the Frame to the OnFrame callback.
//
// Every method is safe to call from any goroutine. OnFrame must not call Stop.
type Animator struct {
	mu      sync.Mutex
	emitMu  sync.Mutex
	eng     *Engine
	sched   FrameScheduler
	onFrame func(Frame)
	log     *zap.Logger

	running bool
	gen     uint64
	cancel  func()
}

// AnimatorOption customizes an Animator.
type AnimatorOption func(*Animator)

// WithLogger routes lifecycle logs to l.
func WithLogger(l *zap.Logger) AnimatorOption {
	return func(a *Animator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithScheduler replaces the default TickerScheduler.
func WithScheduler(s FrameScheduler) AnimatorOption {
	return func(a *Animator) {
		if s != nil {
			a.sched = s
		}
	}
}

// NewAnimator creates a stopped animator for cfg. onFrame may be nil.
func NewAnimator(cfg Config, onFrame func(Frame), opts ...AnimatorOption) *Animator {
	a := &Animator{
		eng:     NewEngine(cfg),
		sched:   NewTickerScheduler(FrameInterval),
		onFrame: onFrame,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Start schedules the first frame. Calling Start on a running animator is a
// no-op.
func (a *Animator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.running = true
	a.gen++
	a.eng.ResetClock()
	a.schedule(a.gen)
	a.log.Debug("marquee loop started", zap.Uint64("gen", a.gen))
}

// Stop cancels the pending frame and waits for an in-flight OnFrame to
// return. After Stop returns no frame runs. Stop is idempotent.
func (a *Animator) Stop() {
	a.mu.Lock()
	wasRunning := a.running
	a.running = false
	a.gen++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()

	a.emitMu.Lock()
	// wait for an in-flight OnFrame
	a.emitMu.Unlock()

	if wasRunning {
		a.log.Debug("marquee loop stopped")
	}
}

// Running reports whether frames are being scheduled.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// schedule must be called with mu held.
func (a *Animator) schedule(gen uint64) {
	a.cancel = a.sched.RequestFrame(func(now time.Time) { a.frame(gen, now) })
}

func (a *Animator) frame(gen uint64, now time.Time) {
	a.emitMu.Lock()
	defer a.emitMu.Unlock()

	a.mu.Lock()
	if !a.running || gen != a.gen {
		a.mu.Unlock()
		return
	}
	f := a.eng.Tick(now)
	a.schedule(gen)
	cb := a.onFrame
	a.mu.Unlock()

	if cb != nil {
		cb(f)
	}
}

// Measure forwards new dimensions to the engine. See Engine.Measure.
func (a *Animator) Measure(containerWidth, sequenceWidth float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	ok := a.eng.Measure(containerWidth, sequenceWidth)
	if ok {
		a.log.Debug("marquee measured",
			zap.Float64("container", containerWidth),
			zap.Float64("sequence", a.eng.SequenceWidth()),
			zap.Int("copies", a.eng.CopyCount()))
	}
	return ok
}

// SetHovered records pointer presence over the track.
func (a *Animator) SetHovered(on bool) {
	a.mu.Lock()
	a.eng.SetHovered(on)
	a.mu.Unlock()
}

// SetPaused sets the externally forced pause flag.
func (a *Animator) SetPaused(on bool) {
	a.mu.Lock()
	a.eng.SetPaused(on)
	a.mu.Unlock()
}

// Reconfigure swaps the configuration without resetting scroll state.
func (a *Animator) Reconfigure(cfg Config) {
	a.mu.Lock()
	a.eng.Reconfigure(cfg)
	a.mu.Unlock()
}

// Config returns the engine configuration.
func (a *Animator) Config() Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eng.Config()
}

// Frame returns the latest engine state without advancing it.
func (a *Animator) Frame() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eng.Frame()
}
