package marquee

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(speed float64, dir Direction, pauseOnHover bool) *Engine {
	cfg := DefaultConfig()
	cfg.Speed = speed
	cfg.Direction = dir
	cfg.PauseOnHover = pauseOnHover
	return NewEngine(cfg)
}

// warmUp runs the engine long enough for the velocity to settle on target.
func warmUp(e *Engine) {
	for i := 0; i < 20; i++ {
		e.Advance(time.Second)
	}
}

func TestEngineStartsAtRest(t *testing.T) {
	e := newTestEngine(100, Forward, true)
	f := e.Frame()
	assert.Zero(t, f.Offset)
	assert.Zero(t, f.Velocity)
	assert.Equal(t, MinCopies, f.CopyCount)
	assert.Zero(t, f.SequenceWidth)
}

func TestEngineMeasure(t *testing.T) {
	e := newTestEngine(100, Forward, true)

	require.False(t, e.Measure(800, 0), "zero sequence width is not ready")
	assert.Equal(t, MinCopies, e.CopyCount())

	require.True(t, e.Measure(1000, 299.2))
	assert.Equal(t, 300.0, e.SequenceWidth(), "sequence width is rounded up")
	assert.Equal(t, 6, e.CopyCount())

	require.False(t, e.Measure(5000, 0))
	assert.Equal(t, 300.0, e.SequenceWidth(), "failed measurement keeps previous width")
	assert.Equal(t, 6, e.CopyCount(), "failed measurement keeps previous copy count")
}

func TestEngineHoldsOffsetUntilMeasured(t *testing.T) {
	e := newTestEngine(100, Forward, true)
	for i := 0; i < 10; i++ {
		e.Advance(100 * time.Millisecond)
	}
	assert.Zero(t, e.Offset(), "no movement before a valid measurement")

	require.True(t, e.Measure(1200, 400))
	e.Advance(100 * time.Millisecond)
	assert.Greater(t, e.Offset(), 0.0, "movement resumes after measurement")
}

func TestEngineOffsetStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := newTestEngine(900, Forward, true)
	require.True(t, e.Measure(640, 237))
	for i := 0; i < 5000; i++ {
		switch rng.Intn(50) {
		case 0:
			e.Reconfigure(Config{Speed: 900, Direction: Reverse, PauseOnHover: true})
		case 1:
			e.Reconfigure(Config{Speed: 900, Direction: Forward, PauseOnHover: true})
		case 2:
			e.SetHovered(rng.Intn(2) == 0)
		case 3:
			e.Measure(640, float64(50+rng.Intn(400)))
		}
		e.Advance(time.Duration(rng.Intn(40)) * time.Millisecond)
		off := e.Offset()
		if off < 0 || off >= e.SequenceWidth() {
			t.Fatalf("step %d: offset %v outside [0, %v)", i, off, e.SequenceWidth())
		}
	}
}

func TestEngineReverseDirection(t *testing.T) {
	e := newTestEngine(100, Reverse, false)
	require.True(t, e.Measure(1000, 400))
	e.Advance(100 * time.Millisecond)
	off := e.Offset()
	assert.Greater(t, off, 200.0, "reverse wraps from the far end")
	assert.Less(t, off, 400.0)
	assert.Less(t, e.Velocity(), 0.0)
}

func TestEngineTranslateMirrorsOffset(t *testing.T) {
	e := newTestEngine(100, Forward, false)
	require.True(t, e.Measure(1000, 400))
	f := e.Advance(300 * time.Millisecond)
	assert.Equal(t, -f.Offset, f.TranslateX)
}

func TestEnginePauseDecaysExponentially(t *testing.T) {
	e := newTestEngine(100, Forward, true)
	require.True(t, e.Measure(1200, 400))
	warmUp(e)
	v0 := e.Velocity()
	require.InDelta(t, 100, v0, 1e-6)

	e.SetHovered(true)
	assert.True(t, e.Held())
	assert.Zero(t, e.TargetVelocity())

	// the decay does not depend on how the hold period is split into ticks
	for i := 0; i < 50; i++ {
		e.Advance(10 * time.Millisecond)
	}
	want := v0 * math.Exp(-0.5/SmoothTau)
	assert.InDelta(t, want, e.Velocity(), 1e-9)
	assert.Greater(t, e.Velocity(), 0.0, "velocity never snaps to zero")
}

func TestEngineExternalPauseOverridesHover(t *testing.T) {
	e := newTestEngine(100, Forward, false)
	e.SetHovered(true)
	assert.False(t, e.Held(), "hover ignored when pause-on-hover is off")

	e.SetPaused(true)
	assert.True(t, e.Held())
	assert.Zero(t, e.TargetVelocity())

	e.SetPaused(false)
	assert.Equal(t, 100.0, e.TargetVelocity())
}

func TestEngineResizeKeepsOffset(t *testing.T) {
	e := newTestEngine(100, Forward, false)
	require.True(t, e.Measure(1200, 400))
	warmUp(e)
	for e.Offset() < 320 {
		e.Advance(50 * time.Millisecond)
	}
	before := e.Offset()

	require.True(t, e.Measure(1200, 300))
	assert.Equal(t, before, e.Offset(), "measurement must not move the offset")

	e.Advance(0)
	assert.InDelta(t, Wrap(before, 300), e.Offset(), 1e-9, "next wrap uses the new width")
}

func TestEngineNegativeDeltaIsIgnored(t *testing.T) {
	e := newTestEngine(100, Forward, false)
	require.True(t, e.Measure(1200, 400))
	e.Advance(200 * time.Millisecond)
	off, vel := e.Offset(), e.Velocity()

	e.Advance(-time.Second)
	assert.Equal(t, off, e.Offset())
	assert.Equal(t, vel, e.Velocity())
}

func TestEngineTickUsesWallClock(t *testing.T) {
	e := newTestEngine(100, Forward, false)
	require.True(t, e.Measure(1200, 400))
	t0 := time.Unix(1000, 0)

	f := e.Tick(t0)
	assert.Zero(t, f.Velocity, "first tick only records the timestamp")

	f = e.Tick(t0.Add(250 * time.Millisecond))
	assert.InDelta(t, 100*(1-math.Exp(-1)), f.Velocity, 1e-9)

	// a clock going backwards is treated as no elapsed time
	v := f.Velocity
	f = e.Tick(t0)
	assert.Equal(t, v, f.Velocity)
}

func TestEngineCapsLargeDelta(t *testing.T) {
	e := newTestEngine(100, Forward, false)
	require.True(t, e.Measure(1200, 1000))
	warmUp(e)
	before := e.Offset()
	e.Advance(30 * time.Second)
	travelled := Wrap(e.Offset()-before, 1000)
	assert.InDelta(t, 100, travelled, 1e-6, "one tick consumes at most MaxFrameDelta")
}

func TestEngineReconfigureKeepsState(t *testing.T) {
	e := newTestEngine(100, Forward, false)
	require.True(t, e.Measure(1200, 400))
	e.Advance(300 * time.Millisecond)
	off, vel := e.Offset(), e.Velocity()

	e.Reconfigure(Config{Speed: 300, Direction: Reverse})
	assert.Equal(t, off, e.Offset())
	assert.Equal(t, vel, e.Velocity())
	assert.Equal(t, -300.0, e.TargetVelocity())
}

func TestEngineReset(t *testing.T) {
	e := newTestEngine(100, Forward, false)
	require.True(t, e.Measure(1200, 400))
	e.Tick(time.Unix(0, 0))
	e.Tick(time.Unix(0, int64(500*time.Millisecond)))
	e.Reset()
	assert.Zero(t, e.Offset())
	assert.Zero(t, e.Velocity())
	assert.Equal(t, 400.0, e.SequenceWidth(), "reset keeps measurements")
	f := e.Tick(time.Unix(100, 0))
	assert.Zero(t, f.Velocity, "clock restarts after reset")
}

func TestEngineEmptyItemsIdle(t *testing.T) {
	e := newTestEngine(100, Forward, true)
	// an empty track measures zero forever
	for i := 0; i < 100; i++ {
		e.Measure(1200, SequenceWidth(nil, 32))
		e.Advance(16 * time.Millisecond)
	}
	assert.Zero(t, e.Offset())
	assert.Equal(t, MinCopies, e.CopyCount())
}

func TestEngineEndToEndScenario(t *testing.T) {
	items := []Item{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}, {Text: "e"}}
	e := newTestEngine(100, Forward, true)
	require.True(t, e.Measure(1200, 400))
	require.Equal(t, 5, e.CopyCount())
	require.Len(t, Layout(items, e.CopyCount()), 5)

	t.Run("ramp up from rest", func(t *testing.T) {
		r := newTestEngine(100, Forward, true)
		require.True(t, r.Measure(1200, 400))
		for i := 0; i < 2000; i++ {
			r.Advance(time.Millisecond)
		}
		// integral of 100*(1-exp(-t/tau)) over 2s
		want := 100 * (2 - SmoothTau*(1-math.Exp(-2/SmoothTau)))
		assert.InDelta(t, want, r.Offset(), 0.1)
	})

	warmUp(e)
	start := e.Offset()
	for i := 0; i < 125; i++ {
		e.Advance(16 * time.Millisecond)
	}
	assert.InDelta(t, Wrap(start+200, 400), e.Offset(), 1e-6, "2s at full speed moves 200px")

	e.SetHovered(true)
	e.Advance(250 * time.Millisecond)
	held := e.Velocity()
	assert.InDelta(t, 100*math.Exp(-1), held, 1e-6)

	e.SetHovered(false)
	e.Advance(250 * time.Millisecond)
	resumed := e.Velocity()
	assert.InDelta(t, 100-(100-held)*math.Exp(-1), resumed, 1e-6)
	assert.Less(t, resumed, 100.0)
	assert.Greater(t, resumed, held)
}
