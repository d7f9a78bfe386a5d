package marquee

import (
	"sync"
	"time"
)

// FrameInterval is the nominal redraw period (60Hz). The engine never relies
// on it; every tick uses the real elapsed time.
const FrameInterval = time.Second / 60

// FrameScheduler runs fn once, at the next frame, with the frame timestamp.
// The returned cancel func prevents fn from running if it has not started yet
// and must be safe to call more than once.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time)) (cancel func())
}

// TickerScheduler is a timer-backed FrameScheduler for hosts without a native
// redraw callback.
type TickerScheduler struct {
	Interval time.Duration
	Now      func() time.Time
}

// NewTickerScheduler returns a scheduler firing every interval; zero means
// FrameInterval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &TickerScheduler{Interval: interval, Now: time.Now}
}

// RequestFrame implements FrameScheduler.
func (s *TickerScheduler) RequestFrame(fn func(now time.Time)) func() {
	interval := s.Interval
	if interval <= 0 {
		interval = FrameInterval
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}
	t := time.AfterFunc(interval, func() { fn(now()) })
	var once sync.Once
	return func() { once.Do(func() { t.Stop() }) }
}
