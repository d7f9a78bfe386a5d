// Package marquee implements the timing engine behind the looping logo strip:
// dimension tracking, copy calculation, smoothed velocity integration and
// offset wrapping. It has no rendering dependencies; hosts feed it widths and
// frame timestamps and draw the track at Frame.TranslateX.
package marquee

import (
	"math"
	"strings"
	"time"
)

const (
	// SmoothTau is the time constant, in seconds, of the velocity easing.
	SmoothTau = 0.25
	// MinCopies is the lower bound of sequences laid out on the track.
	MinCopies = 2
	// CopyHeadroom is the number of sequences added beyond viewport coverage.
	CopyHeadroom = 2

	// DefaultSpeed is the target speed in px/s when none is configured.
	DefaultSpeed = 120
	// DefaultGap is the spacing between items in px.
	DefaultGap = 32
	// DefaultItemHeight is the rendered item height in px.
	DefaultItemHeight = 28
	// DefaultPauseOnHover matches the historical behavior of the strip.
	DefaultPauseOnHover = true
	// DefaultMaxFrameDelta caps the elapsed time consumed by a single tick.
	DefaultMaxFrameDelta = time.Second
)

// Item is one visual unit in the loop. Text is rendered as-is; Src and Alt
// reference an image. Items are never mutated by the engine.
type Item struct {
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	Src  string `json:"src,omitempty" yaml:"src,omitempty"`
	Alt  string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Label returns the text shown for the item, falling back to Alt.
func (it Item) Label() string {
	if s := strings.TrimSpace(it.Text); s != "" {
		return s
	}
	return strings.TrimSpace(it.Alt)
}

// Direction selects the sign of the target velocity.
type Direction int

const (
	// Forward moves content towards the left edge (offset grows).
	Forward Direction = iota
	// Reverse moves content towards the right edge (offset shrinks).
	Reverse
)

// Sign returns +1 for Forward and -1 for Reverse.
func (d Direction) Sign() float64 {
	if d == Reverse {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// ParseDirection accepts "forward"/"left" and "reverse"/"right"; anything
// else yields Forward and false.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "left":
		return Forward, true
	case "reverse", "right":
		return Reverse, true
	}
	return Forward, false
}

// Config is the caller-supplied configuration of one mounted loop.
type Config struct {
	Speed         float64 // px/s, magnitude only
	Direction     Direction
	PauseOnHover  bool
	Paused        bool
	Gap           float64
	ItemHeight    float64
	FadeEdges     bool // visual only
	MaxFrameDelta time.Duration
}

// DefaultConfig returns the configuration used when the caller sets nothing.
func DefaultConfig() Config {
	return Config{
		Speed:         DefaultSpeed,
		Direction:     Forward,
		PauseOnHover:  DefaultPauseOnHover,
		Gap:           DefaultGap,
		ItemHeight:    DefaultItemHeight,
		MaxFrameDelta: DefaultMaxFrameDelta,
	}
}

// Normalize folds out-of-range values back into something the engine can use.
func (c Config) Normalize() Config {
	if math.IsNaN(c.Speed) || math.IsInf(c.Speed, 0) {
		c.Speed = DefaultSpeed
	}
	c.Speed = math.Abs(c.Speed)
	if c.Gap < 0 || math.IsNaN(c.Gap) {
		c.Gap = DefaultGap
	}
	if c.ItemHeight <= 0 || math.IsNaN(c.ItemHeight) {
		c.ItemHeight = DefaultItemHeight
	}
	if c.MaxFrameDelta <= 0 {
		c.MaxFrameDelta = DefaultMaxFrameDelta
	}
	return c
}

// Velocity is the signed speed the integrator eases towards while running.
func (c Config) Velocity() float64 {
	return c.Speed * c.Direction.Sign()
}

// Wrap maps x into [0, m). When m is not positive the measurement is not
// ready and x is returned untouched.
func Wrap(x, m float64) float64 {
	if !(m > 0) || math.IsInf(m, 0) {
		return x
	}
	// same result as ((x mod m) + m) mod m, without perturbing x already in range
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		// tiny negative r rounds up to m
		r = 0
	}
	return r
}

// CopyCount returns how many sequences must be laid out so the track covers
// the container plus headroom. ok is false when sequenceWidth is not positive.
func CopyCount(containerWidth, sequenceWidth float64) (n int, ok bool) {
	if !(sequenceWidth > 0) {
		return MinCopies, false
	}
	if containerWidth < 0 || math.IsNaN(containerWidth) {
		containerWidth = 0
	}
	n = int(math.Ceil(containerWidth/sequenceWidth)) + CopyHeadroom
	if n < MinCopies {
		n = MinCopies
	}
	return n, true
}
