// Package term hosts the marquee on a single terminal row using tcell.
package term

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/marquee"
)

// CellPixels converts pixel based settings (speed, gap) into cells.
const CellPixels = 8

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	itemStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	gapStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	heldStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Host drives one engine and draws it across the middle row of a screen.
// All methods run on the goroutine that calls Run.
type Host struct {
	screen  tcell.Screen
	eng     *marquee.Engine
	tracker *marquee.Tracker
	log     *zap.Logger

	items  []marquee.Item
	strip  []cell
	gap    int
	width  int
	height int
}

// New creates a host on an initialized screen. cfg is in pixels, like every
// other host, and is scaled by CellPixels.
func New(screen tcell.Screen, items []marquee.Item, cfg marquee.Config, log *zap.Logger) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	cfg = toCells(cfg.Normalize())
	h := &Host{screen: screen, eng: marquee.NewEngine(cfg), log: log, gap: int(cfg.Gap)}
	h.tracker = marquee.NewTracker(marquee.MeasureFunc{
		Container: func() float64 { return float64(h.width) },
		Sequence:  func() float64 { return float64(len(h.strip)) },
	}, h.eng)
	h.SetItems(items)
	return h
}

// toCells scales pixel speed and gap to cells.
func toCells(cfg marquee.Config) marquee.Config {
	cfg.Speed /= CellPixels
	cfg.Gap = math.Max(1, math.Round(cfg.Gap/CellPixels))
	return cfg
}

// SetItems replaces the content and re-measures the sequence.
func (h *Host) SetItems(items []marquee.Item) {
	h.items = append([]marquee.Item(nil), items...)
	h.strip = buildStrip(h.items, h.gap)
	h.measure()
}

// Engine exposes the scroll state, mainly for tests.
func (h *Host) Engine() *marquee.Engine { return h.eng }

func (h *Host) measure() {
	h.width, h.height = h.screen.Size()
	if !h.tracker.Refresh() {
		h.log.Debug("terminal measure not ready", zap.Int("width", h.width), zap.Int("cells", len(h.strip)))
	}
}

func (h *Host) row() int { return h.height / 2 }

// Run animates until a quit key or ctx is done. The caller owns the screen
// and must Fini it afterwards, which also ends the event reader.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse()
	h.screen.HideCursor()

	events := make(chan tcell.Event, 64)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	h.Step(time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !h.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			h.Step(now)
		}
	}
}

// HandleEvent applies one terminal event. It returns false on quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'p', 'P', ' ':
				h.eng.SetPaused(!h.eng.Config().Paused)
			case 'r', 'R':
				cfg := h.eng.Config()
				if cfg.Direction == marquee.Reverse {
					cfg.Direction = marquee.Forward
				} else {
					cfg.Direction = marquee.Reverse
				}
				h.eng.Reconfigure(cfg)
			}
		}
	case *tcell.EventMouse:
		_, y := ev.Position()
		h.eng.SetHovered(y == h.row())
	case *tcell.EventResize:
		h.screen.Sync()
		h.measure()
	}
	return true
}

// Step ticks the engine to now and redraws.
func (h *Host) Step(now time.Time) marquee.Frame {
	f := h.eng.Tick(now)
	h.Draw(f)
	return f
}

// Draw paints frame f.
func (h *Host) Draw(f marquee.Frame) {
	h.screen.Clear()
	if h.width <= 0 || h.height <= 0 {
		h.screen.Show()
		return
	}
	y := h.row()
	for x, c := range render(h.strip, h.width, f.Offset) {
		if c.cont {
			continue
		}
		h.screen.SetContent(x, y, c.r, nil, c.style)
	}
	h.drawStatus(f)
	h.screen.Show()
}

func (h *Host) drawStatus(f marquee.Frame) {
	if h.height < 3 {
		return
	}
	cfg := h.eng.Config()
	line := fmt.Sprintf(" %s %5.1f cells/s  p pause  r reverse  q quit", cfg.Direction, f.Velocity)
	style := statusStyle
	if f.Held {
		line = " held" + line
		style = heldStyle
	}
	x := 0
	for _, r := range runewidth.Truncate(line, h.width, "…") {
		h.screen.SetContent(x, h.height-1, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// cell is one terminal column of the sequence. A wide rune occupies two
// cells; the second is marked cont.
type cell struct {
	r     rune
	style tcell.Style
	cont  bool
}

var blank = cell{r: ' ', style: gapStyle}

// buildStrip lays out one sequence: each label followed by gap cells with a
// dot in the middle.
func buildStrip(items []marquee.Item, gap int) []cell {
	var out []cell
	for _, it := range items {
		label := it.Label()
		if label == "" {
			continue
		}
		for _, r := range label {
			switch runewidth.RuneWidth(r) {
			case 0:
				continue
			case 2:
				out = append(out, cell{r: r, style: itemStyle}, cell{r: r, style: itemStyle, cont: true})
			default:
				out = append(out, cell{r: r, style: itemStyle})
			}
		}
		for i := 0; i < gap; i++ {
			c := blank
			if i == gap/2 {
				c.r = '·'
			}
			out = append(out, c)
		}
	}
	return out
}

// render returns the width visible columns of the endlessly repeated strip
// scrolled by offset cells. Wide runes cut by either edge become blanks.
func render(strip []cell, width int, offset float64) []cell {
	if width <= 0 {
		return nil
	}
	out := make([]cell, width)
	n := len(strip)
	if n == 0 {
		for i := range out {
			out[i] = blank
		}
		return out
	}
	start := int(math.Floor(marquee.Wrap(offset, float64(n))))
	for x := 0; x < width; x++ {
		out[x] = strip[(start+x)%n]
	}
	if out[0].cont {
		out[0] = blank
	}
	if last := out[width-1]; !last.cont && runewidth.RuneWidth(last.r) == 2 {
		out[width-1] = blank
	}
	return out
}
