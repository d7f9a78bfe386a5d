package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/marquee"
)

// DefaultFlashDuration is how long a flashed message stays before the
// ticker returns to its base text.
const DefaultFlashDuration = 4 * time.Second

// tickerSpeed is the scroll speed of overflowing status text in px/s.
const tickerSpeed = 60

// TickerController shows a one-line status. Text that fits is rendered as a
// plain label; text wider than the holder scrolls through a single-item
// LogoLoop. All methods are safe to call from any goroutine.
type TickerController struct {
	holder *fyne.Container
	lbl    *widget.Label
	bind   binding.String
	log    *zap.Logger

	mu     sync.Mutex
	idle   string
	base   string
	text   string
	gen    int
	loop   *LogoLoop
	revert *time.Timer
}

// NewTickerController creates a ticker showing idle whenever no text is set.
func NewTickerController(idle string, log *zap.Logger) *TickerController {
	if log == nil {
		log = zap.NewNop()
	}
	b := binding.NewString()
	lbl := widget.NewLabelWithData(b)
	lbl.Truncation = fyne.TextTruncateClip
	tc := &TickerController{
		holder: container.NewStack(lbl),
		lbl:    lbl,
		bind:   b,
		log:    log,
		idle:   idle,
	}
	tc.show(idle)
	return tc
}

// CanvasObject returns the object to place in a layout.
func (tc *TickerController) CanvasObject() fyne.CanvasObject { return tc.holder }

// SetText replaces the base text and cancels a pending flash.
func (tc *TickerController) SetText(text string) {
	tc.mu.Lock()
	tc.base = text
	tc.stopRevertLocked()
	tc.mu.Unlock()
	tc.show(text)
}

// Flash shows text for d, then restores the base text. A non-positive d
// uses DefaultFlashDuration.
func (tc *TickerController) Flash(text string, d time.Duration) {
	if d <= 0 {
		d = DefaultFlashDuration
	}
	gen := tc.show(text)

	tc.mu.Lock()
	tc.stopRevertLocked()
	tc.revert = time.AfterFunc(d, func() {
		tc.mu.Lock()
		if tc.gen != gen {
			tc.mu.Unlock()
			return
		}
		tc.revert = nil
		base := tc.base
		tc.mu.Unlock()
		tc.show(base)
	})
	tc.mu.Unlock()
}

// Text returns what the ticker currently displays.
func (tc *TickerController) Text() string {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.text
}

// Scrolling reports whether the current text overflowed and is scrolling.
func (tc *TickerController) Scrolling() bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.loop != nil
}

// Close stops any scrolling loop and pending flash.
func (tc *TickerController) Close() {
	tc.mu.Lock()
	tc.stopRevertLocked()
	tc.gen++
	loop := tc.loop
	tc.loop = nil
	tc.mu.Unlock()
	if loop != nil {
		loop.Close()
	}
}

func (tc *TickerController) stopRevertLocked() {
	if tc.revert != nil {
		tc.revert.Stop()
		tc.revert = nil
	}
}

// show renders text and returns the generation it was shown under.
func (tc *TickerController) show(text string) int {
	tc.mu.Lock()
	if text == "" {
		text = tc.idle
	}
	tc.gen++
	gen := tc.gen
	tc.text = text
	old := tc.loop
	tc.loop = nil
	tc.mu.Unlock()
	if old != nil {
		old.Close()
	}

	_ = tc.bind.Set(text)
	// an unsized holder has not been laid out yet; show the label
	vw := tc.holder.Size().Width
	if vw <= 0 || !overflows(measureLabelTextWidth(tc.lbl, text), vw) {
		tc.swap(gen, tc.lbl)
		return gen
	}

	cfg := marquee.DefaultConfig()
	cfg.Speed = tickerSpeed
	cfg.Gap = float64(theme.Padding() * 8)
	cfg.ItemHeight = float64(theme.TextSize()) / 0.6
	loop := NewLogoLoop([]marquee.Item{{Text: text}}, cfg, tc.log)

	tc.mu.Lock()
	if tc.gen != gen {
		tc.mu.Unlock()
		loop.Close()
		return gen
	}
	tc.loop = loop
	tc.mu.Unlock()
	tc.swap(gen, loop)
	return gen
}

func (tc *TickerController) swap(gen int, obj fyne.CanvasObject) {
	CallOnMain(func() {
		tc.mu.Lock()
		current := tc.gen == gen
		tc.mu.Unlock()
		if !current {
			return
		}
		tc.holder.Objects = []fyne.CanvasObject{obj}
		tc.holder.Refresh()
	})
}

// measureLabelTextWidth estimates the width the label would need for the text.
func measureLabelTextWidth(lbl *widget.Label, text string) float32 {
	if lbl == nil {
		return 0
	}
	tmp := widget.NewLabel(text)
	tmp.Alignment = lbl.Alignment
	tmp.TextStyle = lbl.TextStyle
	tmp.Importance = lbl.Importance
	tmp.Refresh()
	return tmp.MinSize().Width
}
