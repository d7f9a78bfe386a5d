package ui

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/folio/internal/marquee"
)

// SpeedSlider is a compact horizontal slider over [-Max, Max]. The fill
// grows from the center towards the thumb; values left of center mean the
// loop runs in reverse.
type SpeedSlider struct {
	widget.BaseWidget
	Max       float64
	Step      float64
	Value     float64
	OnChanged func(float64)
}

// NewSpeedSlider creates a slider for speeds up to max px/s either way.
func NewSpeedSlider(max float64) *SpeedSlider {
	s := &SpeedSlider{Max: math.Abs(max), Step: 10}
	s.ExtendBaseWidget(s)
	return s
}

// SignedVelocity folds speed and direction into one slider value.
func SignedVelocity(speed float64, dir marquee.Direction) float64 {
	return math.Abs(speed) * dir.Sign()
}

// SplitVelocity is the inverse of SignedVelocity.
func SplitVelocity(v float64) (float64, marquee.Direction) {
	if v < 0 {
		return -v, marquee.Reverse
	}
	return v, marquee.Forward
}

func (s *SpeedSlider) CreateRenderer() fyne.WidgetRenderer {
	r := &speedSliderRenderer{
		s:      s,
		track:  canvas.NewRectangle(theme.ShadowColor()),
		fill:   canvas.NewRectangle(theme.PrimaryColor()),
		center: canvas.NewRectangle(theme.ForegroundColor()),
		thumb:  canvas.NewCircle(theme.ForegroundColor()),
	}
	r.objs = []fyne.CanvasObject{r.track, r.fill, r.center, r.thumb}
	return r
}

// SetValue sets the slider value and triggers refresh and callback.
func (s *SpeedSlider) SetValue(v float64) {
	if s.Max <= 0 {
		return
	}
	newValue := normalizeSliderValue(-s.Max, s.Max, s.Step, v)
	if newValue == s.Value {
		return
	}
	s.Value = newValue
	s.Refresh()
	if s.OnChanged != nil {
		s.OnChanged(newValue)
	}
}

func normalizeSliderValue(min, max, step, value float64) float64 {
	if max <= min {
		return min
	}
	v := clampFloat64(value, min, max)
	if step > 0 {
		n := math.Round((v - min) / step)
		v = clampFloat64(min+n*step, min, max)
	}
	return v
}

// sliderFraction maps a value in [-max, max] onto [0, 1].
func sliderFraction(value, max float64) float64 {
	if max <= 0 {
		return 0.5
	}
	return clampFloat64((value+max)/(2*max), 0, 1)
}

// Dragged updates the value based on pointer drag position.
func (s *SpeedSlider) Dragged(e *fyne.DragEvent) {
	s.updateFromPos(e.Position.X, s.Size().Width)
}

func (s *SpeedSlider) DragEnd() {}

// Tapped moves the thumb to the tapped position.
func (s *SpeedSlider) Tapped(e *fyne.PointEvent) {
	s.updateFromPos(e.Position.X, s.Size().Width)
}

// DoubleTapped snaps back to a standstill.
func (s *SpeedSlider) DoubleTapped(*fyne.PointEvent) { s.SetValue(0) }

// Scrolled adjusts the slider value using mouse wheel input.
func (s *SpeedSlider) Scrolled(ev *fyne.ScrollEvent) {
	if ev == nil {
		return
	}
	step := s.Step
	if step <= 0 {
		step = 1
	}
	if ev.Scrolled.DY > 0 {
		s.SetValue(s.Value + step)
	} else if ev.Scrolled.DY < 0 {
		s.SetValue(s.Value - step)
	}
}

func (s *SpeedSlider) updateFromPos(px float32, w float32) {
	if w <= 0 || s.Max <= 0 {
		return
	}
	frac := clampFloat64(float64(px/w), 0, 1)
	s.SetValue(-s.Max + frac*2*s.Max)
}

// MinSize provides a reasonable touch target height.
func (s *SpeedSlider) MinSize() fyne.Size {
	return fyne.NewSize(140, theme.IconInlineSize())
}

type speedSliderRenderer struct {
	s      *SpeedSlider
	track  *canvas.Rectangle
	fill   *canvas.Rectangle
	center *canvas.Rectangle
	thumb  *canvas.Circle
	objs   []fyne.CanvasObject
}

func (r *speedSliderRenderer) Layout(sz fyne.Size) {
	trackH := float32(4)
	y := (sz.Height - trackH) / 2
	r.track.Move(fyne.NewPos(0, y))
	r.track.Resize(fyne.NewSize(sz.Width, trackH))

	mid := sz.Width / 2
	r.center.Move(fyne.NewPos(mid-0.5, y-2))
	r.center.Resize(fyne.NewSize(1, trackH+4))

	cx := sz.Width * float32(sliderFraction(r.s.Value, r.s.Max))
	left, right := mid, cx
	if cx < mid {
		left, right = cx, mid
	}
	r.fill.Move(fyne.NewPos(left, y))
	r.fill.Resize(fyne.NewSize(right-left, trackH))

	thumbR := theme.IconInlineSize() / 4
	if cx < thumbR {
		cx = thumbR
	}
	if cx > sz.Width-thumbR {
		cx = sz.Width - thumbR
	}
	r.thumb.Resize(fyne.NewSize(thumbR*2, thumbR*2))
	r.thumb.Move(fyne.NewPos(cx-thumbR, sz.Height/2-thumbR))
}

func (r *speedSliderRenderer) MinSize() fyne.Size { return r.s.MinSize() }

func (r *speedSliderRenderer) Refresh() {
	r.track.FillColor = theme.ShadowColor()
	r.fill.FillColor = theme.PrimaryColor()
	r.center.FillColor = theme.ForegroundColor()
	r.thumb.FillColor = theme.ForegroundColor()
	r.Layout(r.s.Size())
	for _, o := range r.objs {
		canvas.Refresh(o)
	}
}

func (r *speedSliderRenderer) Destroy() {}

func (r *speedSliderRenderer) Objects() []fyne.CanvasObject { return r.objs }
