package ui

import (
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"

	"github.com/edward-ap/folio/internal/marquee"
)

var indicatorIdle = color.NRGBA{0x80, 0x80, 0x80, 0xFF}

// MotionIndicator is a tiny circle whose hue follows the loop's velocity:
// gray at a standstill, red while easing and green at full speed.
type MotionIndicator struct {
	wrap   *fyne.Container
	circle *canvas.Circle

	mu   sync.Mutex
	last color.NRGBA
}

// NewMotionIndicator constructs a MotionIndicator with the given diameter.
func NewMotionIndicator(diameter float32) *MotionIndicator {
	c := canvas.NewCircle(indicatorIdle)
	c.StrokeColor = color.NRGBA{0, 0, 0, 0}
	inner := container.New(layout.NewGridWrapLayout(fyne.NewSize(diameter, diameter)), c)
	return &MotionIndicator{wrap: container.NewCenter(inner), circle: c, last: indicatorIdle}
}

// CanvasObject returns the fyne object suitable for embedding in layouts.
func (m *MotionIndicator) CanvasObject() fyne.CanvasObject { return m.wrap }

// Update recolors the circle for frame f of a loop whose full speed is
// speed. It may be called from the animation goroutine.
func (m *MotionIndicator) Update(f marquee.Frame, speed float64) {
	col := motionColor(f.Velocity, speed)
	m.mu.Lock()
	if col == m.last {
		m.mu.Unlock()
		return
	}
	m.last = col
	m.mu.Unlock()

	CallOnMain(func() {
		m.circle.FillColor = col
		m.circle.Refresh()
	})
}

// Color returns the last color applied.
func (m *MotionIndicator) Color() color.NRGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// motionColor maps |velocity|/speed onto the red..green hue range. Speeds
// under half a pixel per second count as stopped.
func motionColor(velocity, speed float64) color.NRGBA {
	v := math.Abs(velocity)
	if v < 0.5 || speed <= 0 {
		return indicatorIdle
	}
	ratio := clampFloat64(v/math.Abs(speed), 0, 1)
	// quantize so a settling loop stops repainting
	hue := math.Round(ratio*12) * 10
	return hsvToNRGBA(hue, 0.65, 0.95)
}

// hsvToNRGBA converts HSV (0..360, 0..1, 0..1) to color.NRGBA.
func hsvToNRGBA(h, s, v float64) color.NRGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60.0, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.NRGBA{
		R: uint8((r+m)*255 + 0.5),
		G: uint8((g+m)*255 + 0.5),
		B: uint8((b+m)*255 + 0.5),
		A: 0xFF,
	}
}
