package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/edward-ap/folio/internal/marquee"
)

func TestHSVToNRGBA(t *testing.T) {
	tests := []struct {
		h    float64
		want color.NRGBA
	}{
		{h: 0, want: color.NRGBA{255, 0, 0, 255}},
		{h: 120, want: color.NRGBA{0, 255, 0, 255}},
		{h: 240, want: color.NRGBA{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hsvToNRGBA(tt.h, 1, 1), "hue %v", tt.h)
	}
}

func TestMotionColor(t *testing.T) {
	assert.Equal(t, indicatorIdle, motionColor(0.2, 120))
	assert.Equal(t, indicatorIdle, motionColor(50, 0))
	assert.Equal(t, hsvToNRGBA(120, 0.65, 0.95), motionColor(-120, 120), "full speed either way is green")
	assert.Equal(t, hsvToNRGBA(60, 0.65, 0.95), motionColor(60, 120))
}

func TestMotionIndicatorUpdate(t *testing.T) {
	test.NewApp()
	m := NewMotionIndicator(10)
	assert.Equal(t, indicatorIdle, m.Color())

	m.Update(marquee.Frame{Velocity: 120}, 120)
	assert.Equal(t, hsvToNRGBA(120, 0.65, 0.95), m.Color())
	assert.Equal(t, color.Color(m.Color()), m.circle.FillColor)

	m.Update(marquee.Frame{Velocity: 0, Held: true}, 120)
	assert.Equal(t, indicatorIdle, m.Color())
}
