package ui

import (
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverflows(t *testing.T) {
	tests := []struct {
		name     string
		width    float32
		viewport float32
		want     bool
	}{
		{name: "fits exactly", width: 120, viewport: 120, want: false},
		{name: "slightly bigger but within epsilon", width: 100.3, viewport: 100, want: false},
		{name: "clearly overflows", width: 150, viewport: 120, want: true},
		{name: "negative viewport treated as zero", width: 1, viewport: -5, want: true},
		{name: "zero width", width: 0, viewport: 200, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overflows(tt.width, tt.viewport)
			if got != tt.want {
				t.Fatalf("overflows(%v, %v) = %v, want %v", tt.width, tt.viewport, got, tt.want)
			}
		})
	}
}

func TestTickerScrollsOnlyWhenTextOverflows(t *testing.T) {
	test.NewApp()
	tc := NewTickerController("Ready", nil)
	defer tc.Close()
	assert.Equal(t, "Ready", tc.Text())
	assert.False(t, tc.Scrolling(), "unsized holder shows the label")

	tc.CanvasObject().Resize(fyne.NewSize(200, 30))
	tc.SetText("ok")
	assert.False(t, tc.Scrolling())

	tc.SetText(strings.Repeat("a long status line ", 20))
	require.True(t, tc.Scrolling())
	holder := tc.CanvasObject().(*fyne.Container)
	require.Len(t, holder.Objects, 1)
	_, isLoop := holder.Objects[0].(*LogoLoop)
	assert.True(t, isLoop)

	tc.SetText("")
	assert.Equal(t, "Ready", tc.Text(), "empty text falls back to idle")
	assert.False(t, tc.Scrolling())
}

func TestTickerFlashReverts(t *testing.T) {
	test.NewApp()
	tc := NewTickerController("Ready", nil)
	defer tc.Close()

	tc.SetText("Connected")
	tc.Flash("Message sent!", 20*time.Millisecond)
	assert.Equal(t, "Message sent!", tc.Text())

	assert.Eventually(t, func() bool { return tc.Text() == "Connected" }, time.Second, 5*time.Millisecond)
}

func TestTickerSetTextCancelsFlash(t *testing.T) {
	test.NewApp()
	tc := NewTickerController("Ready", nil)
	defer tc.Close()

	tc.Flash("Error.", 20*time.Millisecond)
	tc.SetText("Sending...")
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, "Sending...", tc.Text())
}
