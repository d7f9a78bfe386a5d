package ui

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/edward-ap/folio/internal/marquee"
)

var itemTextStyle = fyne.TextStyle{Bold: true}

// itemTextSize derives the font size from the configured item height.
func itemTextSize(height float64) float32 {
	s := float32(height) * 0.6
	if s < 8 {
		s = 8
	}
	return s
}

// measureItems returns the rendered width of every item at the given height.
func measureItems(items []marquee.Item, height float64) []float64 {
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = measureItem(it, height)
	}
	return out
}

func measureItem(it marquee.Item, height float64) float64 {
	if src := strings.TrimSpace(it.Src); src != "" {
		return height * imageAspect(src)
	}
	label := it.Label()
	if label == "" {
		return 0
	}
	return float64(fyne.MeasureText(label, itemTextSize(height), itemTextStyle).Width)
}

func isRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// aspectCache remembers width/height ratios of local images so re-measuring
// on resize does not hit the disk.
var aspectCache = struct {
	sync.Mutex
	m map[string]float64
}{m: map[string]float64{}}

// imageAspect reads the image header of a local file. Remote sources and
// formats without a registered decoder (SVG) are treated as square.
func imageAspect(src string) float64 {
	aspectCache.Lock()
	if a, ok := aspectCache.m[src]; ok {
		aspectCache.Unlock()
		return a
	}
	aspectCache.Unlock()

	a := 1.0
	if !isRemote(src) {
		if f, err := os.Open(src); err == nil {
			if cfg, _, err := image.DecodeConfig(f); err == nil && cfg.Height > 0 {
				a = float64(cfg.Width) / float64(cfg.Height)
			}
			f.Close()
		}
	}

	aspectCache.Lock()
	aspectCache.m[src] = a
	aspectCache.Unlock()
	return a
}
