package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edward-ap/folio/internal/marquee"
)

func sameImage(t *testing.T, a, b image.Image) {
	t.Helper()
	require.Equal(t, a.Bounds(), b.Bounds())
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs: %v vs %v", x, y, a.At(x, y), b.At(x, y))
			}
		}
	}
}

func hasForeground(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r > 0x8000 {
				return true
			}
		}
	}
	return false
}

func testItems() []marquee.Item {
	return []marquee.Item{{Text: "Go"}, {Text: "Zig"}}
}

func TestSequenceWidthUsesFace(t *testing.T) {
	r := New(testItems(), marquee.DefaultConfig(), Options{})
	// basicfont.Face7x13 advances 7px per glyph
	assert.Equal(t, 14.0+32+21+32, r.SequenceWidth())
}

func TestRenderSize(t *testing.T) {
	r := New(testItems(), marquee.DefaultConfig(), Options{Width: 300, Height: 40})
	img := r.Render(0)
	assert.Equal(t, image.Rect(0, 0, 300, 40), img.Bounds())
	assert.True(t, hasForeground(img))
}

func TestRenderWrapIsSeamless(t *testing.T) {
	r := New(testItems(), marquee.DefaultConfig(), Options{Width: 300, Height: 40})
	seq := r.SequenceWidth()

	sameImage(t, r.Render(0), r.Render(seq))
	sameImage(t, r.Render(10), r.Render(10-seq))
}

func TestRenderEmptyIsBackground(t *testing.T) {
	bg := color.NRGBA{1, 2, 3, 255}
	r := New(nil, marquee.DefaultConfig(), Options{Width: 50, Height: 10, Background: bg})
	img := r.Render(0)
	assert.Equal(t, color.NRGBAModel.Convert(bg), color.NRGBAModel.Convert(img.At(25, 5)))
}

func TestImageItemsScaleToHeight(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.png")
	f, err := os.Create(src)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 20, 10))))
	require.NoError(t, f.Close())

	cfg := marquee.DefaultConfig()
	cfg.ItemHeight = 30
	r := New([]marquee.Item{{Src: src}, {Src: filepath.Join(dir, "missing.png"), Alt: "Gone"}}, cfg, Options{})
	// 30 * 20/10 for the image, 4 glyphs for the fallback label
	assert.Equal(t, 60.0+32+28+32, r.SequenceWidth())
}

func TestFrames(t *testing.T) {
	cfg := marquee.DefaultConfig()
	cfg.Speed = 300
	r := New(testItems(), cfg, Options{Width: 200, Height: 32})

	shots := r.Frames(30, 30)
	require.Len(t, shots, 30)
	for i, s := range shots {
		assert.GreaterOrEqual(t, s.Frame.Offset, 0.0, "frame %d", i)
		assert.Less(t, s.Frame.Offset, s.Frame.SequenceWidth, "frame %d", i)
		assert.Equal(t, image.Rect(0, 0, 200, 32), s.Image.Bounds())
	}
	assert.Greater(t, shots[29].Frame.Velocity, shots[0].Frame.Velocity, "velocity eases up")
	assert.Nil(t, r.Frames(0, 30))
	assert.Nil(t, r.Frames(3, 0))
}

func TestWritePNGAndFrames(t *testing.T) {
	r := New(testItems(), marquee.DefaultConfig(), Options{Width: 120, Height: 24})

	var buf bytes.Buffer
	require.NoError(t, r.WritePNG(&buf, 5))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 24), img.Bounds())

	dir := filepath.Join(t.TempDir(), "frames")
	paths, err := r.WriteFrames(dir, 3, 60)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "frame-002.png"), paths[2])
	_, err = os.Stat(paths[2])
	assert.NoError(t, err)
}
