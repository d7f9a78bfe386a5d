// Package snapshot renders the marquee track to raster images with gg. It is
// used for visual checks of the loop without a window.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/edward-ap/folio/internal/marquee"
)

// Defaults for Options.
const (
	DefaultWidth  = 800
	DefaultHeight = 64
)

var (
	defaultBackground = color.NRGBA{0x12, 0x12, 0x12, 0xFF}
	defaultForeground = color.NRGBA{0xF0, 0xF0, 0xF0, 0xFF}
)

// Options control the canvas. Zero values pick the defaults.
type Options struct {
	Width, Height int
	Background    color.Color
	Foreground    color.Color
	Face          font.Face
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Background == nil {
		o.Background = defaultBackground
	}
	if o.Foreground == nil {
		o.Foreground = defaultForeground
	}
	if o.Face == nil {
		o.Face = basicfont.Face7x13
	}
	return o
}

// Renderer draws frames of one loop.
type Renderer struct {
	opts   Options
	cfg    marquee.Config
	items  []marquee.Item
	images []image.Image
	widths []float64
	seq    float64
}

// New measures items with the configured face. Image items whose source can
// not be loaded fall back to their label.
func New(items []marquee.Item, cfg marquee.Config, opts Options) *Renderer {
	r := &Renderer{opts: opts.withDefaults(), cfg: cfg.Normalize()}
	r.items = append([]marquee.Item(nil), items...)
	r.images = make([]image.Image, len(items))
	r.widths = make([]float64, len(items))

	dc := gg.NewContext(1, 1)
	dc.SetFontFace(r.opts.Face)
	for i, it := range r.items {
		if src := strings.TrimSpace(it.Src); src != "" {
			if img, err := gg.LoadImage(src); err == nil && img.Bounds().Dy() > 0 {
				r.images[i] = img
				b := img.Bounds()
				r.widths[i] = r.cfg.ItemHeight * float64(b.Dx()) / float64(b.Dy())
				continue
			}
		}
		if label := it.Label(); label != "" {
			r.widths[i], _ = dc.MeasureString(label)
		}
	}
	r.seq = marquee.SequenceWidth(r.widths, r.cfg.Gap)
	return r
}

// SequenceWidth is the measured width of one item sequence.
func (r *Renderer) SequenceWidth() float64 { return r.seq }

// Engine returns a measured engine for this renderer's canvas.
func (r *Renderer) Engine() *marquee.Engine {
	e := marquee.NewEngine(r.cfg)
	e.Measure(float64(r.opts.Width), r.seq)
	return e
}

// Render draws the track scrolled by offset.
func (r *Renderer) Render(offset float64) image.Image {
	w, h := r.opts.Width, r.opts.Height
	dc := gg.NewContext(w, h)
	dc.SetColor(r.opts.Background)
	dc.Clear()
	dc.SetFontFace(r.opts.Face)

	stride := math.Ceil(r.seq)
	copies, ok := marquee.CopyCount(float64(w), r.seq)
	if !ok {
		return dc.Image()
	}
	offset = marquee.Wrap(offset, stride)
	mid := float64(h) / 2

	for c := 0; c < copies; c++ {
		x := float64(c)*stride - offset
		for i, it := range r.items {
			iw := r.widths[i]
			if iw > 0 && x+iw >= 0 && x <= float64(w) {
				r.drawItem(dc, i, it, x, mid)
			}
			x += iw + r.cfg.Gap
		}
	}
	if r.cfg.FadeEdges {
		r.drawFades(dc)
	}
	return dc.Image()
}

func (r *Renderer) drawItem(dc *gg.Context, i int, it marquee.Item, x, mid float64) {
	if img := r.images[i]; img != nil {
		scale := r.cfg.ItemHeight / float64(img.Bounds().Dy())
		dc.Push()
		dc.Translate(x, mid-r.cfg.ItemHeight/2)
		dc.Scale(scale, scale)
		dc.DrawImage(img, 0, 0)
		dc.Pop()
		return
	}
	dc.SetColor(r.opts.Foreground)
	dc.DrawStringAnchored(it.Label(), x, mid, 0, 0.35)
}

func (r *Renderer) drawFades(dc *gg.Context) {
	w, h := float64(r.opts.Width), float64(r.opts.Height)
	fw := math.Min(math.Max(w*0.08, 24), 120)
	bg := color.NRGBAModel.Convert(r.opts.Background).(color.NRGBA)
	transparent := bg
	transparent.A = 0

	left := gg.NewLinearGradient(0, 0, fw, 0)
	left.AddColorStop(0, bg)
	left.AddColorStop(1, transparent)
	dc.SetFillStyle(left)
	dc.DrawRectangle(0, 0, fw, h)
	dc.Fill()

	right := gg.NewLinearGradient(w-fw, 0, w, 0)
	right.AddColorStop(0, transparent)
	right.AddColorStop(1, bg)
	dc.SetFillStyle(right)
	dc.DrawRectangle(w-fw, 0, fw, h)
	dc.Fill()
}

// WritePNG encodes the track at offset as PNG.
func (r *Renderer) WritePNG(w io.Writer, offset float64) error {
	return gg.NewContextForImage(r.Render(offset)).EncodePNG(w)
}

// Snapshot is one rendered frame.
type Snapshot struct {
	Frame marquee.Frame
	Image image.Image
}

// Frames integrates n frames at fps from rest and renders each one.
func (r *Renderer) Frames(n int, fps float64) []Snapshot {
	if n <= 0 || !(fps > 0) {
		return nil
	}
	e := r.Engine()
	dt := time.Duration(float64(time.Second) / fps)
	out := make([]Snapshot, 0, n)
	for i := 0; i < n; i++ {
		f := e.Advance(dt)
		out = append(out, Snapshot{Frame: f, Image: r.Render(f.Offset)})
	}
	return out
}

// WriteFrames stores Frames(n, fps) as frame-000.png, frame-001.png, ... in
// dir and returns the written paths.
func (r *Renderer) WriteFrames(dir string, n int, fps float64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for i, s := range r.Frames(n, fps) {
		p := filepath.Join(dir, fmt.Sprintf("frame-%03d.png", i))
		if err := gg.SavePNG(p, s.Image); err != nil {
			return paths, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
