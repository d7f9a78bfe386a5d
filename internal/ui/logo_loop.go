package ui

import (
	"image/color"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/marquee"
)

// LogoLoop is a horizontally looping strip of items. It owns a marquee
// animator that starts when the widget is first rendered and stops when the
// renderer is destroyed or Close is called.
type LogoLoop struct {
	widget.BaseWidget

	mu      sync.Mutex
	items   []marquee.Item
	widths  []float64
	version int
	cfg     marquee.Config
	frame   marquee.Frame
	rend    *logoLoopRenderer

	anim    *marquee.Animator
	tracker *marquee.Tracker
	log     *zap.Logger

	// OnFrame observes every frame; it runs on the animation goroutine.
	OnFrame func(marquee.Frame)
}

var _ desktop.Hoverable = (*LogoLoop)(nil)

// NewLogoLoop creates the widget. A nil logger discards logs.
func NewLogoLoop(items []marquee.Item, cfg marquee.Config, log *zap.Logger) *LogoLoop {
	if log == nil {
		log = zap.NewNop()
	}
	cfg = cfg.Normalize()
	l := &LogoLoop{cfg: cfg, log: log}
	l.items = append([]marquee.Item(nil), items...)
	l.widths = measureItems(l.items, cfg.ItemHeight)
	l.anim = marquee.NewAnimator(cfg, l.onFrame, marquee.WithLogger(log.Named("marquee")))
	l.tracker = marquee.NewTracker(marquee.MeasureFunc{
		Container: func() float64 { return float64(l.Size().Width) },
		Sequence:  l.sequenceWidth,
	}, l.anim)
	l.ExtendBaseWidget(l)
	return l
}

// CreateRenderer implements fyne.Widget and starts the animation loop.
func (l *LogoLoop) CreateRenderer() fyne.WidgetRenderer {
	r := &logoLoopRenderer{l: l, nodes: map[marquee.Key]fyne.CanvasObject{}, version: -1}
	r.lay = &trackLayout{}
	r.track = container.New(r.lay)
	r.clip = container.NewScroll(r.track)
	r.clip.Direction = container.ScrollNone
	r.fadeL = canvas.NewHorizontalGradient(theme.BackgroundColor(), color.Transparent)
	r.fadeR = canvas.NewHorizontalGradient(color.Transparent, theme.BackgroundColor())

	l.mu.Lock()
	l.rend = r
	l.mu.Unlock()

	r.applyFrame()
	l.remeasure()
	l.anim.Start()
	return r
}

// Resize re-measures the container on every size change.
func (l *LogoLoop) Resize(s fyne.Size) {
	l.BaseWidget.Resize(s)
	l.remeasure()
}

// SetItems replaces the content. Item identity is rebuilt and the sequence is
// re-measured; the scroll offset is kept.
func (l *LogoLoop) SetItems(items []marquee.Item) {
	l.mu.Lock()
	l.items = append([]marquee.Item(nil), items...)
	l.widths = measureItems(l.items, l.cfg.ItemHeight)
	l.version++
	r := l.rend
	l.mu.Unlock()

	l.remeasure()
	if r != nil {
		CallOnMain(r.applyFrame)
	}
}

// Items returns a copy of the current items.
func (l *LogoLoop) Items() []marquee.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]marquee.Item(nil), l.items...)
}

// SetConfig applies a new configuration without resetting the scroll state.
func (l *LogoLoop) SetConfig(cfg marquee.Config) {
	cfg = cfg.Normalize()
	l.mu.Lock()
	relayout := cfg.ItemHeight != l.cfg.ItemHeight || cfg.Gap != l.cfg.Gap
	l.cfg = cfg
	if relayout {
		l.widths = measureItems(l.items, cfg.ItemHeight)
		l.version++
	}
	l.mu.Unlock()

	l.anim.Reconfigure(cfg)
	l.remeasure()
	l.Refresh()
}

// Config returns the configuration in use.
func (l *LogoLoop) Config() marquee.Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// SetPaused forces the Held state on or off.
func (l *LogoLoop) SetPaused(on bool) {
	l.mu.Lock()
	l.cfg.Paused = on
	l.mu.Unlock()
	l.anim.SetPaused(on)
}

// Frame returns the last frame handed to the renderer.
func (l *LogoLoop) Frame() marquee.Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Close stops the animation loop. Safe to call more than once.
func (l *LogoLoop) Close() { l.anim.Stop() }

// MouseIn holds the loop when pause-on-hover is enabled.
func (l *LogoLoop) MouseIn(*desktop.MouseEvent) {
	if l.Config().PauseOnHover {
		l.anim.SetHovered(true)
	}
}

// MouseMoved is required by desktop.Hoverable.
func (l *LogoLoop) MouseMoved(*desktop.MouseEvent) {}

// MouseOut releases the hover hold.
func (l *LogoLoop) MouseOut() {
	if l.Config().PauseOnHover {
		l.anim.SetHovered(false)
	}
}

func (l *LogoLoop) onFrame(f marquee.Frame) {
	l.mu.Lock()
	l.frame = f
	r := l.rend
	obs := l.OnFrame
	l.mu.Unlock()

	if obs != nil {
		obs(f)
	}
	if r != nil {
		CallOnMain(r.applyFrame)
	}
}

// remeasure runs on mount, resize and content change.
func (l *LogoLoop) remeasure() bool { return l.tracker.Refresh() }

func (l *LogoLoop) sequenceWidth() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return marquee.SequenceWidth(l.widths, l.cfg.Gap)
}

type loopSnapshot struct {
	items   []marquee.Item
	widths  []float64
	version int
	cfg     marquee.Config
	frame   marquee.Frame
}

func (l *LogoLoop) snapshot() loopSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return loopSnapshot{items: l.items, widths: l.widths, version: l.version, cfg: l.cfg, frame: l.anim.Frame()}
}

// detach is called by the renderer on Destroy.
func (l *LogoLoop) detach(r *logoLoopRenderer) {
	l.anim.Stop()
	l.mu.Lock()
	if l.rend == r {
		l.rend = nil
	}
	l.mu.Unlock()
}

type logoLoopRenderer struct {
	l *LogoLoop

	mu      sync.Mutex
	lay     *trackLayout
	track   *fyne.Container
	clip    *container.Scroll
	fadeL   *canvas.LinearGradient
	fadeR   *canvas.LinearGradient
	nodes   map[marquee.Key]fyne.CanvasObject
	version int
	copies  int
	stride  float64
}

// applyFrame rebuilds the track when items or copy count changed and moves
// it to the current translate.
func (r *logoLoopRenderer) applyFrame() {
	s := r.l.snapshot()

	r.mu.Lock()
	stride := s.frame.SequenceWidth
	if stride <= 0 {
		stride = marquee.SequenceWidth(s.widths, s.cfg.Gap)
	}
	rebuilt := s.version != r.version || s.frame.CopyCount != r.copies || stride != r.stride
	if rebuilt {
		r.rebuildLocked(s, stride)
	}
	r.lay.translate = float32(s.frame.TranslateX)
	r.lay.Layout(r.track.Objects, r.track.Size())
	r.mu.Unlock()

	if rebuilt {
		r.track.Refresh()
		return
	}
	canvas.Refresh(r.track)
}

func (r *logoLoopRenderer) rebuildLocked(s loopSnapshot, stride float64) {
	if s.version != r.version {
		r.nodes = map[marquee.Key]fyne.CanvasObject{}
	}
	copies := marquee.Layout(s.items, s.frame.CopyCount)

	offsets := make([]float64, len(s.widths))
	x := 0.0
	for i, w := range s.widths {
		offsets[i] = x
		x += w + s.cfg.Gap
	}

	objs := make([]fyne.CanvasObject, 0, len(copies)*len(s.items))
	xs := make([]float32, 0, cap(objs))
	ws := make([]float32, 0, cap(objs))
	live := make(map[marquee.Key]bool, cap(objs))
	for _, cp := range copies {
		for _, slot := range cp.Slots {
			node, ok := r.nodes[slot.Key]
			if !ok {
				node = newItemNode(slot.Item, s.cfg.ItemHeight)
				r.nodes[slot.Key] = node
			}
			live[slot.Key] = true
			objs = append(objs, node)
			xs = append(xs, float32(float64(cp.Index)*stride+offsets[slot.Key.Item]))
			ws = append(ws, float32(s.widths[slot.Key.Item]))
		}
	}
	for k := range r.nodes {
		if !live[k] {
			delete(r.nodes, k)
		}
	}

	r.track.Objects = objs
	r.lay.xs, r.lay.ws = xs, ws
	r.lay.height = float32(s.cfg.ItemHeight)
	r.version = s.version
	r.copies = s.frame.CopyCount
	r.stride = stride
}

func (r *logoLoopRenderer) Layout(size fyne.Size) {
	r.clip.Move(fyne.NewPos(0, 0))
	r.clip.Resize(size)

	fade := r.l.Config().FadeEdges
	fw := float32(clampFloat64(float64(size.Width)*0.08, 24, 120))
	r.fadeL.Hidden, r.fadeR.Hidden = !fade, !fade
	r.fadeL.Move(fyne.NewPos(0, 0))
	r.fadeL.Resize(fyne.NewSize(fw, size.Height))
	r.fadeR.Move(fyne.NewPos(size.Width-fw, 0))
	r.fadeR.Resize(fyne.NewSize(fw, size.Height))
}

func (r *logoLoopRenderer) MinSize() fyne.Size {
	h := float32(r.l.Config().ItemHeight)
	return fyne.NewSize(h*2, h)
}

func (r *logoLoopRenderer) Refresh() {
	r.fadeL.StartColor = theme.BackgroundColor()
	r.fadeR.EndColor = theme.BackgroundColor()
	r.Layout(r.l.Size())
	r.applyFrame()
	canvas.Refresh(r.fadeL)
	canvas.Refresh(r.fadeR)
}

func (r *logoLoopRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.clip, r.fadeL, r.fadeR}
}

func (r *logoLoopRenderer) Destroy() { r.l.detach(r) }

// trackLayout places every node at its precomputed x shifted by translate.
// Its MinSize is only the item height so the clip never grows with the track.
type trackLayout struct {
	xs, ws    []float32
	height    float32
	translate float32
}

func (t *trackLayout) Layout(objs []fyne.CanvasObject, size fyne.Size) {
	y := (size.Height - t.height) / 2
	if y < 0 {
		y = 0
	}
	for i, o := range objs {
		if i >= len(t.xs) {
			break
		}
		o.Move(fyne.NewPos(t.translate+t.xs[i], y))
		o.Resize(fyne.NewSize(t.ws[i], t.height))
	}
}

func (t *trackLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, t.height)
}

// newItemNode renders an item as text, or as an image when Src is set.
func newItemNode(it marquee.Item, height float64) fyne.CanvasObject {
	if src := strings.TrimSpace(it.Src); src != "" {
		var img *canvas.Image
		if isRemote(src) {
			if u, err := storage.ParseURI(src); err == nil {
				img = canvas.NewImageFromURI(u)
			}
		}
		if img == nil {
			img = canvas.NewImageFromFile(src)
		}
		img.FillMode = canvas.ImageFillContain
		img.ScaleMode = canvas.ImageScaleSmooth
		return img
	}
	txt := canvas.NewText(it.Label(), theme.ForegroundColor())
	txt.TextSize = itemTextSize(height)
	txt.TextStyle = itemTextStyle
	txt.Alignment = fyne.TextAlignCenter
	return txt
}
