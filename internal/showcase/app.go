// Package showcase wires the logo loop, its controls and the contact form
// into the folio desktop window.
package showcase

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/config"
	"github.com/edward-ap/folio/internal/feed"
	"github.com/edward-ap/folio/internal/marquee"
	"github.com/edward-ap/folio/internal/platform/windowpos"
	"github.com/edward-ap/folio/internal/ui"
)

const (
	windowTitle = "Folio"
	idleText    = "Ready"
	pausedText  = "Paused"
	maxSpeed    = 400
	saveDelay   = 400 * time.Millisecond
)

// Options configure a showcase App.
type Options struct {
	Config *config.Config
	// Items overrides the manifest; nil loads Config.ResolvedItemsPath.
	Items []marquee.Item
	// Submitter receives contact-form posts; nil builds a contact.Client for
	// Config.ContactEndpoint.
	Submitter Submitter
	// Watch enables hot reload of the items manifest, or polling of
	// Config.ItemsURL when it is set.
	Watch bool
	Log   *zap.Logger
}

// App owns the window, the loop and its controls. It persists the marquee
// settings and window geometry on close.
type App struct {
	fa  fyne.App
	w   fyne.Window
	cfg *config.Config
	log *zap.Logger

	loop   *ui.LogoLoop
	ticker *ui.TickerController
	ind    *ui.MotionIndicator
	speed  *ui.SpeedSlider
	pause  *widget.Button
	form   *contactForm

	itemsPath string
	cancel    context.CancelFunc
	watchDone chan struct{}

	saveMu    sync.Mutex
	saveTimer *time.Timer
	closeOnce sync.Once
}

// New builds the window on fa. It does not show it.
func New(fa fyne.App, opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("showcase: config is required")
	}

	items := opts.Items
	itemsPath := cfg.ResolvedItemsPath()
	if items == nil {
		var err error
		if items, err = config.LoadItems(itemsPath); err != nil {
			return nil, fmt.Errorf("load items: %w", err)
		}
	}
	sub := opts.Submitter
	if sub == nil {
		sub = newClient(cfg.ContactEndpoint)
	}

	a := &App{fa: fa, cfg: cfg, log: log, itemsPath: itemsPath}
	a.w = fa.NewWindow(windowTitle)
	a.w.SetMaster()

	a.loop = ui.NewLogoLoop(items, cfg.MarqueeConfig(), log)
	a.ticker = ui.NewTickerController(idleText, log)
	a.ind = ui.NewMotionIndicator(12)
	a.loop.OnFrame = func(f marquee.Frame) { a.ind.Update(f, a.loop.Config().Speed) }
	a.form = newContactForm(sub, func(text string) { a.ticker.Flash(text, ui.DefaultFlashDuration) })

	a.w.SetContent(a.buildContent())
	a.w.Resize(fyne.NewSize(float32(cfg.WindowW), float32(cfg.WindowH)))
	a.w.SetCloseIntercept(a.Close)
	a.w.Canvas().SetOnTypedKey(a.handleKey)
	a.restoreWindowPlacement()

	if a.loop.Config().Paused {
		a.ticker.SetText(pausedText)
	}
	if opts.Watch {
		a.startWatcher()
	}
	return a, nil
}

// Window returns the main window.
func (a *App) Window() fyne.Window { return a.w }

// Run shows the window and enters the fyne event loop.
func (a *App) Run() { a.w.ShowAndRun() }

func (a *App) buildContent() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Projects", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	header := container.NewHBox(a.ind.CanvasObject(), title)

	stripBg := canvas.NewRectangle(color.NRGBA{0x00, 0x99, 0xFF, 0x18})
	strip := container.NewStack(stripBg, container.NewPadded(a.loop))

	mc := a.loop.Config()
	a.speed = ui.NewSpeedSlider(maxSpeed)
	a.speed.Value = ui.SignedVelocity(mc.Speed, mc.Direction)
	speedLbl := widget.NewLabel(speedLabel(a.speed.Value))
	a.speed.OnChanged = func(v float64) {
		speedLbl.SetText(speedLabel(v))
		a.setVelocity(v)
	}
	a.pause = widget.NewButtonWithIcon("", pauseIcon(mc.Paused), a.togglePause)
	a.pause.Importance = widget.LowImportance
	hover := widget.NewCheck("Pause on hover", a.setPauseOnHover)
	hover.SetChecked(mc.PauseOnHover)
	fade := widget.NewCheck("Fade edges", a.setFadeEdges)
	fade.SetChecked(mc.FadeEdges)

	controls := container.NewBorder(nil, nil,
		a.pause,
		container.NewHBox(speedLbl, hover, fade),
		a.speed,
	)

	tickerBg := canvas.NewRectangle(color.NRGBA{0x1a, 0x1a, 0x1a, 0xFF})
	status := container.NewStack(tickerBg, container.NewPadded(a.ticker.CanvasObject()))

	top := container.NewVBox(header, strip, controls, widget.NewSeparator())
	return container.NewBorder(top, status, nil, nil, container.NewPadded(a.form.CanvasObject()))
}

func speedLabel(v float64) string {
	return fmt.Sprintf("%+4.0f px/s", v)
}

func pauseIcon(paused bool) fyne.Resource {
	if paused {
		return theme.MediaPlayIcon()
	}
	return theme.MediaPauseIcon()
}

// handleKey processes shortcuts while no entry has focus.
func (a *App) handleKey(ke *fyne.KeyEvent) {
	if ke == nil {
		return
	}
	switch ke.Name {
	case fyne.KeySpace:
		a.togglePause()
	case fyne.KeyLeft:
		a.speed.SetValue(a.speed.Value - a.speed.Step)
	case fyne.KeyRight:
		a.speed.SetValue(a.speed.Value + a.speed.Step)
	}
}

// togglePause flips the external pause.
func (a *App) togglePause() {
	paused := !a.loop.Config().Paused
	a.loop.SetPaused(paused)
	a.pause.SetIcon(pauseIcon(paused))
	if paused {
		a.ticker.SetText(pausedText)
	} else {
		a.ticker.SetText(idleText)
	}
	a.scheduleSave()
}

// setVelocity applies a signed slider value as speed plus direction.
func (a *App) setVelocity(v float64) {
	speed, dir := ui.SplitVelocity(v)
	mc := a.loop.Config()
	mc.Speed, mc.Direction = speed, dir
	a.loop.SetConfig(mc)
	a.scheduleSave()
}

func (a *App) setPauseOnHover(on bool) {
	mc := a.loop.Config()
	mc.PauseOnHover = on
	a.loop.SetConfig(mc)
	a.scheduleSave()
}

func (a *App) setFadeEdges(on bool) {
	mc := a.loop.Config()
	mc.FadeEdges = on
	a.loop.SetConfig(mc)
	a.scheduleSave()
}

// scheduleSave persists settings once the user stops fiddling.
func (a *App) scheduleSave() {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	if a.saveTimer != nil {
		a.saveTimer.Stop()
	}
	a.saveTimer = time.AfterFunc(saveDelay, func() {
		a.saveMu.Lock()
		defer a.saveMu.Unlock()
		_ = a.saveLocked()
	})
}

func (a *App) saveLocked() error {
	a.cfg.SetMarqueeConfig(a.loop.Config())
	if err := a.cfg.Save(); err != nil {
		a.log.Warn("config save failed", zap.String("path", a.cfg.Path()), zap.Error(err))
		return err
	}
	return nil
}

// startWatcher reloads items when the manifest changes. The manifest
// directory is created so the watch can be installed before the file exists.
func (a *App) startWatcher() {
	if a.cfg.ItemsURL != "" {
		a.startFeed()
		return
	}
	if a.itemsPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.itemsPath), 0o755); err != nil {
		a.log.Warn("items directory unavailable", zap.Error(err))
		return
	}
	iw, err := config.NewItemsWatcher(a.itemsPath, a.log.Named("items"))
	if err != nil {
		a.log.Warn("items watcher unavailable", zap.Error(err))
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.watchDone = make(chan struct{})
	go func() {
		defer close(a.watchDone)
		_ = iw.Run(ctx, a.applyItems)
	}()
}

// startFeed polls the remote manifest instead of watching the local one.
func (a *App) startFeed() {
	p := feed.NewPoller(a.cfg.ItemsURL, nil, a.log.Named("feed"))
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.watchDone = make(chan struct{})
	go func() {
		defer close(a.watchDone)
		if err := p.Watch(ctx, a.applyItems); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn("items feed stopped", zap.String("url", a.cfg.ItemsURL), zap.Error(err))
		}
	}()
}

func (a *App) applyItems(items []marquee.Item) {
	a.loop.SetItems(items)
	a.ticker.Flash(fmt.Sprintf("Loaded %d items", len(items)), ui.DefaultFlashDuration)
}

// restoreWindowPlacement moves the window to its persisted position. The
// native window may not exist yet right after creation, so it retries.
func (a *App) restoreWindowPlacement() {
	if !a.cfg.WindowPosValid {
		return
	}
	p := windowpos.Placement{X: a.cfg.WindowX, Y: a.cfg.WindowY}
	if windowpos.Apply(a.w, p) {
		return
	}
	go func() {
		for i := 0; i < 10; i++ {
			time.Sleep(150 * time.Millisecond)
			if windowpos.Apply(a.w, p) {
				return
			}
		}
	}()
}

func (a *App) captureWindowPlacement() {
	if p, ok := windowpos.Get(a.w); ok {
		a.cfg.WindowX, a.cfg.WindowY = p.X, p.Y
		a.cfg.WindowPosValid = true
	}
}

// Close saves the config, stops background work and quits the app.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.saveMu.Lock()
		if a.saveTimer != nil {
			a.saveTimer.Stop()
		}
		sz := a.w.Canvas().Size()
		if sz.Width > 0 && sz.Height > 0 {
			a.cfg.WindowW, a.cfg.WindowH = int(sz.Width), int(sz.Height)
		}
		a.captureWindowPlacement()
		_ = a.saveLocked()
		a.saveMu.Unlock()

		if a.cancel != nil {
			a.cancel()
			<-a.watchDone
		}
		a.loop.Close()
		a.ticker.Close()
		a.w.Close()
		a.fa.Quit()
	})
}
