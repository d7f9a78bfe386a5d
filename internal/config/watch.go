package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/marquee"
)

// DefaultDebounce collapses bursts of writes from editors into one reload.
const DefaultDebounce = 250 * time.Millisecond

// ItemsWatcher reloads the items manifest when it changes on disk. The
// parent directory is watched so atomic-rename saves are seen too.
type ItemsWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	Debounce time.Duration

	closeOnce sync.Once
}

// NewItemsWatcher starts watching the manifest's directory. The directory
// must exist.
func NewItemsWatcher(path string, log *zap.Logger) (*ItemsWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &ItemsWatcher{path: abs, watcher: w, log: log, Debounce: DefaultDebounce}, nil
}

// Run delivers reloaded items to onChange until ctx is done. onChange is
// never called concurrently with itself. Run closes the watcher on return.
func (iw *ItemsWatcher) Run(ctx context.Context, onChange func([]marquee.Item)) error {
	defer iw.Close()

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-iw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != iw.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(iw.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(iw.Debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			items, err := LoadItems(iw.path)
			if err != nil {
				iw.log.Warn("items manifest reload failed", zap.String("path", iw.path), zap.Error(err))
				continue
			}
			iw.log.Debug("items manifest reloaded", zap.String("path", iw.path), zap.Int("items", len(items)))
			if onChange != nil {
				onChange(items)
			}
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return nil
			}
			iw.log.Warn("items watcher error", zap.Error(err))
		}
	}
}

// Close stops the underlying watcher. It is safe to call more than once.
func (iw *ItemsWatcher) Close() error {
	var err error
	iw.closeOnce.Do(func() { err = iw.watcher.Close() })
	return err
}
