// Package feed polls a remote items manifest so a running loop picks up new
// projects without a restart.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edward-ap/folio/internal/config"
	"github.com/edward-ap/folio/internal/marquee"
)

const (
	// DefaultInterval is the refresh period after the first fetch.
	DefaultInterval = time.Minute

	pollTimeout = 5 * time.Second
	maxBody     = 1 << 20
	userAgent   = "folio-feed/1.0"
)

// ErrNotModified is returned by Fetch when the server answered 304.
var ErrNotModified = errors.New("feed: not modified")

// Poller fetches a YAML or JSON manifest ({"items": [...]}) over HTTP.
type Poller struct {
	URL      string
	Client   *http.Client
	Interval time.Duration

	log  *zap.Logger
	etag string
	last []marquee.Item
}

// NewPoller returns a poller for url. A nil client uses http.DefaultClient.
func NewPoller(url string, client *http.Client, log *zap.Logger) *Poller {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{URL: url, Client: client, Interval: DefaultInterval, log: log}
}

// Watch delivers the first manifest once it was fetched successfully, then
// refreshes every Interval and calls onUpdate only when the items changed.
// Failures after the first fetch are logged and retried on the next tick.
func (p *Poller) Watch(ctx context.Context, onUpdate func([]marquee.Item)) error {
	items, err := p.Fetch(ctx)
	if err != nil {
		return err
	}
	p.last = items
	onUpdate(items)

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			items, err := p.Fetch(ctx)
			switch {
			case errors.Is(err, ErrNotModified):
				continue
			case err != nil:
				p.log.Warn("feed refresh failed", zap.String("url", p.URL), zap.Error(err))
				continue
			}
			if slices.Equal(items, p.last) {
				continue
			}
			p.last = items
			onUpdate(items)
		}
	}
}

// Fetch performs a single request. It sends If-None-Match once the server
// handed out an ETag.
func (p *Poller) Fetch(ctx context.Context) ([]marquee.Item, error) {
	cctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(cctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.1")
	if p.etag != "" {
		req.Header.Set("If-None-Match", p.etag)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotModified {
		return nil, ErrNotModified
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed: %s answered %d", p.URL, resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}
	items, err := config.ParseItems(b)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("feed: manifest has no items")
	}
	p.etag = strings.TrimSpace(resp.Header.Get("ETag"))
	return items, nil
}
