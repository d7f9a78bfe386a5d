package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edward-ap/folio/internal/marquee"
)

func TestFetchJSONManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[{"text":"Go"},{"src":"logos/react.svg","alt":"React"}]}`)
	}))
	defer srv.Close()

	items, err := NewPoller(srv.URL, srv.Client(), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []marquee.Item{{Text: "Go"}, {Src: "logos/react.svg", Alt: "React"}}, items)
}

func TestFetchErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"not found": func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
		"broken":    func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "items: [\n") },
		"empty":     func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, "items: []\n") },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := NewPoller(srv.URL, srv.Client(), nil).Fetch(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFetchSendsETag(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		io.WriteString(w, "items:\n  - text: Go\n")
	}))
	defer srv.Close()

	p := NewPoller(srv.URL, srv.Client(), nil)
	_, err := p.Fetch(context.Background())
	require.NoError(t, err)
	_, err = p.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNotModified)
	assert.Equal(t, int32(2), hits.Load())
}

func TestWatchDeliversChangesOnly(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch n := hits.Add(1); {
		case n <= 2:
			io.WriteString(w, "items:\n  - text: one\n")
		case n == 3:
			http.Error(w, "busy", http.StatusServiceUnavailable)
		default:
			io.WriteString(w, "items:\n  - text: one\n  - text: two\n")
		}
	}))
	defer srv.Close()

	p := NewPoller(srv.URL, srv.Client(), nil)
	p.Interval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan []marquee.Item, 8)
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx, func(items []marquee.Item) { got <- items }) }()

	select {
	case items := <-got:
		assert.Equal(t, []marquee.Item{{Text: "one"}}, items)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for first manifest")
	}
	select {
	case items := <-got:
		assert.Equal(t, []marquee.Item{{Text: "one"}, {Text: "two"}}, items)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for update")
	}
	assert.GreaterOrEqual(t, hits.Load(), int32(4), "unchanged and failed polls are not delivered")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestWatchFailsOnFirstFetch(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := NewPoller(srv.URL, srv.Client(), nil).Watch(ctx, func([]marquee.Item) {
		t.Error("no items expected")
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}
