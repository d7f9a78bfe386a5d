package contact

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultPath is where the endpoint is mounted.
const DefaultPath = "/api/contact"

// legacyPath keeps old form builds that posted to the serverless route working.
const legacyPath = "/.netlify/functions/contact"

const shutdownGrace = 5 * time.Second

// Server serves the contact endpoint until its context is cancelled.
type Server struct {
	Addr    string
	Handler http.Handler
	log     *zap.Logger
}

// NewServer mounts h at DefaultPath (and the legacy route) on addr.
func NewServer(addr string, h http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle(DefaultPath, h)
	mux.Handle(legacyPath, h)
	return &Server{Addr: addr, Handler: mux, log: log}
}

// Run listens on Addr and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. It
// returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("contact endpoint listening", zap.String("addr", ln.Addr().String()), zap.String("path", DefaultPath))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.log.Info("contact endpoint shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
