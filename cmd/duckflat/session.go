package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/semihalev/duckflat"
	"github.com/semihalev/duckflat/internal/config"
	"github.com/semihalev/duckflat/internal/engines"
	"github.com/semihalev/duckflat/internal/logger"
	"github.com/semihalev/duckflat/internal/metrics"
	"github.com/semihalev/duckflat/internal/render"
)

// session is an open database with one connection and its supporting services.
type session struct {
	cfg     *config.Config
	log     *slog.Logger
	db      *duckflat.Database
	conn    *duckflat.Connection
	metrics *metrics.Collector
	server  *http.Server
}

func openSession(cfg *config.Config, errOut io.Writer) (*session, error) {
	s := &session{
		cfg: cfg,
		log: logger.Init(logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: errOut,
		}),
		metrics: metrics.New(),
	}

	db, err := engines.Open(cfg, "",
		duckflat.WithAllocator(engines.NewAllocator(cfg)),
		duckflat.WithLogger(s.log),
		duckflat.WithObserver(s.metrics),
	)
	if err != nil {
		return nil, err
	}
	s.db = db

	conn, err := db.Connect()
	if err != nil {
		db.Close()
		return nil, err
	}
	s.conn = conn

	if cfg.Metrics.Addr != "" {
		s.serveMetrics(cfg.Metrics.Addr)
	}
	s.log.Debug("session opened", "engine", db.Engine(), "path", cfg.Path, "version", db.Version())
	return s, nil
}

func (s *session) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	s.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	s.log.Info("serving metrics", "addr", addr)
}

// run executes query and renders the result or the error to w.
func (s *session) run(w io.Writer, query string) error {
	var res duckflat.Result
	defer res.Destroy()

	if err := s.conn.Execute(query, &res); err != nil {
		return err
	}

	switch strings.ToLower(s.cfg.Output.Format) {
	case "html":
		return render.HTML(w, &res)
	default:
		return render.Text(w, &res)
	}
}

func (s *session) Close() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Warn("metrics server shutdown", "error", err)
		}
	}

	var errs []error
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}
