package duckflat

import (
	"log/slog"
	"time"
)

// QueryObserver is notified after every Execute. Implementations must be
// safe for concurrent use.
type QueryObserver interface {
	ObserveQuery(stats QueryStats)
}

// QueryStats describes one executed query.
type QueryStats struct {
	QueryID  string
	Engine   string
	Rows     int
	Columns  int
	Bytes    int
	Duration time.Duration
	// Err is nil on success.
	Err error
}

// Option configures a Database, its connections, or a single Marshal call.
type Option func(*settings)

type settings struct {
	alloc    Allocator
	logger   *slog.Logger
	observer QueryObserver
}

func applyOptions(opts []Option) settings {
	s := settings{alloc: DefaultAllocator}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.alloc == nil {
		s.alloc = DefaultAllocator
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// WithAllocator sets the allocator used for result buffers.
func WithAllocator(alloc Allocator) Option {
	return func(s *settings) {
		s.alloc = alloc
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithObserver registers an observer of executed queries.
func WithObserver(observer QueryObserver) Option {
	return func(s *settings) {
		s.observer = observer
	}
}
