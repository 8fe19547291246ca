package track

import (
	"context"
	"sync"
	"time"

	"github.com/SonBao99/gps-map-app/internal/geo"
)

// WatchOptions configures a live sample subscription.
type WatchOptions struct {
	MaxStaleness time.Duration
	Timeout      time.Duration
	HighAccuracy bool
}

func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		MaxStaleness: time.Second,
		Timeout:      10 * time.Second,
		HighAccuracy: true,
	}
}

// SampleSource yields raw position fixes asynchronously. The error
// channel delivers at most one error; after that the source is considered
// dead and the track degrades to an empty path. Cancellation happens
// through the context.
type SampleSource interface {
	Watch(ctx context.Context, opts WatchOptions) (<-chan geo.Coordinate, <-chan error, error)
}

// PushSource adapts externally pushed fixes (e.g. a browser posting
// geolocation updates over HTTP) to the SampleSource interface.
type PushSource struct {
	mu      sync.Mutex
	ctx     context.Context
	samples chan geo.Coordinate
	errs    chan error
	failed  bool
}

func NewPushSource() *PushSource {
	return &PushSource{
		samples: make(chan geo.Coordinate, 16),
		errs:    make(chan error, 1),
	}
}

func (s *PushSource) Watch(ctx context.Context, _ WatchOptions) (<-chan geo.Coordinate, <-chan error, error) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
	return s.samples, s.errs, nil
}

// Push forwards one fix to the watcher. Fixes pushed before Watch sit in
// the buffer until the watcher subscribes; pushes after cancellation or
// into a full buffer are dropped.
func (s *PushSource) Push(c geo.Coordinate) bool {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx != nil {
		select {
		case <-ctx.Done():
			return false
		default:
		}
	}
	select {
	case s.samples <- c:
		return true
	default:
		return false
	}
}

// Fail reports source unavailability. Only the first failure is
// delivered; later calls are no-ops.
func (s *PushSource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return
	}
	s.failed = true
	select {
	case s.errs <- err:
	default:
	}
}
