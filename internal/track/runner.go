package track

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/SonBao99/gps-map-app/internal/geo"
)

// Runner drives a Tracker with real timers and a live sample source. One
// Runner owns one track from Start to Stop/Finish.
type Runner struct {
	tracker *Tracker
	source  SampleSource
	onStats func(Snapshot)

	statsInterval time.Duration
	demoInterval  time.Duration
	now           func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(source SampleSource, onStats func(Snapshot)) *Runner {
	return &Runner{
		tracker:       NewTracker(),
		source:        source,
		onStats:       onStats,
		statsInterval: StatsTickInterval,
		demoInterval:  DemoStepInterval,
		now:           time.Now,
	}
}

// Start begins a new track and launches the feed loop.
func (r *Runner) Start(mode Mode, demoRoute []geo.Coordinate) Snapshot {
	snap := r.tracker.Start(mode, demoRoute, r.now())

	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancel = cancel
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()
	go r.run(ctx, mode, done)

	r.emit(snap)
	return snap
}

// Stop halts the track: the tracker stops accepting mutations first, so a
// sample or tick already in flight lands as a no-op, then the timers and
// the source subscription are cancelled. Stopping twice is harmless.
func (r *Runner) Stop() Snapshot {
	snap := r.tracker.Stop()
	r.cancelFeed()
	return snap
}

// Finish stops the feed and finalizes the track into a Ride.
func (r *Runner) Finish() (Ride, error) {
	r.cancelFeed()
	return r.tracker.Finish(r.now())
}

func (r *Runner) cancelFeed() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Snapshot returns the current state without mutating it.
func (r *Runner) Snapshot() Snapshot {
	return r.tracker.Snapshot()
}

func (r *Runner) run(ctx context.Context, mode Mode, done chan struct{}) {
	defer close(done)

	if mode == ModeDemo {
		r.runDemo(ctx)
		return
	}
	r.runLive(ctx)
}

func (r *Runner) runLive(ctx context.Context) {
	var samples <-chan geo.Coordinate
	var errs <-chan error
	if r.source != nil {
		s, e, err := r.source.Watch(ctx, DefaultWatchOptions())
		if err != nil {
			// degraded: no samples for this track attempt
			log.Printf("sample source unavailable: %v", err)
		} else {
			samples, errs = s, e
		}
	}

	ticker := time.NewTicker(r.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-samples:
			if !ok {
				samples = nil
				continue
			}
			snap, accepted := r.tracker.HandleSample(c, r.now())
			if accepted {
				r.emit(snap)
			}
		case err := <-errs:
			// single failure signal, keep the track alive with no samples
			log.Printf("sample source failed: %v", err)
			errs = nil
		case <-ticker.C:
			r.emit(r.tracker.Tick(r.now()))
		}
	}
}

func (r *Runner) runDemo(ctx context.Context) {
	ticker := time.NewTicker(r.demoInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, done := r.tracker.AdvanceDemo(r.now())
			r.emit(snap)
			if done {
				return
			}
		}
	}
}

func (r *Runner) emit(snap Snapshot) {
	if r.onStats != nil {
		r.onStats(snap)
	}
}
