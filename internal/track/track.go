package track

import (
	"errors"
	"sync"
	"time"

	"github.com/SonBao99/gps-map-app/internal/geo"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

type State int

const (
	StateIdle State = iota
	StateTrackingLive
	StateTrackingDemo
	StateFinished
)

const (
	// Live samples closer than this to the last accepted point are GPS
	// jitter and get dropped.
	JitterThresholdM = 5.0

	// Elapsed-time refresh cadence in live mode.
	StatsTickInterval = time.Second

	// Cadence at which demo mode replays the next reference point.
	DemoStepInterval = 2200 * time.Millisecond
)

var (
	ErrNoTrack  = errors.New("no track to finalize")
	ErrFinished = errors.New("track already finalized")
)

// Snapshot is an immutable view of the current path and derived stats.
type Snapshot struct {
	Path            []geo.Coordinate `json:"path"`
	TotalDistanceM  float64          `json:"total_distance_m"`
	ElapsedSeconds  int64            `json:"elapsed_sec"`
	AverageSpeedMps float64          `json:"average_speed_mps"`
}

// Ride is a finalized track.
type Ride struct {
	ID              string           `json:"id"`
	Path            []geo.Coordinate `json:"path"`
	DistanceMeters  float64          `json:"distance_m"`
	DurationSeconds int64            `json:"duration_sec"`
	AverageSpeedMps float64          `json:"average_speed_mps"`
	FinishedAt      time.Time        `json:"finished_at"`
}

// Tracker accumulates a stream of position samples into a path with live
// stats. Every transition takes the current time explicitly and returns a
// snapshot, so the state machine runs without timers or a location source;
// Runner supplies those.
type Tracker struct {
	mu        sync.Mutex
	state     State
	path      []geo.Coordinate
	startedAt time.Time
	elapsed   int64
	demoRoute []geo.Coordinate
	demoNext  int
	finalized bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Start resets the tracker and begins a new track. In demo mode the
// reference route is copied and its first point seeds the path; routes
// with fewer than 2 points fall back to the built-in loop.
func (t *Tracker) Start(mode Mode, demoRoute []geo.Coordinate, now time.Time) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.path = nil
	t.elapsed = 0
	t.startedAt = now
	t.finalized = false
	t.demoRoute = nil
	t.demoNext = 0

	if mode == ModeDemo {
		ref := demoRoute
		if len(ref) < 2 {
			ref = FallbackRoute()
		}
		t.demoRoute = append([]geo.Coordinate(nil), ref...)
		t.path = []geo.Coordinate{t.demoRoute[0]}
		t.demoNext = 1
		t.state = StateTrackingDemo
	} else {
		t.state = StateTrackingLive
	}
	return t.snapshotLocked()
}

// HandleSample feeds one raw live fix. The sample is accepted only when
// the path is empty or the fix is more than JitterThresholdM from the
// last accepted point. Outside live tracking it is a silent no-op.
func (t *Tracker) HandleSample(c geo.Coordinate, now time.Time) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateTrackingLive {
		return t.snapshotLocked(), false
	}
	if len(t.path) > 0 {
		last := t.path[len(t.path)-1]
		if geo.DistanceMeters(last, c) <= JitterThresholdM {
			return t.snapshotLocked(), false
		}
	}
	t.path = append(t.path, c)
	t.refreshLocked(now)
	return t.snapshotLocked(), true
}

// Tick refreshes elapsed time and average speed while tracking.
func (t *Tracker) Tick(now time.Time) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateTrackingLive || t.state == StateTrackingDemo {
		t.refreshLocked(now)
	}
	return t.snapshotLocked()
}

// AdvanceDemo appends the next reference point in demo mode. It reports
// done once the last point has been appended, at which point the tracker
// is Finished.
func (t *Tracker) AdvanceDemo(now time.Time) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateTrackingDemo || t.demoNext >= len(t.demoRoute) {
		return t.snapshotLocked(), t.state == StateFinished
	}
	t.path = append(t.path, t.demoRoute[t.demoNext])
	t.demoNext++
	t.refreshLocked(now)

	if len(t.path) == len(t.demoRoute) {
		t.state = StateFinished
		return t.snapshotLocked(), true
	}
	return t.snapshotLocked(), false
}

// Stop halts tracking but keeps the accumulated path and stats visible.
// Stopping an idle tracker is a no-op.
func (t *Tracker) Stop() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateTrackingLive || t.state == StateTrackingDemo {
		t.state = StateIdle
	}
	return t.snapshotLocked()
}

// Finish converts the current path and stats into a Ride. It succeeds at
// most once per track.
func (t *Tracker) Finish(now time.Time) (Ride, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finalized {
		return Ride{}, ErrFinished
	}
	if t.startedAt.IsZero() {
		return Ride{}, ErrNoTrack
	}
	if t.state == StateTrackingLive || t.state == StateTrackingDemo {
		t.refreshLocked(now)
	}
	t.finalized = true
	t.state = StateFinished

	snap := t.snapshotLocked()
	return Ride{
		ID:              uuid.NewString(),
		Path:            snap.Path,
		DistanceMeters:  snap.TotalDistanceM,
		DurationSeconds: snap.ElapsedSeconds,
		AverageSpeedMps: snap.AverageSpeedMps,
		FinishedAt:      now,
	}, nil
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Snapshot returns the current path and stats without mutating anything.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) refreshLocked(now time.Time) {
	elapsed := int64(now.Sub(t.startedAt) / time.Second)
	if elapsed < t.elapsed {
		elapsed = t.elapsed
	}
	t.elapsed = elapsed
}

func (t *Tracker) snapshotLocked() Snapshot {
	dist := geo.PathDistanceMeters(t.path)
	div := t.elapsed
	if div < 1 {
		div = 1
	}
	return Snapshot{
		Path:            append([]geo.Coordinate(nil), t.path...),
		TotalDistanceM:  dist,
		ElapsedSeconds:  t.elapsed,
		AverageSpeedMps: dist / float64(div),
	}
}
