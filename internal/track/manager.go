package track

import (
	"errors"
	"sync"

	"github.com/SonBao99/gps-map-app/internal/geo"

	"github.com/google/uuid"
)

var (
	ErrTrackNotFound = errors.New("track not found")
	ErrNotLiveTrack  = errors.New("track does not accept live samples")
)

// Manager owns the active tracks, one Runner per track ID. Live tracks
// get a PushSource so the HTTP layer can feed fixes in.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
	onStats func(trackID string, snap Snapshot)
}

type entry struct {
	runner *Runner
	push   *PushSource
}

func NewManager(onStats func(trackID string, snap Snapshot)) *Manager {
	return &Manager{
		entries: map[string]*entry{},
		onStats: onStats,
	}
}

// StartTrack creates a track in the given mode and returns its ID and
// initial snapshot.
func (m *Manager) StartTrack(mode Mode, demoRoute []geo.Coordinate) (string, Snapshot) {
	id := uuid.NewString()

	var push *PushSource
	var source SampleSource
	if mode == ModeLive {
		push = NewPushSource()
		source = push
	}

	runner := NewRunner(source, func(snap Snapshot) {
		if m.onStats != nil {
			m.onStats(id, snap)
		}
	})

	m.mu.Lock()
	m.entries[id] = &entry{runner: runner, push: push}
	m.mu.Unlock()

	return id, runner.Start(mode, demoRoute)
}

// Ingest feeds a live fix into a track's sample source. Fixes flow
// through the runner loop, so they land on the path in arrival order.
// The returned bool reports whether the fix was queued; pushes to a
// stopped track are dropped.
func (m *Manager) Ingest(id string, c geo.Coordinate) (bool, error) {
	e, err := m.lookup(id)
	if err != nil {
		return false, err
	}
	if e.push == nil {
		return false, ErrNotLiveTrack
	}
	return e.push.Push(c), nil
}

func (m *Manager) Snapshot(id string) (Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return e.runner.Snapshot(), nil
}

func (m *Manager) Stop(id string) (Snapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return e.runner.Stop(), nil
}

// Finish finalizes a track into a Ride and removes it from the registry.
func (m *Manager) Finish(id string) (Ride, error) {
	e, err := m.lookup(id)
	if err != nil {
		return Ride{}, err
	}
	ride, err := e.runner.Finish()
	if err != nil {
		return Ride{}, err
	}

	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return ride, nil
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrTrackNotFound
	}
	return e, nil
}
