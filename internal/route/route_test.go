package route

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SonBao99/gps-map-app/internal/geo"
)

type countingProvider struct {
	calls   atomic.Int64
	route   Route
	err     error
	release chan struct{}
}

func (p *countingProvider) Route(_ context.Context, _, _ geo.Coordinate) (Route, error) {
	p.calls.Add(1)
	if p.release != nil {
		<-p.release
	}
	if p.err != nil {
		return Route{}, p.err
	}
	return p.route, nil
}

var testRoute = Route{
	Path:            []geo.Coordinate{{Lat: 21.0285, Lng: 105.8542}, {Lat: 21.03, Lng: 105.85}},
	DistanceMeters:  512.4,
	DurationSeconds: 420,
}

func TestLookupCachesResult(t *testing.T) {
	provider := &countingProvider{route: testRoute}
	svc, err := NewService(provider, 8)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	origin := geo.Coordinate{Lat: 21.0285, Lng: 105.8542}
	dest := geo.Coordinate{Lat: 21.03, Lng: 105.85}

	first, err := svc.Lookup(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	second, err := svc.Lookup(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	if provider.calls.Load() != 1 {
		t.Fatalf("expected one provider call, got %d", provider.calls.Load())
	}
	if len(first.Path) != len(second.Path) || first.DistanceMeters != second.DistanceMeters {
		t.Fatalf("cached route differs: %+v vs %+v", first, second)
	}
}

func TestLookupDistinctKeysMiss(t *testing.T) {
	provider := &countingProvider{route: testRoute}
	svc, _ := NewService(provider, 8)

	origin := geo.Coordinate{Lat: 21.0285, Lng: 105.8542}
	if _, err := svc.Lookup(context.Background(), origin, geo.Coordinate{Lat: 21.03, Lng: 105.85}); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := svc.Lookup(context.Background(), origin, geo.Coordinate{Lat: 21.04, Lng: 105.85}); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if provider.calls.Load() != 2 {
		t.Fatalf("expected two provider calls, got %d", provider.calls.Load())
	}
}

func TestCacheKeyRounding(t *testing.T) {
	a := geo.Coordinate{Lat: 21.028511, Lng: 105.854199}
	b := geo.Coordinate{Lat: 21.0285110000001, Lng: 105.8541990000001}
	dest := geo.Coordinate{Lat: 21.03, Lng: 105.85}

	if CacheKey(a, dest) != CacheKey(b, dest) {
		t.Fatalf("float representation changed the key")
	}
	if CacheKey(a, dest) == CacheKey(dest, a) {
		t.Fatalf("origin and destination must not be interchangeable")
	}
}

func TestLookupFailureNotCached(t *testing.T) {
	provider := &countingProvider{err: ErrNoRoute}
	svc, _ := NewService(provider, 8)

	origin := geo.Coordinate{Lat: 1, Lng: 1}
	dest := geo.Coordinate{Lat: 2, Lng: 2}

	if _, err := svc.Lookup(context.Background(), origin, dest); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
	if svc.CacheLen() != 0 {
		t.Fatalf("failure must not populate the cache")
	}

	provider.err = nil
	provider.route = testRoute
	if _, err := svc.Lookup(context.Background(), origin, dest); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if provider.calls.Load() != 2 {
		t.Fatalf("expected retry to reach the provider")
	}
}

func TestLookupSingleFlight(t *testing.T) {
	provider := &countingProvider{route: testRoute, release: make(chan struct{})}
	svc, _ := NewService(provider, 8)

	origin := geo.Coordinate{Lat: 21.0285, Lng: 105.8542}
	dest := geo.Coordinate{Lat: 21.03, Lng: 105.85}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Lookup(context.Background(), origin, dest); err != nil {
				t.Errorf("lookup: %v", err)
			}
		}()
	}

	// let the goroutines pile up on the in-flight call
	for provider.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	if provider.calls.Load() != 1 {
		t.Fatalf("expected a single shared provider call, got %d", provider.calls.Load())
	}
}

func TestCacheBounded(t *testing.T) {
	provider := &countingProvider{route: testRoute}
	svc, _ := NewService(provider, 2)

	origin := geo.Coordinate{}
	for i := 1; i <= 3; i++ {
		dest := geo.Coordinate{Lat: float64(i)}
		if _, err := svc.Lookup(context.Background(), origin, dest); err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
	}
	if svc.CacheLen() != 2 {
		t.Fatalf("expected eviction to cap the cache at 2, got %d", svc.CacheLen())
	}

	// oldest entry was evicted, looking it up again hits the provider
	if _, err := svc.Lookup(context.Background(), origin, geo.Coordinate{Lat: 1}); err != nil {
		t.Fatalf("lookup evicted: %v", err)
	}
	if provider.calls.Load() != 4 {
		t.Fatalf("expected four provider calls, got %d", provider.calls.Load())
	}
}

func TestNewServiceInvalidSize(t *testing.T) {
	if _, err := NewService(&countingProvider{}, 0); err == nil {
		t.Fatalf("expected error for non-positive cache size")
	}
}
