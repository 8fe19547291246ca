package route

import (
	"context"
	"errors"
	"fmt"

	"github.com/SonBao99/gps-map-app/internal/geo"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// ErrNoRoute is returned when the directions provider cannot connect the
// origin and destination.
var ErrNoRoute = errors.New("no route found")

// Route is the result of a directions lookup: the point sequence to draw
// plus total distance and duration.
type Route struct {
	Path            []geo.Coordinate `json:"path"`
	DistanceMeters  float64          `json:"distance_m"`
	DurationSeconds float64          `json:"duration_sec"`
}

// Provider resolves a walking route between two coordinates. Any backend
// returning this shape is acceptable.
type Provider interface {
	Route(ctx context.Context, origin, dest geo.Coordinate) (Route, error)
}

// CacheKey builds the canonical cache key for an origin/destination pair.
// Coordinates are rounded to 6 decimal places (~0.11 m) so that float
// representations of the same physical point share a key.
func CacheKey(origin, dest geo.Coordinate) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", origin.Lat, origin.Lng, dest.Lat, dest.Lng)
}

// Service memoizes provider lookups in a bounded LRU cache. Concurrent
// misses for the same key share a single provider call.
type Service struct {
	provider Provider
	cache    *lru.Cache[string, Route]
	group    singleflight.Group
}

func NewService(provider Provider, cacheSize int) (*Service, error) {
	cache, err := lru.New[string, Route](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{provider: provider, cache: cache}, nil
}

// Lookup returns the route from origin to dest, serving repeat requests
// from the cache. Failed lookups are never cached.
func (s *Service) Lookup(ctx context.Context, origin, dest geo.Coordinate) (Route, error) {
	key := CacheKey(origin, dest)
	if r, ok := s.cache.Get(key); ok {
		return r, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		if r, ok := s.cache.Get(key); ok {
			return r, nil
		}
		r, err := s.provider.Route(ctx, origin, dest)
		if err != nil {
			return Route{}, err
		}
		s.cache.Add(key, r)
		return r, nil
	})
	if err != nil {
		return Route{}, err
	}
	return v.(Route), nil
}

// CacheLen reports the number of cached routes.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}
