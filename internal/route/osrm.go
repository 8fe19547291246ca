package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SonBao99/gps-map-app/internal/geo"
)

// OSRMProvider fetches walking routes from an OSRM-compatible HTTP
// endpoint (route/v1/foot, GeoJSON geometry).
type OSRMProvider struct {
	baseURL string
	client  *http.Client
}

func NewOSRMProvider(baseURL string) *OSRMProvider {
	return &OSRMProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

func (p *OSRMProvider) Route(ctx context.Context, origin, dest geo.Coordinate) (Route, error) {
	// OSRM wants lng,lat order
	url := fmt.Sprintf("%s/route/v1/foot/%f,%f;%f,%f?overview=full&geometries=geojson",
		p.baseURL, origin.Lng, origin.Lat, dest.Lng, dest.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Route{}, fmt.Errorf("fetch directions: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("fetch directions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("fetch directions: status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("fetch directions: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return Route{}, ErrNoRoute
	}

	best := body.Routes[0]
	path := make([]geo.Coordinate, 0, len(best.Geometry.Coordinates))
	for _, c := range best.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		path = append(path, geo.Coordinate{Lat: c[1], Lng: c[0]})
	}
	return Route{Path: path, DistanceMeters: best.Distance, DurationSeconds: best.Duration}, nil
}
