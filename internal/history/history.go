package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SonBao99/gps-map-app/internal/db"
	"github.com/SonBao99/gps-map-app/internal/geo"
	"github.com/SonBao99/gps-map-app/internal/track"

	"github.com/google/uuid"
)

const defaultListLimit = 50

// Repo persists finalized rides and lists them most-recent first.
type Repo struct {
	db db.Querier
}

func NewRepo(db db.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Save(ctx context.Context, ride track.Ride) (track.Ride, error) {
	if ride.ID == "" {
		ride.ID = uuid.NewString()
	}
	if ride.FinishedAt.IsZero() {
		ride.FinishedAt = time.Now()
	}
	pathJSON, err := json.Marshal(ride.Path)
	if err != nil {
		return track.Ride{}, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO rides (id, path, distance_m, duration_sec, average_speed_mps, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING finished_at
	`, ride.ID, pathJSON, ride.DistanceMeters, ride.DurationSeconds, ride.AverageSpeedMps, ride.FinishedAt)
	if err := row.Scan(&ride.FinishedAt); err != nil {
		return track.Ride{}, err
	}
	return ride, nil
}

func (r *Repo) List(ctx context.Context, limit int) ([]track.Ride, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, path, distance_m, duration_sec, average_speed_mps, finished_at
		FROM rides
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []track.Ride
	for rows.Next() {
		var ride track.Ride
		var pathJSON []byte
		if err := rows.Scan(&ride.ID, &pathJSON, &ride.DistanceMeters, &ride.DurationSeconds, &ride.AverageSpeedMps, &ride.FinishedAt); err != nil {
			return nil, err
		}
		if len(pathJSON) > 0 {
			var path []geo.Coordinate
			if err := json.Unmarshal(pathJSON, &path); err != nil {
				return nil, err
			}
			ride.Path = path
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}
