package track

import (
	"context"
	"errors"

	"github.com/SonBao99/gps-map-app/internal/geo"

	"github.com/gofiber/fiber/v2"
)

// RideSaver persists finalized rides; implemented by history.Repo.
type RideSaver interface {
	Save(ctx context.Context, ride Ride) (Ride, error)
}

type startRequest struct {
	Mode  Mode             `json:"mode"`
	Route []geo.Coordinate `json:"route,omitempty"`
}

type sampleRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func RegisterRoutes(r fiber.Router, m *Manager, rides RideSaver) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Mode == "" {
			req.Mode = ModeLive
		}
		if req.Mode != ModeLive && req.Mode != ModeDemo {
			return fiber.NewError(fiber.StatusBadRequest, "mode must be live or demo")
		}
		id, snap := m.StartTrack(req.Mode, req.Route)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "snapshot": snap})
	})

	r.Post("/:id/samples", func(c *fiber.Ctx) error {
		var req sampleRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		queued, err := m.Ingest(c.Params("id"), geo.Coordinate{Lat: req.Lat, Lng: req.Lng})
		if errors.Is(err, ErrTrackNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if errors.Is(err, ErrNotLiveTrack) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"queued": queued})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		snap, err := m.Snapshot(c.Params("id"))
		if errors.Is(err, ErrTrackNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(snap)
	})

	r.Post("/:id/stop", func(c *fiber.Ctx) error {
		snap, err := m.Stop(c.Params("id"))
		if errors.Is(err, ErrTrackNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return c.JSON(snap)
	})

	r.Post("/:id/finish", func(c *fiber.Ctx) error {
		ride, err := m.Finish(c.Params("id"))
		if errors.Is(err, ErrTrackNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if errors.Is(err, ErrNoTrack) || errors.Is(err, ErrFinished) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if rides != nil {
			saved, err := rides.Save(c.Context(), ride)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			ride = saved
		}
		return c.Status(fiber.StatusCreated).JSON(ride)
	})
}
