package route

import (
	"errors"

	"github.com/SonBao99/gps-map-app/internal/geo"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		origin := geo.Coordinate{Lat: c.QueryFloat("from_lat"), Lng: c.QueryFloat("from_lng")}
		dest := geo.Coordinate{Lat: c.QueryFloat("to_lat"), Lng: c.QueryFloat("to_lng")}

		result, err := svc.Lookup(c.Context(), origin, dest)
		if errors.Is(err, ErrNoRoute) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch directions")
		}
		return c.JSON(result)
	})
}
