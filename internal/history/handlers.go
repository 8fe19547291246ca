package history

import (
	"github.com/SonBao99/gps-map-app/internal/track"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, repo *Repo) {
	r.Get("/", func(c *fiber.Ctx) error {
		rides, err := repo.List(c.Context(), c.QueryInt("limit"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if rides == nil {
			rides = []track.Ride{}
		}
		return c.JSON(rides)
	})
}
