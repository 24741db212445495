package handlers

import (
	"github.com/campusfund/fee-api/database"
	"github.com/campusfund/fee-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth reports whether the API and its database are reachable
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable", "SERVICE_UNAVAILABLE")
		}
		return response.Success(c, fiber.Map{"status": "ok"})
	}
}
