package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/campusfund/fee-api/model"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records an admin ledger mutation after the wrapped handler has
// run. Logging is best-effort; a failed insert never fails the request.
func AuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		user, ok := GetUser(c)
		if !ok || !user.IsAdmin() {
			return err
		}

		// Only log mutations that the handler accepted
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsed, parseErr := strconv.ParseUint(id, 10, 32); parseErr == nil {
				resourceID = uint(parsed)
			}
		}

		var detail datatypes.JSON
		if body := c.Body(); len(body) > 0 && json.Valid(body) {
			detail = datatypes.JSON(body)
		}

		entry := model.AdminAuditLog{
			AdminID:     user.ID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			Detail:      detail,
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Description: c.Method() + " " + c.Path(),
		}
		db.Create(&entry)

		return err
	}
}
