package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth answers the frontend liveness probe with the literal
// body the status banner matches on.
func HandleCheckHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("healthy!")
}
