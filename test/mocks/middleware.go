package mocks

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/whitebox/internal/logger"
)

// requestLogger logs every request the fake compute API serves
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.DebugWithFields("Fake compute request", map[string]interface{}{
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
			"method":  c.Method(),
			"path":    c.Path(),
		})
		return err
	}
}
