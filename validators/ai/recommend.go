package aiValidator

import (
	"strings"

	"pathstream/middleware"

	"github.com/gofiber/fiber/v2"
)

// Recommend validates the recommendation request body
func Recommend() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Prompt string `json:"prompt"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Prompt) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Prompt is required", nil)
		}

		c.Locals("validatedPrompt", reqData.Prompt)
		return c.Next()
	}
}
