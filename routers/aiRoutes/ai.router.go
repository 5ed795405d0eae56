package aiRoutes

import (
	aiControllers "pathstream/controllers/ai"
	"pathstream/middleware"
	aiValidators "pathstream/validators/ai"

	"github.com/gofiber/fiber/v2"
)

func SetupAIRoutes(app *fiber.App) {
	aiGroup := app.Group("/api/ai")

	aiGroup.Post("/recommend", middleware.JWTMiddleware, aiValidators.Recommend(), aiControllers.GetCourseRecommendations)
}
