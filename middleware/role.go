package middleware

import (
	"pathstream/database"
	"pathstream/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireInstructor checks the user's current role against the database
// rather than trusting the role claim in the token. The loaded user is
// stored in c.Locals("currentUser") for the handlers.
func RequireInstructor(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking role!", nil)
	}

	if user.Role != models.RoleInstructor {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Instructor only.", nil)
	}

	c.Locals("currentUser", &user)
	return c.Next()
}
