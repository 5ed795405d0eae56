package courseRoutes

import (
	controllers "pathstream/controllers/course"
	"pathstream/middleware"
	validators "pathstream/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course routes. Fixed paths are registered
// before the parameterized ones so "/all" and "/my-courses" are not
// swallowed by ":id".
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	// Course listing and details (public)
	courseGroup.Get("/all", controllers.GetAllCourses)
	courseGroup.Get("/", controllers.GetAllCourses)

	// Own enrollments
	courseGroup.Get("/my-courses", middleware.JWTMiddleware, controllers.GetMyEnrolledCourses)

	// Course management (instructors)
	courseGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireInstructor, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.RequireInstructor, validators.CreateCourse(), controllers.CreateCourse)

	courseGroup.Get("/:id", validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Put("/:id", middleware.JWTMiddleware, validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.DeleteCourse)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Get("/:id/students", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseStudents)
}
