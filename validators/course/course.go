package courseValidator

import (
	"strconv"
	"strings"

	"pathstream/middleware"
	courseModels "pathstream/models/course"

	"github.com/gofiber/fiber/v2"
)

// ModuleInput is one module entry in a create or update request
type ModuleInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// CreateCourseRequest carries the validated body of a course creation
type CreateCourseRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       *float64      `json:"price"`
	Category    string        `json:"category"`
	Level       string        `json:"level"`
	Duration    string        `json:"duration"`
	Modules     []ModuleInput `json:"modules"`
}

// UpdateCourseRequest carries a partial course update. Pointer fields
// distinguish "omitted" from "set to zero/empty": nil leaves the stored
// value alone, a present value always applies.
type UpdateCourseRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Category    *string        `json:"category"`
	Level       *string        `json:"level"`
	Duration    *string        `json:"duration"`
	Modules     *[]ModuleInput `json:"modules"`
}

func validateModules(modules []ModuleInput, errors map[string]string) {
	for i, m := range modules {
		if strings.TrimSpace(m.Title) == "" {
			errors["modules"] = "Module " + strconv.Itoa(i+1) + " is missing a title!"
			return
		}
	}
}

// CreateCourse validates a course creation body
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		// Validate Description
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}

		// Validate Price
		if reqData.Price == nil {
			errors["price"] = "Price is required!"
		} else if *reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		// Validate Category
		if strings.TrimSpace(reqData.Category) == "" {
			errors["category"] = "Category is required!"
		}

		// Validate Level
		if reqData.Level == "" {
			errors["level"] = "Level is required!"
		} else if !courseModels.IsValidLevel(reqData.Level) {
			errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
		}

		validateModules(reqData.Modules, errors)

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates a partial course update body
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price must not be negative!"
		}

		if reqData.Level != nil && !courseModels.IsValidLevel(*reqData.Level) {
			errors["level"] = "Level must be Beginner, Intermediate or Advanced!"
		}

		if reqData.Modules != nil {
			validateModules(*reqData.Modules, errors)
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseID validates the :id route parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		// Validate CourseID is a valid integer
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
