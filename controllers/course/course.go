package controllers

import (
	"log"

	"pathstream/database"
	"pathstream/middleware"
	"pathstream/models"
	courseModels "pathstream/models/course"
	validators "pathstream/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// courseWithStudents is the API view of a course: the stored record plus
// the ids of its enrolled students, derived from the enrollments table.
type courseWithStudents struct {
	courseModels.Course
	Students []uint `json:"students"`
}

// studentIDsByCourse returns enrolled user ids per course, in enrollment order
func studentIDsByCourse(db *gorm.DB, courseIDs []uint) (map[uint][]uint, error) {
	var enrollments []courseModels.Enrollment
	if err := db.Where("course_id IN ?", courseIDs).Order("created_at asc, id asc").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	students := make(map[uint][]uint, len(courseIDs))
	for _, e := range enrollments {
		students[e.CourseID] = append(students[e.CourseID], e.UserID)
	}
	return students, nil
}

func withStudents(db *gorm.DB, courses []courseModels.Course) ([]courseWithStudents, error) {
	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}

	students := map[uint][]uint{}
	if len(ids) > 0 {
		var err error
		students, err = studentIDsByCourse(db, ids)
		if err != nil {
			return nil, err
		}
	}

	result := make([]courseWithStudents, 0, len(courses))
	for _, c := range courses {
		s := students[c.ID]
		if s == nil {
			s = []uint{}
		}
		result = append(result, courseWithStudents{Course: c, Students: s})
	}
	return result, nil
}

// GetAllCourses returns every course with its instructor resolved
func GetAllCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses []courseModels.Course
	err := db.Where("is_deleted = ?", false).
		Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc, id asc") }).
		Find(&courses).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result, err := withStudents(db, courses)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": result,
	})
}

// GetCourseDetails returns one course with its instructor resolved
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var course courseModels.Course
	err := db.Where("id = ? AND is_deleted = ?", courseID, false).
		Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc, id asc") }).
		First(&course).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	result, err := withStudents(db, []courseModels.Course{course})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", result[0])
}

// CreateCourse creates a new course owned by the requesting instructor
func CreateCourse(c *fiber.Ctx) error {
	user, ok := c.Locals("currentUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*validators.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	modules := make([]courseModels.Module, 0, len(reqData.Modules))
	for i, m := range reqData.Modules {
		modules = append(modules, courseModels.Module{
			Title:       m.Title,
			Description: m.Description,
			Duration:    m.Duration,
			OrderIndex:  i,
		})
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Price:        *reqData.Price,
		Category:     reqData.Category,
		Level:        reqData.Level,
		Duration:     reqData.Duration,
		InstructorID: user.ID,
		Modules:      modules,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	course.Instructor = user
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse applies a partial update to a course owned by the requester.
// Only fields present in the request body are touched, so price can be set
// to 0 and the module list can be cleared explicitly.
func UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	// Ownership check: only the owning instructor may update
	if course.InstructorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Not authorized to update this course", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*validators.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields. The instructor reference is never updatable.
	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Level != nil {
		course.Level = *reqData.Level
	}
	if reqData.Duration != nil {
		course.Duration = *reqData.Duration
	}

	tx := database.Database.Db.Begin()

	if err := tx.Model(&courseModels.Course{}).Where("id = ?", course.ID).Updates(map[string]interface{}{
		"title":       course.Title,
		"description": course.Description,
		"price":       course.Price,
		"category":    course.Category,
		"level":       course.Level,
		"duration":    course.Duration,
	}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	// Modules are owned by the course: a provided list replaces it wholesale
	if reqData.Modules != nil {
		if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.Module{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
		for i, m := range *reqData.Modules {
			module := courseModels.Module{
				CourseID:    course.ID,
				Title:       m.Title,
				Description: m.Description,
				Duration:    m.Duration,
				OrderIndex:  i,
			}
			if err := tx.Create(&module).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	var updated courseModels.Course
	if err := database.Database.Db.Where("id = ?", course.ID).
		Preload("Instructor").
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc, id asc") }).
		First(&updated).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", updated)
}

// DeleteCourse removes a course owned by the requester along with its
// modules and enrollments
func DeleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found", nil)
	}

	if course.InstructorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Not authorized to delete this course", nil)
	}

	tx := database.Database.Db.Begin()

	if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.Module{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.Enrollment{}).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Model(&courseModels.Course{}).Where("id = ?", course.ID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course removed", nil)
}
