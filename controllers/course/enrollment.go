package controllers

import (
	"log"

	"pathstream/database"
	"pathstream/middleware"
	"pathstream/models"
	courseModels "pathstream/models/course"
	"pathstream/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// enrolledStudent is the resolved view of one entry in a course's student set
type enrolledStudent struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EnrollInCourse adds the requesting user to a course's student set
func EnrollInCourse(c *fiber.Ctx) error {
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

	// Check if user is already enrolled
	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already enrolled in this course", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: uint(courseID),
		Status:   "ENROLLED",
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		// Two racing requests can both pass the pre-check; the compound
		// unique index settles it and the loser lands here.
		if err == gorm.ErrDuplicatedKey {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Already enrolled in this course", nil)
		}
		log.Printf("Error creating enrollment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	go utils.SendEnrollmentConfirmation(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment successful", enrollment)
}

// GetMyEnrolledCourses lists every course the requesting user is enrolled in
func GetMyEnrolledCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("user_id = ?", userID).Order("created_at asc, id asc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}

	courses := []courseModels.Course{}
	if len(courseIDs) > 0 {
		err := db.Where("id IN ? AND is_deleted = ?", courseIDs, false).
			Preload("Instructor").
			Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc, id asc") }).
			Find(&courses).Error
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// GetCourseStudents lists the enrolled students of a course; owner only
func GetCourseStudents(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Not authorized to view course students", nil)
	}

	students := []enrolledStudent{}
	err := database.Database.Db.Model(&courseModels.Enrollment{}).
		Select("users.id, users.name, users.email").
		Joins("JOIN users ON users.id = enrollments.user_id").
		Where("enrollments.course_id = ?", course.ID).
		Order("enrollments.created_at asc, enrollments.id asc").
		Scan(&students).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", fiber.Map{
		"students": students,
	})
}
