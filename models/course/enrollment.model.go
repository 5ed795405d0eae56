package course

import "gorm.io/gorm"

// Enrollment tracks a user's enrollment in a course.
// The compound unique index keeps a (user, course) pair from being
// enrolled twice even under concurrent requests.
type Enrollment struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_course_student"`
	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_course_student"`
	Status   string `json:"status" gorm:"default:'ENROLLED'"`
}
