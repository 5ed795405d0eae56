package course

import (
	"pathstream/models"

	"gorm.io/gorm"
)

// Course levels
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Course represents a published learning course
type Course struct {
	gorm.Model
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        float64      `json:"price" gorm:"default:0"`
	Category     string       `json:"category"`
	Level        string       `json:"level"` // Beginner, Intermediate, Advanced
	Duration     string       `json:"duration"`
	InstructorID uint         `json:"instructor_id" gorm:"index;not null"`
	Instructor   *models.User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Modules      []Module     `json:"modules" gorm:"foreignKey:CourseID"`
	IsDeleted    bool         `json:"-" gorm:"default:false"`
}

// IsValidLevel reports whether level is one of the accepted course levels
func IsValidLevel(level string) bool {
	return level == LevelBeginner || level == LevelIntermediate || level == LevelAdvanced
}
