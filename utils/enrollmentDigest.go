package utils

import (
	"log"
	"time"

	"pathstream/database"
	"pathstream/models"
	courseModels "pathstream/models/course"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeEnrollmentDigest sets up the daily instructor digest scheduler
func InitializeEnrollmentDigest() {
	log.Println("[ENROLLMENT-DIGEST] Initializing enrollment digest scheduler...")

	c := cron.New()

	// Run daily at 9 AM to mail instructors the previous day's enrollments
	c.AddFunc("0 9 * * *", func() {
		log.Println("[ENROLLMENT-DIGEST] Running daily enrollment digest...")
		ProcessEnrollmentDigest()
	})

	c.Start()
	log.Println("[ENROLLMENT-DIGEST] Scheduler started - runs daily at 9 AM")
}

// ProcessEnrollmentDigest mails each instructor a summary of enrollments
// their courses received during the previous day
func ProcessEnrollmentDigest() {
	db := database.Database.Db

	dayStart := now.BeginningOfDay().AddDate(0, 0, -1)
	dayEnd := now.BeginningOfDay()

	var enrollments []courseModels.Enrollment
	if err := db.Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).Find(&enrollments).Error; err != nil {
		log.Printf("[ENROLLMENT-DIGEST] Error fetching enrollments: %v", err)
		return
	}

	if len(enrollments) == 0 {
		log.Println("[ENROLLMENT-DIGEST] No enrollments yesterday, nothing to send")
		return
	}

	log.Printf("[ENROLLMENT-DIGEST] Found %d enrollment(s) for %s", len(enrollments), dayStart.Format(time.DateOnly))

	// Group enrollment counts per instructor, keyed by course title
	type digest struct {
		instructor models.User
		counts     map[string]int
		total      int
	}
	digests := make(map[uint]*digest)

	for _, enrollment := range enrollments {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ?", enrollment.CourseID, false).First(&course).Error; err != nil {
			continue
		}

		d, ok := digests[course.InstructorID]
		if !ok {
			var instructor models.User
			if err := db.Where("id = ? AND is_deleted = ?", course.InstructorID, false).First(&instructor).Error; err != nil {
				log.Printf("[ENROLLMENT-DIGEST] Error fetching instructor %d: %v", course.InstructorID, err)
				continue
			}
			d = &digest{instructor: instructor, counts: make(map[string]int)}
			digests[course.InstructorID] = d
		}

		d.counts[course.Title]++
		d.total++
	}

	for _, d := range digests {
		SendInstructorDigest(d.instructor.Email, d.instructor.Name, d.counts, d.total)
	}

	log.Printf("[ENROLLMENT-DIGEST] Sent %d digest(s)", len(digests))
}
