package main

import (
	"log"

	"pathstream/config"
	"pathstream/database"
	"pathstream/models"
	courseModels "pathstream/models/course"

	"golang.org/x/crypto/bcrypt"
)

// Seeds demo users and courses for local development.
// Run with: go run ./scripts
func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	// Clear existing data
	db.Exec("DELETE FROM enrollments")
	db.Exec("DELETE FROM modules")
	db.Exec("DELETE FROM courses")
	db.Exec("DELETE FROM users")
	log.Println("Data cleared...")

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		return string(h)
	}

	instructor1 := models.User{Name: "Instructor One", Email: "instructor1@gmail.com", Password: hash("instructor1"), Role: models.RoleInstructor}
	instructor2 := models.User{Name: "Instructor Two", Email: "instructor2@gmail.com", Password: hash("instructor2"), Role: models.RoleInstructor}
	student := models.User{Name: "Student One", Email: "student1@gmail.com", Password: hash("student1"), Role: models.RoleStudent}

	for _, u := range []*models.User{&instructor1, &instructor2, &student} {
		if err := db.Create(u).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
	}
	log.Println("Users created...")

	courses := []courseModels.Course{
		{
			Title:       "Complete React Guide",
			Description: "Master React.js from scratch. Learn hooks, router, and redux.",
			Price:       49.99, Category: "Web Development", Level: courseModels.LevelBeginner, Duration: "20h",
			InstructorID: instructor1.ID,
			Modules: []courseModels.Module{
				{Title: "Introduction to React", Description: "Basics of React", Duration: "2h", OrderIndex: 0},
				{Title: "Components and Props", Description: "Building reusable UI", Duration: "3h", OrderIndex: 1},
				{Title: "State Management", Description: "Hooks and Context", Duration: "5h", OrderIndex: 2},
			},
		},
		{
			Title:       "Advanced Node.js",
			Description: "Deep dive into Node.js, streams, buffers, and performance.",
			Price:       59.99, Category: "Backend", Level: courseModels.LevelAdvanced, Duration: "15h",
			InstructorID: instructor1.ID,
			Modules: []courseModels.Module{
				{Title: "Event Loop", Description: "Understanding Node internals", Duration: "3h", OrderIndex: 0},
				{Title: "Streams", Description: "Processing large data", Duration: "4h", OrderIndex: 1},
			},
		},
		{
			Title:       "Python for Data Science",
			Description: "Learn Python libraries like Pandas, NumPy, and Matplotlib.",
			Price:       39.99, Category: "Data Science", Level: courseModels.LevelIntermediate, Duration: "25h",
			InstructorID: instructor1.ID,
			Modules: []courseModels.Module{
				{Title: "NumPy Basics", Description: "Array manipulation", Duration: "4h", OrderIndex: 0},
				{Title: "Pandas DataFrames", Description: "Data analysis", Duration: "6h", OrderIndex: 1},
			},
		},
		{
			Title:       "Docker & Kubernetes",
			Description: "Containerization and orchestration for modern DevOps.",
			Price:       69.99, Category: "DevOps", Level: courseModels.LevelAdvanced, Duration: "18h",
			InstructorID: instructor2.ID,
			Modules: []courseModels.Module{
				{Title: "Docker Basics", Description: "Images and containers", Duration: "5h", OrderIndex: 0},
				{Title: "Kubernetes Cluster", Description: "Pods and services", Duration: "8h", OrderIndex: 1},
			},
		},
		{
			Title:       "AWS Certified Solutions Architect",
			Description: "Pass the SAA-C03 exam with this comprehensive course.",
			Price:       99.99, Category: "Cloud", Level: courseModels.LevelAdvanced, Duration: "35h",
			InstructorID: instructor2.ID,
			Modules: []courseModels.Module{
				{Title: "IAM", Description: "Identity and Access Management", Duration: "3h", OrderIndex: 0},
				{Title: "EC2", Description: "Elastic Compute Cloud", Duration: "5h", OrderIndex: 1},
				{Title: "S3", Description: "Simple Storage Service", Duration: "4h", OrderIndex: 2},
			},
		},
	}

	for i := range courses {
		if err := db.Create(&courses[i]).Error; err != nil {
			log.Fatalf("Failed to create course %s: %v", courses[i].Title, err)
		}
	}
	log.Println("Courses created...")

	enrollment := courseModels.Enrollment{UserID: student.ID, CourseID: courses[0].ID, Status: "ENROLLED"}
	if err := db.Create(&enrollment).Error; err != nil {
		log.Fatalf("Failed to create enrollment: %v", err)
	}
	log.Println("Enrollments created...")

	log.Println("Seed data imported successfully!")
}
