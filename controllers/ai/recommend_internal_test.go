package aiController

import (
	"testing"

	courseModels "pathstream/models/course"

	"github.com/stretchr/testify/assert"
)

func catalog() []courseModels.Course {
	courses := []courseModels.Course{
		{Title: "Complete React Guide", Description: "Master React.js from scratch", Category: "Web Development", Level: "Beginner"},
		{Title: "Python for Data Science", Description: "Pandas, NumPy and Matplotlib", Category: "Data Science", Level: "Intermediate"},
		{Title: "Docker & Kubernetes", Description: "Containerization for DevOps", Category: "DevOps", Level: "Advanced"},
	}
	for i := range courses {
		courses[i].ID = uint(i + 1)
	}
	return courses
}

func TestRankCoursesPrefersKeywordOverlap(t *testing.T) {
	ranked := rankCourses("I want to learn data science with python", catalog(), 40)

	assert.Equal(t, "Python for Data Science", ranked[0].Title)
	assert.Len(t, ranked, 3)
}

func TestRankCoursesCapsCandidates(t *testing.T) {
	ranked := rankCourses("docker", catalog(), 2)

	assert.Len(t, ranked, 2)
	assert.Equal(t, "Docker & Kubernetes", ranked[0].Title)
}

func TestRankCoursesNoOverlapKeepsNaturalOrder(t *testing.T) {
	ranked := rankCourses("underwater basket weaving", catalog(), 40)

	assert.Equal(t, "Complete React Guide", ranked[0].Title)
	assert.Equal(t, "Python for Data Science", ranked[1].Title)
	assert.Equal(t, "Docker & Kubernetes", ranked[2].Title)
}

func TestPromptTokensSkipsShortWords(t *testing.T) {
	tokens := promptTokens("I want to learn Go, an ML and AI stack!")

	assert.Contains(t, tokens, "learn")
	assert.Contains(t, tokens, "stack")
	assert.NotContains(t, tokens, "i")
	assert.NotContains(t, tokens, "to")
	assert.NotContains(t, tokens, "ml")
}

func TestCleanModelReplyStripsFences(t *testing.T) {
	raw := "```json\n{\"message\": \"hi\", \"recommendedCourseIds\": []}\n```"
	assert.Equal(t, `{"message": "hi", "recommendedCourseIds": []}`, cleanModelReply(raw))

	plain := `{"message": "hi", "recommendedCourseIds": []}`
	assert.Equal(t, plain, cleanModelReply(plain))
}

func TestBuildSystemMessageEmbedsCatalog(t *testing.T) {
	msg := buildSystemMessage(catalog())

	assert.Contains(t, msg, "Complete React Guide (ID: 1)")
	assert.Contains(t, msg, "recommendedCourseIds")
	assert.Contains(t, msg, "JSON format ONLY")
}
