package aiController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pathstream/config"
	aiControllers "pathstream/controllers/ai"
	"pathstream/database"
	"pathstream/middleware"
	"pathstream/models"
	courseModels "pathstream/models/course"
	aiRoutes "pathstream/routers/aiRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type recommendData struct {
	Message         string                `json:"message"`
	Recommendations []courseModels.Course `json:"recommendations"`
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:      "test-secret",
		SaltRound:   4,
		OpenAIModel: "gpt-3.5-turbo",
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &courseModels.Course{}, &courseModels.Module{}, &courseModels.Enrollment{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	aiRoutes.SetupAIRoutes(app)
	return app
}

// fakeModelServer serves an OpenAI-compatible chat completion endpoint that
// always answers with the given message content, counting calls
func fakeModelServer(t *testing.T, content string, calls *int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		*calls++

		reply := map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   "gpt-3.5-turbo",
			"choices": []map[string]interface{}{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(reply))
	}))
	t.Cleanup(server.Close)

	config.AppConfig.OpenAIKey = "test-key"
	config.AppConfig.OpenAIBaseURL = server.URL + "/v1"
	aiControllers.InitClient()

	return server
}

func seedUserAndCourses(t *testing.T) (models.User, string, []courseModels.Course) {
	t.Helper()

	user := models.User{Name: "Student", Email: "student@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	instructor := models.User{Name: "Instructor", Email: "teach@example.com", Password: "x", Role: models.RoleInstructor}
	require.NoError(t, database.Database.Db.Create(&instructor).Error)

	courses := []courseModels.Course{
		{Title: "Complete React Guide", Description: "Master React.js", Category: "Web Development", Level: "Beginner", Price: 49.99, InstructorID: instructor.ID},
		{Title: "Python for Data Science", Description: "Pandas and NumPy", Category: "Data Science", Level: "Intermediate", Price: 39.99, InstructorID: instructor.ID},
	}
	for i := range courses {
		require.NoError(t, database.Database.Db.Create(&courses[i]).Error)
	}
	return user, token, courses
}

func recommend(t *testing.T, app *fiber.App, token, prompt string) (*http.Response, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(fiber.Map{"prompt": prompt}))
	req := httptest.NewRequest(http.MethodPost, "/api/ai/recommend", &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestRecommendRequiresAuth(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := recommend(t, app, "", "teach me react")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecommendEmptyPrompt(t *testing.T) {
	app := setupTestApp(t)
	_, token, _ := seedUserAndCourses(t)

	resp, body := recommend(t, app, token, "   ")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Prompt is required", body.Message)
}

func TestRecommendMissingAPIKey(t *testing.T) {
	app := setupTestApp(t)
	_, token, _ := seedUserAndCourses(t)

	config.AppConfig.OpenAIKey = ""
	aiControllers.InitClient()

	resp, body := recommend(t, app, token, "missing key prompt")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Server configuration error: AI API key missing.", body.Message)
}

func TestRecommendDropsUnknownIDs(t *testing.T) {
	app := setupTestApp(t)
	_, token, courses := seedUserAndCourses(t)

	var calls int
	content := fmt.Sprintf(`{"message": "React is a great place to start!", "recommendedCourseIds": ["%d", "999", "bogus"]}`, courses[0].ID)
	fakeModelServer(t, content, &calls)

	resp, body := recommend(t, app, token, "unknown ids prompt")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data recommendData
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "React is a great place to start!", data.Message)
	require.Len(t, data.Recommendations, 1)
	assert.Equal(t, courses[0].ID, data.Recommendations[0].ID)
}

func TestRecommendEmptyIDList(t *testing.T) {
	app := setupTestApp(t)
	_, token, _ := seedUserAndCourses(t)

	var calls int
	fakeModelServer(t, `{"message": "Nothing fits, try broadening your interests.", "recommendedCourseIds": []}`, &calls)

	resp, body := recommend(t, app, token, "empty id list prompt")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data recommendData
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "Nothing fits, try broadening your interests.", data.Message)
	assert.Empty(t, data.Recommendations)
}

func TestRecommendHandlesFencedReply(t *testing.T) {
	app := setupTestApp(t)
	_, token, courses := seedUserAndCourses(t)

	var calls int
	content := fmt.Sprintf("```json\n{\"message\": \"Go with Python.\", \"recommendedCourseIds\": [\"%d\"]}\n```", courses[1].ID)
	fakeModelServer(t, content, &calls)

	resp, body := recommend(t, app, token, "fenced reply prompt")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data recommendData
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.Len(t, data.Recommendations, 1)
	assert.Equal(t, courses[1].ID, data.Recommendations[0].ID)
}

func TestRecommendMalformedReply(t *testing.T) {
	app := setupTestApp(t)
	_, token, _ := seedUserAndCourses(t)

	var calls int
	fakeModelServer(t, "sorry, I cannot respond in JSON today", &calls)

	resp, _ := recommend(t, app, token, "malformed reply prompt")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRecommendCachesPerUserPrompt(t *testing.T) {
	app := setupTestApp(t)
	_, token, courses := seedUserAndCourses(t)

	var calls int
	content := fmt.Sprintf(`{"message": "Cached answer.", "recommendedCourseIds": ["%d"]}`, courses[0].ID)
	fakeModelServer(t, content, &calls)

	resp, _ := recommend(t, app, token, "cache test prompt")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := recommend(t, app, token, "cache test prompt")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, calls, "second identical request should be served from cache")

	var data recommendData
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "Cached answer.", data.Message)
	require.Len(t, data.Recommendations, 1)
}

func TestRecommendUpstreamFailure(t *testing.T) {
	app := setupTestApp(t)
	_, token, _ := seedUserAndCourses(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	config.AppConfig.OpenAIKey = "test-key"
	config.AppConfig.OpenAIBaseURL = server.URL + "/v1"
	aiControllers.InitClient()

	resp, body := recommend(t, app, token, "upstream failure prompt")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to generate recommendations. Please check your API key or try again later.", body.Message)
}
