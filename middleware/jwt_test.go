package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pathstream/config"
	"pathstream/database"
	"pathstream/middleware"
	"pathstream/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Get("/protected", middleware.JWTMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId")})
	})
	app.Get("/instructor-only", middleware.JWTMiddleware, middleware.RequireInstructor, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	app := setup(t)

	token, err := middleware.GenerateJWT(42, "Ada", "student", "ada@example.com")
	require.NoError(t, err)

	resp := request(t, app, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	app := setup(t)

	resp := request(t, app, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsMalformedHeader(t *testing.T) {
	app := setup(t)

	resp := request(t, app, "/protected", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, app, "/protected", "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	app := setup(t)

	claims := jwt.MapClaims{
		"userId": float64(42),
		"iat":    time.Now().Add(-48 * time.Hour).Unix(),
		"exp":    time.Now().Add(-24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTKey))
	require.NoError(t, err)

	resp := request(t, app, "/protected", "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsWrongSecret(t *testing.T) {
	app := setup(t)

	claims := jwt.MapClaims{
		"userId": float64(42),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	resp := request(t, app, "/protected", "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Role comes from the database, not the token: a token claiming instructor
// is not enough when the stored user is a student.
func TestRequireInstructorChecksStoredRole(t *testing.T) {
	app := setup(t)

	student := models.User{Name: "Student", Email: "student@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, database.Database.Db.Create(&student).Error)
	instructor := models.User{Name: "Instructor", Email: "teach@example.com", Password: "x", Role: models.RoleInstructor}
	require.NoError(t, database.Database.Db.Create(&instructor).Error)

	// Token lies about the role; the database wins
	lying, err := middleware.GenerateJWT(student.ID, student.Name, models.RoleInstructor, student.Email)
	require.NoError(t, err)
	resp := request(t, app, "/instructor-only", "Bearer "+lying)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	honest, err := middleware.GenerateJWT(instructor.ID, instructor.Name, instructor.Role, instructor.Email)
	require.NoError(t, err)
	resp = request(t, app, "/instructor-only", "Bearer "+honest)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireInstructorRejectsUnknownUser(t *testing.T) {
	app := setup(t)

	token, err := middleware.GenerateJWT(999, "Ghost", models.RoleInstructor, "ghost@example.com")
	require.NoError(t, err)

	resp := request(t, app, "/instructor-only", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
