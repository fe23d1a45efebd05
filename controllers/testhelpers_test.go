package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/ellie2222222/jewelry-workshop-api/middleware"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// mockAuthMiddleware injects an authenticated identity the way the real
// token middleware does
func mockAuthMiddleware(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextUserRoleKey, role)
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, role string) models.User {
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtestha",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestRequest(t *testing.T, db *gorm.DB, userID uint, status string, quoteAmount *float64) models.Request {
	request := models.Request{
		UserID:        userID,
		Description:   "Custom gold ring with sapphire",
		RequestStatus: status,
		QuoteAmount:   quoteAmount,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("Failed to create test request: %v", err)
	}
	return request
}

func floatPtr(f float64) *float64 {
	return &f
}

// decodeData unwraps the success envelope's data object
func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response has no data object: %s", w.Body.String())
	}
	return data
}
