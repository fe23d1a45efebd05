package controllers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func designForm(t *testing.T, requestID uint, description, filename string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("request_id", fmt.Sprintf("%d", requestID)))
	if description != "" {
		require.NoError(t, writer.WriteField("description", description))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake sketch bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, "/designs", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCreateDesign(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	imageService := services.NewMockImageService()
	imageService.SetAsMockForTesting()

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	designer := createTestUser(t, db, "Designer", "designer@example.com", models.RoleDesignStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDesign, floatPtr(1000))

	router := setupTestRouter()
	router.POST("/designs", mockAuthMiddleware(designer.ID, designer.Role), CreateDesign)

	// A sketch with an image lands as a draft owned by the designer.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, designForm(t, request.ID, "First pass, oval setting", "sketch.png"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var design models.Design
	require.NoError(t, db.Where("request_id = ?", request.ID).First(&design).Error)
	assert.Equal(t, models.DesignStatusDraft, design.Status)
	assert.Equal(t, designer.ID, design.DesignerID)
	assert.NotEmpty(t, design.ImageKey)
	assert.True(t, imageService.ImageExists(design.ImageKey))

	// The image is optional.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, designForm(t, request.ID, "Text-only revision notes", ""))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Unknown request.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, designForm(t, 9999, "", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewDesign(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	designer := createTestUser(t, db, "Designer", "designer@example.com", models.RoleDesignStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDesign, floatPtr(1000))

	design := models.Design{RequestID: request.ID, DesignerID: designer.ID, Status: models.DesignStatusDraft}
	require.NoError(t, db.Create(&design).Error)

	router := setupTestRouter()
	router.PATCH("/designs/:id/review", mockAuthMiddleware(customer.ID, customer.Role), ReviewDesign)

	// Only approved/rejected are accepted.
	w := doJSON(router, http.MethodPatch, fmt.Sprintf("/designs/%d/review", design.ID), map[string]interface{}{
		"status": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPatch, fmt.Sprintf("/designs/%d/review", design.ID), map[string]interface{}{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reviewed models.Design
	require.NoError(t, db.First(&reviewed, design.ID).Error)
	assert.Equal(t, "approved", reviewed.Status)

	// A reviewed design cannot be re-reviewed.
	w = doJSON(router, http.MethodPatch, fmt.Sprintf("/designs/%d/review", design.ID), map[string]interface{}{
		"status": "rejected",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}

func TestDeleteDesign_RemovesImage(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	imageService := services.NewMockImageService()
	imageService.SetAsMockForTesting()

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	designer := createTestUser(t, db, "Designer", "designer@example.com", models.RoleDesignStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDesign, floatPtr(1000))

	router := setupTestRouter()
	router.POST("/designs", mockAuthMiddleware(designer.ID, designer.Role), CreateDesign)
	router.DELETE("/designs/:id", mockAuthMiddleware(designer.ID, designer.Role), DeleteDesign)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, designForm(t, request.ID, "", "sketch.png"))
	require.Equal(t, http.StatusCreated, w.Code)

	var design models.Design
	require.NoError(t, db.Where("request_id = ?", request.ID).First(&design).Error)
	require.True(t, imageService.ImageExists(design.ImageKey))

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/designs/%d", design.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.False(t, imageService.ImageExists(design.ImageKey))
	var count int64
	db.Model(&models.Design{}).Where("id = ?", design.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
