package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorksOn(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	manager := createTestUser(t, db, "Manager", "manager@example.com", models.RoleManager)
	designer := createTestUser(t, db, "Designer", "designer@example.com", models.RoleDesignStaff)
	maker := createTestUser(t, db, "Maker", "maker@example.com", models.RoleProductionStaff)

	request := createTestRequest(t, db, customer.ID, models.RequestStatusDesign, floatPtr(1000))

	router := setupTestRouter()
	router.POST("/works-on", mockAuthMiddleware(manager.ID, manager.Role), CreateWorksOn)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Assign two staff members",
			body: map[string]interface{}{
				"request_id": request.ID,
				"staff_ids":  []uint{designer.ID, maker.ID},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Unknown staff id",
			body: map[string]interface{}{
				"request_id": request.ID,
				"staff_ids":  []uint{99999},
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "STAFF_NOT_FOUND",
		},
		{
			name: "Customer cannot be assigned",
			body: map[string]interface{}{
				"request_id": request.ID,
				"staff_ids":  []uint{customer.ID},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_STAFF_ROLE",
		},
		{
			name: "Unknown request",
			body: map[string]interface{}{
				"request_id": 99999,
				"staff_ids":  []uint{designer.ID},
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "REQUEST_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/works-on", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}
		})
	}
}

func TestAddWorksOnStaff_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	manager := createTestUser(t, db, "Manager", "manager@example.com", models.RoleManager)
	designer := createTestUser(t, db, "Designer", "designer@example.com", models.RoleDesignStaff)

	request := createTestRequest(t, db, customer.ID, models.RequestStatusDesign, floatPtr(1000))
	worksOn := models.WorksOn{RequestID: request.ID}
	require.NoError(t, db.Create(&worksOn).Error)

	router := setupTestRouter()
	router.POST("/works-on/:id/staff", mockAuthMiddleware(manager.ID, manager.Role), AddWorksOnStaff)

	body := map[string]interface{}{"staff_id": designer.ID}
	path := fmt.Sprintf("/works-on/%d/staff", worksOn.ID)

	// Adding the same member twice leaves a single assignment row
	for i := 0; i < 2; i++ {
		w := doJSON(router, http.MethodPost, path, body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	db.Model(&models.WorksOnStaff{}).
		Where("works_on_id = ? AND staff_id = ?", worksOn.ID, designer.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRemoveWorksOnStaff_NonMemberNoOp(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	manager := createTestUser(t, db, "Manager", "manager@example.com", models.RoleManager)
	designer := createTestUser(t, db, "Designer", "designer@example.com", models.RoleDesignStaff)
	maker := createTestUser(t, db, "Maker", "maker@example.com", models.RoleProductionStaff)

	request := createTestRequest(t, db, customer.ID, models.RequestStatusDesign, floatPtr(1000))
	worksOn := models.WorksOn{RequestID: request.ID}
	require.NoError(t, db.Create(&worksOn).Error)
	require.NoError(t, db.Create(&models.WorksOnStaff{
		WorksOnID: worksOn.ID,
		StaffID:   designer.ID,
		Role:      designer.Role,
	}).Error)

	router := setupTestRouter()
	router.DELETE("/works-on/:id/staff/:staffId", mockAuthMiddleware(manager.ID, manager.Role), RemoveWorksOnStaff)

	// Removing a member who was never assigned returns the unchanged document
	req, _ := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("/works-on/%d/staff/%d", worksOn.ID, maker.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	staff := response["data"].(map[string]interface{})["staff"].([]interface{})
	assert.Len(t, staff, 1, "Assignment is unchanged by removing a non-member")

	// Removing the actual member works
	req, _ = http.NewRequest(http.MethodDelete,
		fmt.Sprintf("/works-on/%d/staff/%d", worksOn.ID, designer.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.WorksOnStaff{}).Where("works_on_id = ?", worksOn.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
