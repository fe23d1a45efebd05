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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCreateRequest(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)

	router := setupTestRouter()
	router.POST("/requests", mockAuthMiddleware(customer.ID, customer.Role), CreateRequest)

	w := doJSON(router, http.MethodPost, "/requests", map[string]interface{}{
		"description": "Custom platinum band",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["request_status"])

	// The pending status is seeded into the history exactly once
	history := data["status_history"].([]interface{})
	require.Len(t, history, 1)
	assert.Equal(t, "pending", history[0].(map[string]interface{})["status"])

	// Missing description is rejected
	w = doJSON(router, http.MethodPost, "/requests", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRequests_Visibility(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	alice := createTestUser(t, db, "Alice", "alice@example.com", models.RoleCustomer)
	bob := createTestUser(t, db, "Bob", "bob@example.com", models.RoleCustomer)
	manager := createTestUser(t, db, "Manager", "manager@example.com", models.RoleManager)

	createTestRequest(t, db, alice.ID, models.RequestStatusPending, nil)
	createTestRequest(t, db, bob.ID, models.RequestStatusPending, nil)

	count := func(userID uint, role string) int {
		router := setupTestRouter()
		router.GET("/requests", mockAuthMiddleware(userID, role), ListRequests)
		req, _ := http.NewRequest(http.MethodGet, "/requests", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return len(response["data"].([]interface{}))
	}

	assert.Equal(t, 1, count(alice.ID, alice.Role), "Customers only see their own requests")
	assert.Equal(t, 2, count(manager.ID, manager.Role), "Staff see all requests")
}

func TestUpdateRequestStatus(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Staff", "staff@example.com", models.RoleSaleStaff)

	tests := []struct {
		name           string
		fromStatus     string
		toStatus       string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Pending to accepted",
			fromStatus:     models.RequestStatusPending,
			toStatus:       models.RequestStatusAccepted,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Pending to quote",
			fromStatus:     models.RequestStatusPending,
			toStatus:       models.RequestStatusQuote,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Pending straight to production is rejected",
			fromStatus:     models.RequestStatusPending,
			toStatus:       models.RequestStatusProduction,
			expectedStatus: http.StatusConflict,
			expectedError:  "INVALID_TRANSITION",
		},
		{
			name:           "Warranty to completed",
			fromStatus:     models.RequestStatusWarranty,
			toStatus:       models.RequestStatusCompleted,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Completed is terminal",
			fromStatus:     models.RequestStatusCompleted,
			toStatus:       models.RequestStatusPending,
			expectedStatus: http.StatusConflict,
			expectedError:  "INVALID_TRANSITION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := createTestRequest(t, db, customer.ID, tt.fromStatus, nil)

			router := setupTestRouter()
			router.PATCH("/requests/:id/status", mockAuthMiddleware(staff.ID, staff.Role), UpdateRequestStatus)

			w := doJSON(router, http.MethodPatch, fmt.Sprintf("/requests/%d/status", request.ID),
				map[string]interface{}{"status": tt.toStatus})
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])

				// Failed transitions must not mutate the request
				var reloaded models.Request
				require.NoError(t, db.First(&reloaded, request.ID).Error)
				assert.Equal(t, tt.fromStatus, reloaded.RequestStatus)
			}
		})
	}
}

func TestUpdateRequestStatus_HistoryIdempotent(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Staff", "staff@example.com", models.RoleSaleStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusQuote, nil)

	router := setupTestRouter()
	router.PATCH("/requests/:id/status", mockAuthMiddleware(staff.ID, staff.Role), UpdateRequestStatus)

	// quote -> rejected_quote -> quote -> rejected_quote: the cycle is legal
	// but each status appears in the history once
	steps := []string{
		models.RequestStatusRejectedQuote,
		models.RequestStatusQuote,
		models.RequestStatusRejectedQuote,
	}
	for _, status := range steps {
		w := doJSON(router, http.MethodPatch, fmt.Sprintf("/requests/%d/status", request.ID),
			map[string]interface{}{"status": status})
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	db.Model(&models.RequestStatusLog{}).
		Where("request_id = ? AND status = ?", request.ID, models.RequestStatusRejectedQuote).
		Count(&count)
	assert.Equal(t, int64(1), count, "Revisited statuses keep their first history entry")
}

func TestUpdateRequestStatus_ConcurrentWriterLoses(t *testing.T) {
	// Shared-cache DSN so the intruding write below lands in the same
	// in-memory database as the handler's connection.
	db, err := gorm.Open(sqlite.Open("file:transition_race?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	staff := createTestUser(t, db, "Staff", "staff@example.com", models.RoleSaleStaff)
	request := createTestRequest(t, db, customer.ID, models.RequestStatusDeposit, floatPtr(1000))

	// Flip the row right after the handler reads it, the way a concurrent
	// writer that passed the same transition check would.
	intruded := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("intruding_writer", func(tx *gorm.DB) {
		if intruded || tx.Statement.Table != "requests" {
			return
		}
		intruded = true
		db.Session(&gorm.Session{NewDB: true}).Model(&models.Request{}).
			Where("id = ?", request.ID).
			Update("request_status", models.RequestStatusDesign)
	}))
	defer db.Callback().Query().Remove("intruding_writer")

	router := setupTestRouter()
	router.PATCH("/requests/:id/status", mockAuthMiddleware(staff.ID, staff.Role), UpdateRequestStatus)

	w := doJSON(router, http.MethodPatch, fmt.Sprintf("/requests/%d/status", request.ID),
		map[string]interface{}{"status": models.RequestStatusDesign})
	require.True(t, intruded, "The competing write should have run")
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "INVALID_TRANSITION")

	// The first writer's state stands and the loser left no history entry.
	var reloaded models.Request
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	assert.Equal(t, models.RequestStatusDesign, reloaded.RequestStatus)

	var count int64
	db.Model(&models.RequestStatusLog{}).Where("request_id = ?", request.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCancelRequest(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	customer := createTestUser(t, db, "Customer", "customer@example.com", models.RoleCustomer)
	other := createTestUser(t, db, "Other", "other@example.com", models.RoleCustomer)

	tests := []struct {
		name           string
		status         string
		callerID       uint
		expectedStatus int
	}{
		{"Cancel pending as owner", models.RequestStatusPending, customer.ID, http.StatusOK},
		{"Cancel quote as owner", models.RequestStatusQuote, customer.ID, http.StatusOK},
		{"Cannot cancel in design", models.RequestStatusDesign, customer.ID, http.StatusConflict},
		{"Cannot cancel someone else's request", models.RequestStatusPending, other.ID, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := createTestRequest(t, db, customer.ID, tt.status, nil)

			router := setupTestRouter()
			router.POST("/requests/:id/cancel", mockAuthMiddleware(tt.callerID, models.RoleCustomer), CancelRequest)

			req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/requests/%d/cancel", request.ID), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
