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

func TestListUsers(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	manager := createTestUser(t, db, "Manager", "manager@example.com", models.RoleManager)
	createTestUser(t, db, "Customer A", "a@example.com", models.RoleCustomer)
	createTestUser(t, db, "Customer B", "b@example.com", models.RoleCustomer)
	createTestUser(t, db, "Designer", "designer@example.com", models.RoleDesignStaff)

	router := setupTestRouter()
	router.GET("/users", mockAuthMiddleware(manager.ID, manager.Role), ListUsers)

	listUsers := func(query string) []interface{} {
		req, _ := http.NewRequest(http.MethodGet, "/users"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return response["data"].([]interface{})
	}

	assert.Len(t, listUsers(""), 4)
	assert.Len(t, listUsers("?role=customer"), 2)
	assert.Len(t, listUsers("?role=design_staff"), 1)
}

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := createTestUser(t, db, "Ellie", "ellie@example.com", models.RoleCustomer)

	router := setupTestRouter()
	router.GET("/users/me", mockAuthMiddleware(user.ID, user.Role), GetMyProfile)

	req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "ellie@example.com", data["email"])
	_, leaked := data["password_hash"]
	assert.False(t, leaked)
}

func TestUpdateMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := createTestUser(t, db, "Ellie", "ellie@example.com", models.RoleCustomer)
	other := createTestUser(t, db, "Taken", "taken@example.com", models.RoleCustomer)
	_ = other

	router := setupTestRouter()
	router.PATCH("/users/me", mockAuthMiddleware(user.ID, user.Role), UpdateMyProfile)

	// Partial update only touches the provided fields
	w := doJSON(router, http.MethodPatch, "/users/me", map[string]interface{}{
		"phone": "+84901234567",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "+84901234567", reloaded.Phone)
	assert.Equal(t, "Ellie", reloaded.Name)

	// Duplicate email is a conflict
	w = doJSON(router, http.MethodPatch, "/users/me", map[string]interface{}{
		"email": "taken@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChangeUserRole(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	admin := createTestUser(t, db, "Admin", "admin@example.com", models.RoleAdmin)
	user := createTestUser(t, db, "Ellie", "ellie@example.com", models.RoleCustomer)

	router := setupTestRouter()
	router.PATCH("/users/:id/role", mockAuthMiddleware(admin.ID, admin.Role), ChangeUserRole)

	tests := []struct {
		name           string
		userID         uint
		role           string
		expectedStatus int
	}{
		{"Promote to sale staff", user.ID, models.RoleSaleStaff, http.StatusOK},
		{"Invalid role", user.ID, "superuser", http.StatusBadRequest},
		{"Unknown user", 99999, models.RoleManager, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPatch, fmt.Sprintf("/users/%d/role", tt.userID),
				map[string]interface{}{"role": tt.role})
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, models.RoleSaleStaff, reloaded.Role)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	admin := createTestUser(t, db, "Admin", "admin@example.com", models.RoleAdmin)
	user := createTestUser(t, db, "Ellie", "ellie@example.com", models.RoleCustomer)

	router := setupTestRouter()
	router.DELETE("/users/:id", mockAuthMiddleware(admin.ID, admin.Role), DeleteUser)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Soft delete: the row stays but is hidden from normal queries
	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
