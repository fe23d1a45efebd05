package controllers

import (
	"net/http"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/middleware"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateRequestRequest represents the request body for opening an order request
type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
	JewelryID   *uint  `json:"jewelry_id"`
}

// UpdateRequestRequest represents the request body for editing a request
type UpdateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// UpdateRequestStatusRequest represents the request body for a staff transition
type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// appendStatusHistory records the first time a request reached a status.
// Repeat transitions to the same status keep the original timestamp.
func appendStatusHistory(tx *gorm.DB, requestID uint, status string) error {
	var existing models.RequestStatusLog
	err := tx.Where("request_id = ? AND status = ?", requestID, status).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return tx.Create(&models.RequestStatusLog{
		RequestID: requestID,
		Status:    status,
		Timestamp: time.Now(),
	}).Error
}

// isStaffRole reports whether a context role belongs to workshop staff.
func isStaffRole(role string) bool {
	switch role {
	case models.RoleSaleStaff, models.RoleDesignStaff, models.RoleProductionStaff, models.RoleManager, models.RoleAdmin:
		return true
	}
	return false
}

// CreateRequest handles POST /api/v1/requests - opens a new order request
func CreateRequest(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	if req.JewelryID != nil {
		var jewelry models.Jewelry
		if err := db.First(&jewelry, *req.JewelryID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "JEWELRY_NOT_FOUND",
					"message": "Referenced jewelry item not found",
				},
			})
			return
		}
	}

	request := models.Request{
		UserID:        userID,
		JewelryID:     req.JewelryID,
		Description:   req.Description,
		RequestStatus: models.RequestStatusPending,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return appendStatusHistory(tx, request.ID, models.RequestStatusPending)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create request",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("StatusHistory").First(&request, request.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load request details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    request,
	})
}

// ListRequests handles GET /api/v1/requests - staff see all, customers their own
func ListRequests(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}
	role, _ := middleware.GetUserRole(c)

	db := config.GetDB()
	query := db.Model(&models.Request{}).Preload("User").Preload("StatusHistory")
	if !isStaffRole(role) {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("request_status = ?", status)
	}

	var requests []models.Request
	if err := query.Order("id DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list requests",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// GetRequest handles GET /api/v1/requests/:id
func GetRequest(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}
	role, _ := middleware.GetUserRole(c)

	db := config.GetDB()
	var request models.Request
	if err := db.Preload("User").Preload("Jewelry").Preload("StatusHistory").
		First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	// Customers may only read their own requests
	if !isStaffRole(role) && request.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have access to this request",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// UpdateRequest handles PATCH /api/v1/requests/:id - edits the description
// while the request is still in an early state
func UpdateRequest(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var request models.Request
	if err := db.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	if request.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the request owner can edit it",
			},
		})
		return
	}

	if request.RequestStatus != models.RequestStatusPending && request.RequestStatus != models.RequestStatusAccepted {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Request can no longer be edited",
			},
		})
		return
	}

	if err := db.Model(&request).Update("description", req.Description).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update request",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// UpdateRequestStatus handles PATCH /api/v1/requests/:id/status - staff-driven
// transition along the allow-listed lifecycle edges
func UpdateRequestStatus(c *gin.Context) {
	var req UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var request models.Request
	if err := db.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	if !models.CanTransition(request.RequestStatus, req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Request cannot move from " + request.RequestStatus + " to " + req.Status,
			},
		})
		return
	}

	stale := false
	err := db.Transaction(func(tx *gorm.DB) error {
		// The status predicate makes the update a no-op if another
		// writer moved the request after the check above.
		result := tx.Model(&models.Request{}).
			Where("id = ? AND request_status = ?", request.ID, request.RequestStatus).
			Update("request_status", req.Status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			stale = true
			return gorm.ErrRecordNotFound
		}
		return appendStatusHistory(tx, request.ID, req.Status)
	})
	if stale {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Request status changed concurrently, reload and retry",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update request status",
			},
		})
		return
	}

	if err := db.Preload("StatusHistory").First(&request, request.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load request details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// CancelRequest handles POST /api/v1/requests/:id/cancel - owner cancels an
// early-state request
func CancelRequest(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	var request models.Request
	if err := db.First(&request, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	if request.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the request owner can cancel it",
			},
		})
		return
	}

	cancellable := false
	for _, status := range models.CancellableStatuses {
		if request.RequestStatus == status {
			cancellable = true
			break
		}
	}
	if !cancellable {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Request can no longer be cancelled",
			},
		})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Update("request_status", models.RequestStatusCancelled).Error; err != nil {
			return err
		}
		return appendStatusHistory(tx, request.ID, models.RequestStatusCancelled)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to cancel request",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}
