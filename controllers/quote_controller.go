package controllers

import (
	"net/http"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/middleware"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateQuoteRequest represents the request body for a staff-authored quote
type CreateQuoteRequest struct {
	RequestID uint    `json:"request_id" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// ReviewQuoteRequest represents the manager approve/reject body
type ReviewQuoteRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// DecideQuoteRequest represents the customer's decision on an approved quote
type DecideQuoteRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

// CreateQuote handles POST /api/v1/quotes - staff propose a price for a request
func CreateQuote(c *gin.Context) {
	staffID, err := middleware.GetUserID(c)
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

	var req CreateQuoteRequest
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
	if err := db.First(&request, req.RequestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	switch request.RequestStatus {
	case models.RequestStatusPending, models.RequestStatusAccepted, models.RequestStatusQuote, models.RequestStatusRejectedQuote:
	default:
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Request is not awaiting a quote",
			},
		})
		return
	}

	quote := models.Quote{
		RequestID: request.ID,
		StaffID:   staffID,
		Content:   req.Content,
		Amount:    req.Amount,
		Status:    models.QuoteStatusPending,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quote).Error; err != nil {
			return err
		}
		if request.RequestStatus == models.RequestStatusQuote {
			return nil
		}
		if err := tx.Model(&request).Update("request_status", models.RequestStatusQuote).Error; err != nil {
			return err
		}
		return appendStatusHistory(tx, request.ID, models.RequestStatusQuote)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create quote",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    quote,
	})
}

// ListQuotes handles GET /api/v1/quotes - optionally filtered by request
func ListQuotes(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Quote{}).Preload("Staff")
	if requestID := c.Query("request_id"); requestID != "" {
		query = query.Where("request_id = ?", requestID)
	}

	var quotes []models.Quote
	if err := query.Order("id DESC").Find(&quotes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list quotes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quotes,
	})
}

// GetQuote handles GET /api/v1/quotes/:id
func GetQuote(c *gin.Context) {
	db := config.GetDB()
	var quote models.Quote
	if err := db.Preload("Staff").First(&quote, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUOTE_NOT_FOUND",
				"message": "Quote not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// ReviewQuote handles PATCH /api/v1/quotes/:id/review - manager approve/reject
func ReviewQuote(c *gin.Context) {
	var req ReviewQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Status must be 'approved' or 'rejected'",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var quote models.Quote
	if err := db.First(&quote, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUOTE_NOT_FOUND",
				"message": "Quote not found",
			},
		})
		return
	}

	if quote.Status != models.QuoteStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Quote has already been reviewed",
			},
		})
		return
	}

	if err := db.Model(&quote).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to review quote",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// DecideQuote handles POST /api/v1/quotes/:id/decision - the request owner
// accepts or declines an approved quote. Acceptance copies the quote's
// content and amount onto the request and moves it to deposit.
func DecideQuote(c *gin.Context) {
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

	var req DecideQuoteRequest
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
	var quote models.Quote
	if err := db.First(&quote, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUOTE_NOT_FOUND",
				"message": "Quote not found",
			},
		})
		return
	}

	if quote.Status != models.QuoteStatusApproved {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Quote has not been approved yet",
			},
		})
		return
	}

	var request models.Request
	if err := db.First(&request, quote.RequestID).Error; err != nil {
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
				"message": "Only the request owner can decide on this quote",
			},
		})
		return
	}

	if request.RequestStatus != models.RequestStatusQuote {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Request is not awaiting a quote decision",
			},
		})
		return
	}

	nextStatus := models.RequestStatusRejectedQuote
	if *req.Accepted {
		nextStatus = models.RequestStatusDeposit
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"request_status": nextStatus}
		if *req.Accepted {
			updates["quote_content"] = quote.Content
			updates["quote_amount"] = quote.Amount
		}
		if err := tx.Model(&request).Updates(updates).Error; err != nil {
			return err
		}
		return appendStatusHistory(tx, request.ID, nextStatus)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record quote decision",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}
