package controllers

import (
	"fmt"
	"net/http"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateTransactionRequest represents the request body for a staged payment
type CreateTransactionRequest struct {
	RequestID uint   `json:"request_id" binding:"required"`
	Type      string `json:"type" binding:"required"`
}

// CreateTransaction handles POST /api/v1/transactions - opens a staged payment
// for a request. The amount is a fixed share of the quoted price.
func CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
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

	percentage, ok := models.TransactionPercentages[req.Type]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSACTION_TYPE",
				"message": "Type must be deposit_design, deposit_production or final",
			},
		})
		return
	}

	db := config.GetDB()
	var request models.Request
	if err := db.Preload("User").First(&request, req.RequestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	if request.RequestStatus == models.RequestStatusWarranty {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Request has already completed its payment stages",
			},
		})
		return
	}

	allowed := false
	for _, status := range models.TransactionAllowedStatuses[req.Type] {
		if request.RequestStatus == status {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Request status does not allow a " + req.Type + " transaction",
			},
		})
		return
	}

	if request.QuoteAmount == nil || *request.QuoteAmount <= 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_QUOTE_AMOUNT",
				"message": "Request has no accepted quote amount",
			},
		})
		return
	}

	var existing models.Transaction
	if err := db.Where("request_id = ? AND type = ?", req.RequestID, req.Type).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TRANSACTION_EXISTS",
				"message": "A " + req.Type + " transaction already exists for this request",
			},
		})
		return
	}

	reference := uuid.New().String()
	amount := *request.QuoteAmount * percentage

	gateway := services.GetPaymentGateway()
	payment, err := gateway.CreatePayment(c.Request.Context(), services.PaymentRequest{
		Reference:   reference,
		Amount:      amount,
		Description: fmt.Sprintf("Jewelry request #%d %s payment", request.ID, req.Type),
		PayerEmail:  request.User.Email,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PAYMENT_GATEWAY_ERROR",
				"message": "Failed to initiate payment",
			},
		})
		return
	}

	transaction := models.Transaction{
		RequestID:        request.ID,
		Type:             req.Type,
		AmountPaid:       amount,
		Method:           "gateway",
		PaymentReference: reference,
	}
	if err := db.Create(&transaction).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create transaction",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"transaction": transaction,
			"payment_url": payment.PaymentURL,
		},
	})
}

// ListTransactions handles GET /api/v1/transactions
func ListTransactions(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Transaction{})
	if requestID := c.Query("request_id"); requestID != "" {
		query = query.Where("request_id = ?", requestID)
	}
	if paid := c.Query("paid"); paid != "" {
		query = query.Where("paid = ?", paid == "true")
	}

	var transactions []models.Transaction
	if err := query.Order("id DESC").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list transactions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transactions,
	})
}

// GetTransaction handles GET /api/v1/transactions/:id
func GetTransaction(c *gin.Context) {
	db := config.GetDB()
	var transaction models.Transaction
	if err := db.First(&transaction, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TRANSACTION_NOT_FOUND",
				"message": "Transaction not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transaction,
	})
}
