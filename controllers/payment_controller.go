package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/logger"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookSignatureHeader carries the gateway's HMAC of the raw body.
const WebhookSignatureHeader = "X-Callback-Signature"

// paymentWebhookEvent is the gateway's callback payload.
type paymentWebhookEvent struct {
	Reference string     `json:"reference_id"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// HandlePaymentWebhook handles POST /api/v1/payments/webhook - the gateway's
// server-to-server notification. The signature is verified against the raw
// body before anything is trusted.
func HandlePaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_BODY",
				"message": "Could not read webhook body",
			},
		})
		return
	}

	gateway := services.GetPaymentGateway()
	if err := gateway.VerifySignature(body, c.GetHeader(WebhookSignatureHeader)); err != nil {
		logger.L().Warn("Rejected webhook with bad signature",
			zap.String("ip", c.ClientIP()),
		)
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SIGNATURE",
				"message": "Webhook signature verification failed",
			},
		})
		return
	}

	var event paymentWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil || event.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_BODY",
				"message": "Malformed webhook payload",
			},
		})
		return
	}

	db := config.GetDB()
	var transaction models.Transaction
	if err := db.Where("payment_reference = ?", event.Reference).
		First(&transaction).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TRANSACTION_NOT_FOUND",
				"message": "No transaction for this payment reference",
			},
		})
		return
	}

	log := logger.L().With(
		zap.String("reference", event.Reference),
		zap.Uint("transaction_id", transaction.ID),
		zap.String("status", event.Status),
	)

	switch event.Status {
	case services.PaymentStatusPaid:
		if !transaction.Paid {
			paidAt := time.Now()
			if event.PaidAt != nil {
				paidAt = *event.PaidAt
			}
			updates := map[string]interface{}{
				"paid":    true,
				"paid_at": paidAt,
			}
			if err := db.Model(&transaction).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "DATABASE_ERROR",
						"message": "Failed to record payment",
					},
				})
				return
			}
			log.Info("Transaction marked paid")
		}
	case services.PaymentStatusFailed, services.PaymentStatusExpired:
		if transaction.Paid {
			// A settled transaction never regresses; late or replayed
			// failure callbacks are acknowledged and dropped.
			log.Info("Ignoring failure webhook for paid transaction")
			break
		}
		if err := db.Model(&transaction).Updates(map[string]interface{}{
			"paid":    false,
			"paid_at": nil,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to record payment failure",
				},
			})
			return
		}
		log.Info("Transaction marked unpaid")
	default:
		// Acknowledge unknown statuses so the gateway stops retrying.
		log.Info("Ignoring webhook with unhandled status")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"received": true,
		},
	})
}

// GetPaymentStatus handles GET /api/v1/payments/:reference/status - polls the
// gateway for the live state of a payment
func GetPaymentStatus(c *gin.Context) {
	reference := c.Param("reference")

	db := config.GetDB()
	var transaction models.Transaction
	if err := db.Where("payment_reference = ?", reference).
		First(&transaction).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TRANSACTION_NOT_FOUND",
				"message": "No transaction for this payment reference",
			},
		})
		return
	}

	status, err := services.GetPaymentGateway().GetPaymentStatus(c.Request.Context(), reference)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PAYMENT_GATEWAY_ERROR",
				"message": "Failed to fetch payment status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"reference": reference,
			"status":    status.Status,
			"paid_at":   status.PaidAt,
			"paid":      transaction.Paid,
		},
	})
}
