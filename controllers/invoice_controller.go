package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvoiceRequest represents the request body for issuing an invoice
type CreateInvoiceRequest struct {
	TransactionID uint `json:"transaction_id" binding:"required"`
}

// defaultWarrantyMonths is the coverage period opened by the final invoice.
const defaultWarrantyMonths = 12

// invoiceNumber derives the printed invoice number from the row ID, which
// stays unique under concurrent issuers.
func invoiceNumber(id uint) string {
	return fmt.Sprintf("INV-%s-%05d", time.Now().Format("2006"), id)
}

// CreateInvoice handles POST /api/v1/invoices - issues an invoice for a paid
// transaction and advances the owning request's status. The validation,
// status advance and invoice insert run in one database transaction.
func CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
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

	var invoice models.Invoice
	status := http.StatusInternalServerError
	code := "DATABASE_ERROR"
	message := "Failed to create invoice"

	err := db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.First(&transaction, req.TransactionID).Error; err != nil {
			status, code, message = http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found"
			return err
		}

		if !transaction.Paid {
			status, code, message = http.StatusConflict, "TRANSACTION_UNPAID", "Transaction has not been paid"
			return gorm.ErrInvalidData
		}

		var existing models.Invoice
		if err := tx.Where("transaction_id = ? AND type = ?", transaction.ID, transaction.Type).
			First(&existing).Error; err == nil {
			status, code, message = http.StatusConflict, "INVOICE_EXISTS", "An invoice already exists for this transaction"
			return gorm.ErrDuplicatedKey
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		var request models.Request
		if err := tx.First(&request, transaction.RequestID).Error; err != nil {
			status, code, message = http.StatusNotFound, "REQUEST_NOT_FOUND", "Request not found"
			return err
		}

		invoice = models.Invoice{
			// Placeholder until the row ID exists; replaced below in
			// the same transaction.
			Number:        uuid.New().String(),
			TransactionID: transaction.ID,
			Type:          transaction.Type,
			TotalAmount:   transaction.AmountPaid,
			PaymentMethod: transaction.Method,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		invoice.Number = invoiceNumber(invoice.ID)
		if err := tx.Model(&invoice).Update("number", invoice.Number).Error; err != nil {
			return err
		}

		nextStatus := models.InvoiceStatusAdvance[transaction.Type]
		if request.RequestStatus != nextStatus {
			if err := tx.Model(&request).Update("request_status", nextStatus).Error; err != nil {
				return err
			}
		}
		if err := appendStatusHistory(tx, request.ID, nextStatus); err != nil {
			return err
		}

		// The final invoice opens the warranty period.
		if transaction.Type == models.TransactionTypeFinal {
			start := time.Now()
			end := start.AddDate(0, defaultWarrantyMonths, 0)
			warranty := models.Warranty{
				RequestID: request.ID,
				Content:   fmt.Sprintf("%d-month workshop warranty for request #%d", defaultWarrantyMonths, request.ID),
				StartDate: start,
				EndDate:   end,
			}
			if err := tx.Where("request_id = ?", request.ID).FirstOrCreate(&warranty).Error; err != nil {
				return err
			}
			updates := map[string]interface{}{
				"warranty_content":    warranty.Content,
				"warranty_start_date": warranty.StartDate,
				"warranty_end_date":   warranty.EndDate,
			}
			if err := tx.Model(&request).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": message,
			},
		})
		return
	}

	if err := db.Preload("Transaction").First(&invoice, invoice.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load invoice details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    invoice,
	})
}

// ListInvoices handles GET /api/v1/invoices
func ListInvoices(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Invoice{}).Preload("Transaction")
	if requestID := c.Query("request_id"); requestID != "" {
		query = query.Joins("JOIN transactions ON transactions.id = invoices.transaction_id").
			Where("transactions.request_id = ?", requestID)
	}

	var invoices []models.Invoice
	if err := query.Order("invoices.id DESC").Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list invoices",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invoices,
	})
}

// GetInvoice handles GET /api/v1/invoices/:id
func GetInvoice(c *gin.Context) {
	db := config.GetDB()
	var invoice models.Invoice
	if err := db.Preload("Transaction").First(&invoice, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVOICE_NOT_FOUND",
				"message": "Invoice not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    invoice,
	})
}

// GetInvoicePDF handles GET /api/v1/invoices/:id/pdf - streams a printable
// rendering of the invoice
func GetInvoicePDF(c *gin.Context) {
	db := config.GetDB()
	var invoice models.Invoice
	if err := db.Preload("Transaction").First(&invoice, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVOICE_NOT_FOUND",
				"message": "Invoice not found",
			},
		})
		return
	}

	var request models.Request
	if err := db.Preload("User").First(&request, invoice.Transaction.RequestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	pdfBytes, err := services.GenerateInvoicePDF(&invoice, &request, &request.User)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PDF_GENERATION_ERROR",
				"message": "Failed to generate invoice PDF",
			},
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.Number))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
