package controllers

import (
	"net/http"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateProductionRequest represents the request body for a production job.
// The request reference is optional so restocking runs can be tracked too.
type CreateProductionRequest struct {
	RequestID *uint   `json:"request_id"`
	Cost      float64 `json:"cost" binding:"required,gt=0"`
}

// CompleteProductionRequest represents the body for closing a job
type CompleteProductionRequest struct {
	EndDate *time.Time `json:"end_date"`
}

// CreateProduction handles POST /api/v1/productions
func CreateProduction(c *gin.Context) {
	var req CreateProductionRequest
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
	if req.RequestID != nil {
		var request models.Request
		if err := db.First(&request, *req.RequestID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REQUEST_NOT_FOUND",
					"message": "Request not found",
				},
			})
			return
		}
	}

	production := models.Production{
		RequestID: req.RequestID,
		Cost:      req.Cost,
		StartDate: time.Now(),
		Status:    models.ProductionStatusOngoing,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&production).Error; err != nil {
			return err
		}
		if req.RequestID == nil {
			return nil
		}
		updates := map[string]interface{}{
			"production_start_date": production.StartDate,
			"production_cost":       production.Cost,
		}
		return tx.Model(&models.Request{}).Where("id = ?", *req.RequestID).
			Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create production job",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    production,
	})
}

// ListProductions handles GET /api/v1/productions
func ListProductions(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Production{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if requestID := c.Query("request_id"); requestID != "" {
		query = query.Where("request_id = ?", requestID)
	}

	var productions []models.Production
	if err := query.Order("id DESC").Find(&productions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list production jobs",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    productions,
	})
}

// GetProduction handles GET /api/v1/productions/:id
func GetProduction(c *gin.Context) {
	var production models.Production
	if err := config.GetDB().Preload("Request").First(&production, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCTION_NOT_FOUND",
				"message": "Production job not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    production,
	})
}

// CompleteProduction handles POST /api/v1/productions/:id/complete - closes an
// ongoing job and stamps the end date onto the linked request
func CompleteProduction(c *gin.Context) {
	var req CompleteProductionRequest
	if c.Request.ContentLength > 0 {
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
	}

	db := config.GetDB()
	var production models.Production
	if err := db.First(&production, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCTION_NOT_FOUND",
				"message": "Production job not found",
			},
		})
		return
	}

	if production.Status == models.ProductionStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Production job is already completed",
			},
		})
		return
	}

	endDate := time.Now()
	if req.EndDate != nil {
		endDate = *req.EndDate
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":   models.ProductionStatusCompleted,
			"end_date": endDate,
		}
		if err := tx.Model(&production).Updates(updates).Error; err != nil {
			return err
		}
		if production.RequestID == nil {
			return nil
		}
		return tx.Model(&models.Request{}).Where("id = ?", *production.RequestID).
			Update("production_end_date", endDate).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to complete production job",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    production,
	})
}
