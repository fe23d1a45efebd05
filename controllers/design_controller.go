package controllers

import (
	"errors"
	"net/http"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/logger"
	"github.com/ellie2222222/jewelry-workshop-api/middleware"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/ellie2222222/jewelry-workshop-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewDesignRequest represents the approve/reject body for a design
type ReviewDesignRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

func presignDesignImage(design *models.Design) {
	if design.ImageKey == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(design.ImageKey)
	if err != nil {
		logger.L().Warn("Failed to presign design image",
			zap.String("image_key", design.ImageKey),
			zap.Error(err),
		)
		return
	}
	design.ImageURL = url
}

// CreateDesign handles POST /api/v1/designs - a designer uploads a sketch for
// a request. Multipart form: request_id, description, image.
func CreateDesign(c *gin.Context) {
	designerID, err := middleware.GetUserID(c)
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

	var form struct {
		RequestID   uint   `form:"request_id" binding:"required"`
		Description string `form:"description"`
	}
	if err := c.ShouldBind(&form); err != nil {
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
	if err := db.First(&request, form.RequestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REQUEST_NOT_FOUND",
				"message": "Request not found",
			},
		})
		return
	}

	design := models.Design{
		RequestID:   request.ID,
		DesignerID:  designerID,
		Description: form.Description,
		Status:      models.DesignStatusDraft,
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		imageService := requireImageService(c)
		if imageService == nil {
			return
		}
		imageKey, _, err := imageService.UploadImage(fileHeader)
		if err != nil {
			var uploadErr *utils.FileUploadError
			if errors.As(err, &uploadErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    uploadErr.Code,
						"message": uploadErr.Message,
					},
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UPLOAD_ERROR",
					"message": "Failed to upload design image",
				},
			})
			return
		}
		design.ImageKey = imageKey
	}

	if err := db.Create(&design).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create design",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    design,
	})
}

// ListDesigns handles GET /api/v1/designs
func ListDesigns(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Design{}).Preload("Designer")
	if requestID := c.Query("request_id"); requestID != "" {
		query = query.Where("request_id = ?", requestID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var designs []models.Design
	if err := query.Order("id DESC").Find(&designs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list designs",
			},
		})
		return
	}

	for i := range designs {
		presignDesignImage(&designs[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    designs,
	})
}

// GetDesign handles GET /api/v1/designs/:id
func GetDesign(c *gin.Context) {
	var design models.Design
	if err := config.GetDB().Preload("Designer").First(&design, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DESIGN_NOT_FOUND",
				"message": "Design not found",
			},
		})
		return
	}

	presignDesignImage(&design)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    design,
	})
}

// ReviewDesign handles PATCH /api/v1/designs/:id/review - the customer or
// manager approves or rejects a draft design
func ReviewDesign(c *gin.Context) {
	var req ReviewDesignRequest
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
	var design models.Design
	if err := db.First(&design, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DESIGN_NOT_FOUND",
				"message": "Design not found",
			},
		})
		return
	}

	if design.Status != models.DesignStatusDraft {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATE",
				"message": "Design has already been reviewed",
			},
		})
		return
	}

	if err := db.Model(&design).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to review design",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    design,
	})
}

// DeleteDesign handles DELETE /api/v1/designs/:id
func DeleteDesign(c *gin.Context) {
	db := config.GetDB()
	var design models.Design
	if err := db.First(&design, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DESIGN_NOT_FOUND",
				"message": "Design not found",
			},
		})
		return
	}

	if imageService := services.GetImageService(); imageService != nil && design.ImageKey != "" {
		if err := imageService.DeleteImage(design.ImageKey); err != nil {
			logger.L().Warn("Failed to delete design image from storage",
				zap.String("image_key", design.ImageKey),
				zap.Error(err),
			)
		}
	}

	if err := db.Delete(&design).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete design",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Design deleted",
		},
	})
}
