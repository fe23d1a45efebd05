package controllers

import (
	"errors"
	"net/http"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/logger"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/ellie2222222/jewelry-workshop-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JewelryMaterialInput links a material with its weight in a jewelry payload
type JewelryMaterialInput struct {
	MaterialID uint    `json:"material_id" binding:"required"`
	Weight     float64 `json:"weight" binding:"required,gt=0"`
}

// CreateJewelryRequest represents the request body for a catalog item
type CreateJewelryRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Category    string                 `json:"category" binding:"required"`
	Description string                 `json:"description"`
	Price       float64                `json:"price" binding:"required,gt=0"`
	OnSale      *bool                  `json:"on_sale"`
	Materials   []JewelryMaterialInput `json:"materials"`
	GemstoneIDs []uint                 `json:"gemstone_ids"`
}

// UpdateJewelryRequest represents the request body for updating a catalog item
type UpdateJewelryRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	OnSale      *bool    `json:"on_sale"`
}

// presignJewelryImages fills the computed URL on each gallery image. A
// presigning failure is logged and leaves the URL empty rather than failing
// the read.
func presignJewelryImages(jewelry *models.Jewelry) {
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	for i := range jewelry.Images {
		url, err := imageService.GetImageURL(jewelry.Images[i].ImageKey)
		if err != nil {
			logger.L().Warn("Failed to presign jewelry image",
				zap.String("image_key", jewelry.Images[i].ImageKey),
				zap.Error(err),
			)
			continue
		}
		jewelry.Images[i].ImageURL = url
	}
}

// CreateJewelry handles POST /api/v1/jewelry
func CreateJewelry(c *gin.Context) {
	var req CreateJewelryRequest
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

	onSale := true
	if req.OnSale != nil {
		onSale = *req.OnSale
	}
	jewelry := models.Jewelry{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		OnSale:      onSale,
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&jewelry).Error; err != nil {
			return err
		}
		for _, m := range req.Materials {
			var material models.Material
			if err := tx.First(&material, m.MaterialID).Error; err != nil {
				return err
			}
			link := models.JewelryMaterial{
				JewelryID:  jewelry.ID,
				MaterialID: m.MaterialID,
				Weight:     m.Weight,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		for _, gemstoneID := range req.GemstoneIDs {
			var gemstone models.Gemstone
			if err := tx.First(&gemstone, gemstoneID).Error; err != nil {
				return err
			}
			link := models.JewelryGemstone{
				JewelryID:  jewelry.ID,
				GemstoneID: gemstoneID,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COMPONENT_NOT_FOUND",
				"message": "A referenced material or gemstone does not exist",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create jewelry item",
			},
		})
		return
	}

	if err := db.Preload("Materials.Material").Preload("Gemstones.Gemstone").
		First(&jewelry, jewelry.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load jewelry item",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    jewelry,
	})
}

// ListJewelry handles GET /api/v1/jewelry - public catalog listing
func ListJewelry(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Jewelry{}).Preload("Images").
		Preload("Materials.Material").Preload("Gemstones.Gemstone")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if onSale := c.Query("on_sale"); onSale != "" {
		query = query.Where("on_sale = ?", onSale == "true")
	}

	var items []models.Jewelry
	if err := query.Order("id DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list jewelry",
			},
		})
		return
	}

	for i := range items {
		presignJewelryImages(&items[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// GetJewelry handles GET /api/v1/jewelry/:id
func GetJewelry(c *gin.Context) {
	db := config.GetDB()
	var jewelry models.Jewelry
	if err := db.Preload("Images").Preload("Materials.Material").
		Preload("Gemstones.Gemstone").First(&jewelry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JEWELRY_NOT_FOUND",
				"message": "Jewelry item not found",
			},
		})
		return
	}

	presignJewelryImages(&jewelry)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    jewelry,
	})
}

// UpdateJewelry handles PATCH /api/v1/jewelry/:id
func UpdateJewelry(c *gin.Context) {
	var req UpdateJewelryRequest
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
	var jewelry models.Jewelry
	if err := db.First(&jewelry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JEWELRY_NOT_FOUND",
				"message": "Jewelry item not found",
			},
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OnSale != nil {
		updates["on_sale"] = *req.OnSale
	}
	if len(updates) > 0 {
		if err := db.Model(&jewelry).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update jewelry item",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    jewelry,
	})
}

// DeleteJewelry handles DELETE /api/v1/jewelry/:id
func DeleteJewelry(c *gin.Context) {
	db := config.GetDB()
	var jewelry models.Jewelry
	if err := db.First(&jewelry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JEWELRY_NOT_FOUND",
				"message": "Jewelry item not found",
			},
		})
		return
	}

	if err := db.Delete(&jewelry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete jewelry item",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Jewelry item deleted",
		},
	})
}

// UploadJewelryImage handles POST /api/v1/jewelry/:id/images - adds one
// gallery image via the image service
func UploadJewelryImage(c *gin.Context) {
	db := config.GetDB()
	var jewelry models.Jewelry
	if err := db.First(&jewelry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "JEWELRY_NOT_FOUND",
				"message": "Jewelry item not found",
			},
		})
		return
	}

	imageService := requireImageService(c)
	if imageService == nil {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No image file provided",
			},
		})
		return
	}

	imageKey, publicID, err := imageService.UploadImage(fileHeader)
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
				"message": "Failed to upload image",
			},
		})
		return
	}

	image := models.JewelryImage{
		JewelryID: jewelry.ID,
		ImageKey:  imageKey,
		PublicID:  publicID,
	}
	if err := db.Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save image record",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    image,
	})
}

// DeleteJewelryImage handles DELETE /api/v1/jewelry/:id/images/:imageId
func DeleteJewelryImage(c *gin.Context) {
	db := config.GetDB()
	var image models.JewelryImage
	if err := db.Where("jewelry_id = ?", c.Param("id")).
		First(&image, c.Param("imageId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_NOT_FOUND",
				"message": "Image not found",
			},
		})
		return
	}

	if imageService := services.GetImageService(); imageService != nil {
		if err := imageService.DeleteImage(image.ImageKey); err != nil {
			logger.L().Warn("Failed to delete image from storage",
				zap.String("image_key", image.ImageKey),
				zap.Error(err),
			)
		}
	}

	if err := db.Delete(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete image record",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Image deleted",
		},
	})
}
