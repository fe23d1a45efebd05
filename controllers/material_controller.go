package controllers

import (
	"net/http"
	"strings"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateMaterialRequest represents the request body for a material
type CreateMaterialRequest struct {
	Name      string  `json:"name" binding:"required"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

// UpdateMaterialPriceRequest represents the request body for a price update
type UpdateMaterialPriceRequest struct {
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

// CreateMaterial handles POST /api/v1/materials - also seeds the first price
// history row
func CreateMaterial(c *gin.Context) {
	var req CreateMaterialRequest
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

	material := models.Material{
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
	}

	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&material).Error; err != nil {
			return err
		}
		return tx.Create(&models.MaterialPrice{
			MaterialID: material.ID,
			UnitPrice:  req.UnitPrice,
		}).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MATERIAL_EXISTS",
					"message": "A material with this name already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create material",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    material,
	})
}

// ListMaterials handles GET /api/v1/materials - public listing
func ListMaterials(c *gin.Context) {
	var materials []models.Material
	if err := config.GetDB().Order("name ASC").Find(&materials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list materials",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    materials,
	})
}

// GetMaterial handles GET /api/v1/materials/:id - includes the price history
func GetMaterial(c *gin.Context) {
	var material models.Material
	if err := config.GetDB().Preload("Prices", func(db *gorm.DB) *gorm.DB {
		return db.Order("material_prices.created_at DESC")
	}).First(&material, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "Material not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    material,
	})
}

// UpdateMaterialPrice handles PATCH /api/v1/materials/:id/price - updates the
// current unit price and appends a history row
func UpdateMaterialPrice(c *gin.Context) {
	var req UpdateMaterialPriceRequest
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
	var material models.Material
	if err := db.First(&material, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "Material not found",
			},
		})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&material).Update("unit_price", req.UnitPrice).Error; err != nil {
			return err
		}
		return tx.Create(&models.MaterialPrice{
			MaterialID: material.ID,
			UnitPrice:  req.UnitPrice,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update material price",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    material,
	})
}

// DeleteMaterial handles DELETE /api/v1/materials/:id
func DeleteMaterial(c *gin.Context) {
	db := config.GetDB()
	var material models.Material
	if err := db.First(&material, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MATERIAL_NOT_FOUND",
				"message": "Material not found",
			},
		})
		return
	}

	if err := db.Delete(&material).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete material",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Material deleted",
		},
	})
}
