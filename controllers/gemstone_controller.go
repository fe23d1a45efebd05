package controllers

import (
	"net/http"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
)

// CreateGemstoneRequest represents the request body for a gemstone
type CreateGemstoneRequest struct {
	Name    string  `json:"name" binding:"required"`
	Carat   float64 `json:"carat" binding:"required,gt=0"`
	Cut     string  `json:"cut"`
	Clarity string  `json:"clarity"`
	Color   string  `json:"color"`
	Price   float64 `json:"price" binding:"required,gt=0"`
}

// UpdateGemstoneRequest represents the request body for updating a gemstone
type UpdateGemstoneRequest struct {
	Name    *string  `json:"name"`
	Carat   *float64 `json:"carat"`
	Cut     *string  `json:"cut"`
	Clarity *string  `json:"clarity"`
	Color   *string  `json:"color"`
	Price   *float64 `json:"price"`
}

// CreateGemstone handles POST /api/v1/gemstones
func CreateGemstone(c *gin.Context) {
	var req CreateGemstoneRequest
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

	gemstone := models.Gemstone{
		Name:    req.Name,
		Carat:   req.Carat,
		Cut:     req.Cut,
		Clarity: req.Clarity,
		Color:   req.Color,
		Price:   req.Price,
	}

	if err := config.GetDB().Create(&gemstone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create gemstone",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gemstone,
	})
}

// ListGemstones handles GET /api/v1/gemstones - public listing
func ListGemstones(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Gemstone{})
	if cut := c.Query("cut"); cut != "" {
		query = query.Where("cut = ?", cut)
	}

	var gemstones []models.Gemstone
	if err := query.Order("id DESC").Find(&gemstones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list gemstones",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gemstones,
	})
}

// GetGemstone handles GET /api/v1/gemstones/:id
func GetGemstone(c *gin.Context) {
	var gemstone models.Gemstone
	if err := config.GetDB().First(&gemstone, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GEMSTONE_NOT_FOUND",
				"message": "Gemstone not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gemstone,
	})
}

// UpdateGemstone handles PATCH /api/v1/gemstones/:id
func UpdateGemstone(c *gin.Context) {
	var req UpdateGemstoneRequest
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
	var gemstone models.Gemstone
	if err := db.First(&gemstone, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GEMSTONE_NOT_FOUND",
				"message": "Gemstone not found",
			},
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Carat != nil {
		updates["carat"] = *req.Carat
	}
	if req.Cut != nil {
		updates["cut"] = *req.Cut
	}
	if req.Clarity != nil {
		updates["clarity"] = *req.Clarity
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if len(updates) > 0 {
		if err := db.Model(&gemstone).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update gemstone",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gemstone,
	})
}

// DeleteGemstone handles DELETE /api/v1/gemstones/:id
func DeleteGemstone(c *gin.Context) {
	db := config.GetDB()
	var gemstone models.Gemstone
	if err := db.First(&gemstone, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GEMSTONE_NOT_FOUND",
				"message": "Gemstone not found",
			},
		})
		return
	}

	if err := db.Delete(&gemstone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete gemstone",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Gemstone deleted",
		},
	})
}
