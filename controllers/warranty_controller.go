package controllers

import (
	"net/http"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/middleware"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
)

// ListWarranties handles GET /api/v1/warranties - staff see all, customers
// see warranties on their own requests
func ListWarranties(c *gin.Context) {
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
	query := db.Model(&models.Warranty{})
	if !isStaffRole(role) {
		query = query.Joins("JOIN requests ON requests.id = warranties.request_id").
			Where("requests.user_id = ?", userID)
	}
	if requestID := c.Query("request_id"); requestID != "" {
		query = query.Where("warranties.request_id = ?", requestID)
	}

	var warranties []models.Warranty
	if err := query.Order("warranties.id DESC").Find(&warranties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list warranties",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    warranties,
	})
}

// GetWarranty handles GET /api/v1/warranties/:id
func GetWarranty(c *gin.Context) {
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
	var warranty models.Warranty
	if err := db.Preload("Request").First(&warranty, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WARRANTY_NOT_FOUND",
				"message": "Warranty not found",
			},
		})
		return
	}

	if !isStaffRole(role) && warranty.Request.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have access to this warranty",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    warranty,
	})
}
