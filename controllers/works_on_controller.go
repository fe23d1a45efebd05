package controllers

import (
	"net/http"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateWorksOnRequest represents the request body for a staff assignment
type CreateWorksOnRequest struct {
	RequestID uint   `json:"request_id" binding:"required"`
	StaffIDs  []uint `json:"staff_ids" binding:"required,min=1"`
}

// AddWorksOnStaffRequest represents the body for adding one staff member
type AddWorksOnStaffRequest struct {
	StaffID uint `json:"staff_id" binding:"required"`
}

// loadAssignableStaff fetches the given users and verifies every one of them
// exists and holds a staff role.
func loadAssignableStaff(tx *gorm.DB, staffIDs []uint) ([]models.User, error) {
	var staff []models.User
	if err := tx.Where("id IN ?", staffIDs).Find(&staff).Error; err != nil {
		return nil, err
	}
	if len(staff) != len(staffIDs) {
		return nil, gorm.ErrRecordNotFound
	}
	for _, member := range staff {
		if !member.IsStaff() {
			return nil, gorm.ErrInvalidData
		}
	}
	return staff, nil
}

// CreateWorksOn handles POST /api/v1/works-on - creates or replaces the staff
// assignment for a request
func CreateWorksOn(c *gin.Context) {
	var req CreateWorksOnRequest
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

	var worksOn models.WorksOn
	err := db.Transaction(func(tx *gorm.DB) error {
		staff, err := loadAssignableStaff(tx, req.StaffIDs)
		if err != nil {
			return err
		}

		if err := tx.Where("request_id = ?", req.RequestID).FirstOrCreate(&worksOn, models.WorksOn{RequestID: req.RequestID}).Error; err != nil {
			return err
		}

		// Replace semantics: the new staff list supersedes the old one.
		if err := tx.Where("works_on_id = ?", worksOn.ID).Delete(&models.WorksOnStaff{}).Error; err != nil {
			return err
		}
		for _, member := range staff {
			entry := models.WorksOnStaff{
				WorksOnID: worksOn.ID,
				StaffID:   member.ID,
				Role:      member.Role,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STAFF_NOT_FOUND",
				"message": "One or more staff members do not exist",
			},
		})
		return
	}
	if err == gorm.ErrInvalidData {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STAFF_ROLE",
				"message": "All assigned users must hold a staff role",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create assignment",
			},
		})
		return
	}

	if err := db.Preload("Staff.StaffUser").First(&worksOn, worksOn.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load assignment",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    worksOn,
	})
}

// ListWorksOn handles GET /api/v1/works-on
func ListWorksOn(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.WorksOn{}).Preload("Staff.StaffUser")
	if requestID := c.Query("request_id"); requestID != "" {
		query = query.Where("request_id = ?", requestID)
	}

	var assignments []models.WorksOn
	if err := query.Order("id DESC").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list assignments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    assignments,
	})
}

// GetWorksOn handles GET /api/v1/works-on/:id
func GetWorksOn(c *gin.Context) {
	db := config.GetDB()
	var worksOn models.WorksOn
	if err := db.Preload("Staff.StaffUser").First(&worksOn, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKS_ON_NOT_FOUND",
				"message": "Assignment not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    worksOn,
	})
}

// AddWorksOnStaff handles POST /api/v1/works-on/:id/staff - adds one staff
// member to an assignment. Adding a member who is already assigned is a no-op.
func AddWorksOnStaff(c *gin.Context) {
	var req AddWorksOnStaffRequest
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
	var worksOn models.WorksOn

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&worksOn, c.Param("id")).Error; err != nil {
			return err
		}

		staff, err := loadAssignableStaff(tx, []uint{req.StaffID})
		if err != nil {
			return err
		}

		var existing models.WorksOnStaff
		err = tx.Where("works_on_id = ? AND staff_id = ?", worksOn.ID, req.StaffID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		return tx.Create(&models.WorksOnStaff{
			WorksOnID: worksOn.ID,
			StaffID:   staff[0].ID,
			Role:      staff[0].Role,
		}).Error
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Assignment or staff member not found",
			},
		})
		return
	}
	if err == gorm.ErrInvalidData {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STAFF_ROLE",
				"message": "The user must hold a staff role",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to add staff member",
			},
		})
		return
	}

	if err := db.Preload("Staff.StaffUser").First(&worksOn, worksOn.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load assignment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    worksOn,
	})
}

// RemoveWorksOnStaff handles DELETE /api/v1/works-on/:id/staff/:staffId -
// removes one staff member. Removing a non-member leaves the assignment
// unchanged and still returns it.
func RemoveWorksOnStaff(c *gin.Context) {
	db := config.GetDB()
	var worksOn models.WorksOn

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&worksOn, c.Param("id")).Error; err != nil {
			return err
		}
		return tx.Where("works_on_id = ? AND staff_id = ?", worksOn.ID, c.Param("staffId")).
			Delete(&models.WorksOnStaff{}).Error
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKS_ON_NOT_FOUND",
				"message": "Assignment not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to remove staff member",
			},
		})
		return
	}

	if err := db.Preload("Staff.StaffUser").First(&worksOn, worksOn.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load assignment",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    worksOn,
	})
}
