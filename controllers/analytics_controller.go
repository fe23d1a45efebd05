package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/gin-gonic/gin"
)

// RevenueBucket is one period's revenue in a bucketed report
type RevenueBucket struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// MaterialSales is one material's usage across invoiced requests
type MaterialSales struct {
	MaterialID   uint    `json:"material_id"`
	MaterialName string  `json:"material_name"`
	TotalWeight  float64 `json:"total_weight"`
	UsageCount   int     `json:"usage_count"`
}

// CategoryCount is the number of requests referencing one jewelry category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StaffSales is one staff member's attributed revenue
type StaffSales struct {
	StaffID   uint    `json:"staff_id"`
	StaffName string  `json:"staff_name"`
	Revenue   float64 `json:"revenue"`
	Requests  int     `json:"requests"`
}

// GetTotalRevenue handles GET /api/v1/analytics/revenue - sum over all invoices
func GetTotalRevenue(c *gin.Context) {
	var total float64
	err := config.GetDB().Model(&models.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&total).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute revenue",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_revenue": total,
		},
	})
}

// GetRevenueGrowth handles GET /api/v1/analytics/revenue/growth - current
// calendar month against the previous one
func GetRevenueGrowth(c *gin.Context) {
	db := config.GetDB()
	now := time.Now()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previousStart := currentStart.AddDate(0, -1, 0)

	var current, previous float64
	if err := db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("created_at >= ?", currentStart).
		Scan(&current).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute revenue growth",
			},
		})
		return
	}
	if err := db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("created_at >= ? AND created_at < ?", previousStart, currentStart).
		Scan(&previous).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute revenue growth",
			},
		})
		return
	}

	var growth *float64
	if previous > 0 {
		g := (current - previous) / previous * 100
		growth = &g
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"current_period":  current,
			"previous_period": previous,
			"growth_percent":  growth,
		},
	})
}

// bucketKey formats an invoice timestamp for the requested granularity.
// Bucketing happens in Go so the same code runs against both database
// dialects.
func bucketKey(t time.Time, granularity string) string {
	switch granularity {
	case "day":
		return t.Format("2006-01-02")
	case "quarter":
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	default:
		return t.Format("2006-01")
	}
}

// GetRevenueByPeriod handles GET /api/v1/analytics/revenue/by-period -
// revenue bucketed by day, month or quarter
func GetRevenueByPeriod(c *gin.Context) {
	granularity := c.DefaultQuery("granularity", "month")
	switch granularity {
	case "day", "month", "quarter":
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_GRANULARITY",
				"message": "Granularity must be day, month or quarter",
			},
		})
		return
	}

	query := config.GetDB().Model(&models.Invoice{})
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute bucketed revenue",
			},
		})
		return
	}

	buckets := map[string]*RevenueBucket{}
	for _, invoice := range invoices {
		key := bucketKey(invoice.CreatedAt, granularity)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &RevenueBucket{Period: key}
			buckets[key] = bucket
		}
		bucket.Revenue += invoice.TotalAmount
		bucket.Count++
	}

	result := make([]RevenueBucket, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Period < result[j].Period
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"granularity": granularity,
			"buckets":     result,
		},
	})
}

// GetTopMaterials handles GET /api/v1/analytics/materials/top - materials
// used in invoiced requests, ordered by total weight
func GetTopMaterials(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	var results []MaterialSales
	err = config.GetDB().Model(&models.JewelryMaterial{}).
		Select("jewelry_materials.material_id AS material_id, materials.name AS material_name, SUM(jewelry_materials.weight) AS total_weight, COUNT(DISTINCT requests.id) AS usage_count").
		Joins("JOIN materials ON materials.id = jewelry_materials.material_id").
		Joins("JOIN requests ON requests.jewelry_id = jewelry_materials.jewelry_id").
		Joins("JOIN transactions ON transactions.request_id = requests.id").
		Joins("JOIN invoices ON invoices.transaction_id = transactions.id").
		Group("jewelry_materials.material_id, materials.name").
		Order("total_weight DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute top materials",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// GetCategoryCounts handles GET /api/v1/analytics/categories - request counts
// per jewelry category
func GetCategoryCounts(c *gin.Context) {
	var results []CategoryCount
	err := config.GetDB().Model(&models.Request{}).
		Select("jewelry.category AS category, COUNT(requests.id) AS count").
		Joins("JOIN jewelry ON jewelry.id = requests.jewelry_id").
		Group("jewelry.category").
		Order("count DESC").
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute category counts",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// GetTopStaff handles GET /api/v1/analytics/staff/top - staff ranked by
// revenue on requests they were assigned to
func GetTopStaff(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		limit = 5
	}

	var results []StaffSales
	err = config.GetDB().Model(&models.WorksOnStaff{}).
		Select("works_on_staff.staff_id AS staff_id, users.name AS staff_name, COALESCE(SUM(invoices.total_amount), 0) AS revenue, COUNT(DISTINCT requests.id) AS requests").
		Joins("JOIN users ON users.id = works_on_staff.staff_id").
		Joins("JOIN works_on ON works_on.id = works_on_staff.works_on_id").
		Joins("JOIN requests ON requests.id = works_on.request_id").
		Joins("JOIN transactions ON transactions.request_id = requests.id").
		Joins("JOIN invoices ON invoices.transaction_id = transactions.id").
		Group("works_on_staff.staff_id, users.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute top staff",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}
