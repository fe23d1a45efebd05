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

// CreateBlogRequest represents the request body for a storefront post
type CreateBlogRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateBlogRequest represents the request body for updating a post
type UpdateBlogRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func presignBlogImage(blog *models.Blog) {
	if blog.ImageKey == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(blog.ImageKey)
	if err != nil {
		logger.L().Warn("Failed to presign blog image",
			zap.String("image_key", blog.ImageKey),
			zap.Error(err),
		)
		return
	}
	blog.ImageURL = url
}

// CreateBlog handles POST /api/v1/blogs
func CreateBlog(c *gin.Context) {
	authorID, err := middleware.GetUserID(c)
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

	var req CreateBlogRequest
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

	blog := models.Blog{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := config.GetDB().Create(&blog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create blog post",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    blog,
	})
}

// ListBlogs handles GET /api/v1/blogs - public listing
func ListBlogs(c *gin.Context) {
	var blogs []models.Blog
	if err := config.GetDB().Preload("Author").Order("id DESC").Find(&blogs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list blog posts",
			},
		})
		return
	}

	for i := range blogs {
		presignBlogImage(&blogs[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    blogs,
	})
}

// GetBlog handles GET /api/v1/blogs/:id
func GetBlog(c *gin.Context) {
	var blog models.Blog
	if err := config.GetDB().Preload("Author").First(&blog, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BLOG_NOT_FOUND",
				"message": "Blog post not found",
			},
		})
		return
	}

	presignBlogImage(&blog)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    blog,
	})
}

// UpdateBlog handles PATCH /api/v1/blogs/:id
func UpdateBlog(c *gin.Context) {
	var req UpdateBlogRequest
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
	var blog models.Blog
	if err := db.First(&blog, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BLOG_NOT_FOUND",
				"message": "Blog post not found",
			},
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if len(updates) > 0 {
		if err := db.Model(&blog).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update blog post",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    blog,
	})
}

// UploadBlogImage handles POST /api/v1/blogs/:id/image - replaces the post's
// cover image
func UploadBlogImage(c *gin.Context) {
	db := config.GetDB()
	var blog models.Blog
	if err := db.First(&blog, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BLOG_NOT_FOUND",
				"message": "Blog post not found",
			},
		})
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
				"message": "Failed to upload image",
			},
		})
		return
	}

	oldKey := blog.ImageKey
	if err := db.Model(&blog).Update("image_key", imageKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save image record",
			},
		})
		return
	}

	if oldKey != "" {
		if err := imageService.DeleteImage(oldKey); err != nil {
			logger.L().Warn("Failed to delete replaced blog image",
				zap.String("image_key", oldKey),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    blog,
	})
}

// DeleteBlog handles DELETE /api/v1/blogs/:id
func DeleteBlog(c *gin.Context) {
	db := config.GetDB()
	var blog models.Blog
	if err := db.First(&blog, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BLOG_NOT_FOUND",
				"message": "Blog post not found",
			},
		})
		return
	}

	if err := db.Delete(&blog).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete blog post",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Blog post deleted",
		},
	})
}
