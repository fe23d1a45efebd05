package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/ellie2222222/jewelry-workshop-api/utils"
	"github.com/gin-gonic/gin"
)

// requireImageService returns the image service, or writes a 503 and returns
// nil when no object storage is configured.
func requireImageService(c *gin.Context) services.ImageService {
	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOADS_DISABLED",
				"message": "Image storage is not configured",
			},
		})
	}
	return imageService
}

// UploadImage handles POST /api/v1/uploads - validates and stores a PNG/JPEG
// image, returning the storage key and public identifier
func UploadImage(c *gin.Context) {
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

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"image_key": imageKey,
			"public_id": publicID,
		},
	})
}

// GetUploadedImageURL handles GET /api/v1/uploads/*key - returns a short-lived
// presigned URL for the stored object
func GetUploadedImageURL(c *gin.Context) {
	imageKey := strings.TrimPrefix(c.Param("key"), "/")
	if imageKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Image key is required",
			},
		})
		return
	}

	imageService := requireImageService(c)
	if imageService == nil {
		return
	}

	url, err := imageService.GetImageURL(imageKey)
	if err != nil || url == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "Image not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"url": url,
		},
	})
}

// DeleteUploadedImage handles DELETE /api/v1/uploads/*key
func DeleteUploadedImage(c *gin.Context) {
	imageKey := strings.TrimPrefix(c.Param("key"), "/")
	if imageKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Image key is required",
			},
		})
		return
	}

	imageService := requireImageService(c)
	if imageService == nil {
		return
	}

	if err := imageService.DeleteImage(imageKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_ERROR",
				"message": "Failed to delete image",
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
