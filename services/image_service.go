package services

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/ellie2222222/jewelry-workshop-api/utils"
	"github.com/google/uuid"
)

// ImageService handles all image-related operations including upload,
// retrieval, and deletion. Only the storage key and public identifier are
// persisted by callers; URLs are generated on demand.
type ImageService interface {
	// UploadImage validates and uploads an image file, returning the
	// storage key and a public identifier for the asset.
	UploadImage(fileHeader *multipart.FileHeader) (imageKey string, publicID string, err error)

	// GetImageURL generates a URL for accessing an uploaded image
	GetImageURL(imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(imageKey string) error
}

// S3ImageService implements ImageService using S3 object storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with an S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader) (string, string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", "", err
	}

	imageKey, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	return imageKey, publicIDFromKey(imageKey), nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// publicIDFromKey derives the public identifier from a storage key.
// Keys are uploads/{uuid}{ext}; the uuid part is the public id.
func publicIDFromKey(imageKey string) string {
	base := imageKey
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.Index(base, "."); idx >= 0 {
		base = base[:idx]
	}
	if _, err := uuid.Parse(base); err == nil {
		return base
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(imageKey)).String()
}
