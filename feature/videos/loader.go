package videos

import (
	"video-catalog/core/metrics"
	"video-catalog/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Videos feature.
func NewFeature(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger, m *metrics.Metrics, defaultPageSize int) *Feature {
	svc := NewService(db, client, bucket, logger, m)
	return &Feature{service: svc, handler: NewHandler(svc, defaultPageSize)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "videos"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the feature's service for CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}
