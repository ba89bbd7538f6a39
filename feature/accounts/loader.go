package accounts

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Accounts feature.
func NewFeature(db *gorm.DB, tokens Tokens, logger *zap.Logger) *Feature {
	svc := NewService(db, tokens, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Service returns the accounts service, which also serves admin lookups
// for the authentication middleware.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "accounts"
}

// IsEnabled reports whether token issuance is configured.
func (f *Feature) IsEnabled() bool {
	return f.service.tokens != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
