package integrity

import (
	"errors"

	"video-catalog/core/logger"
	"video-catalog/core/middleware/auth"
	"video-catalog/core/utils"
	"video-catalog/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes. All of them are admin only.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity", auth.RequireAdmin())
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Runs the schema and storage checks concurrently.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} Report "Combined Report"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.RunAll(c.UserContext())
	return c.JSON(report)
}

// HandleSchemaCheck compares the models against the live database.
// @Summary Check Schema
// @Description Checks that every model column exists in the database.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSchema(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the bucket layout.
// @Summary Check Storage
// @Description Checks that the bucket and its required prefixes exist. Optionally creates them.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Param fix query string false "Create missing bucket and prefixes (true, 1 or yes)"
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	report, err := h.service.CheckStorage(c.UserContext())
	if err != nil {
		if errors.Is(err, ErrNoStorage) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if report.OK() || !fix {
		if !report.OK() {
			l.Warn("Storage layout incomplete",
				zap.Bool("bucket_exists", report.BucketExists),
				zap.Strings("missing", report.Missing))
		}
		return c.JSON(fiber.Map{"status": "checked", "report": report})
	}

	fixed := append([]string(nil), report.Missing...)
	l.Info("Attempting to fix storage layout", zap.Strings("missing", fixed))
	if err := h.service.FixStorage(c.UserContext(), report); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to fix storage",
			"details": err.Error(),
			"report":  report,
		})
	}
	return c.JSON(fiber.Map{"status": "fixed", "fixed": fixed, "report": report})
}
