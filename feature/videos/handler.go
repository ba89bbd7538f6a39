package videos

import (
	"errors"
	"fmt"

	"video-catalog/core/logger"
	"video-catalog/core/middleware/auth"
	"video-catalog/core/pagination"
	"video-catalog/core/reconcile"
	"video-catalog/feature/videos/models"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for videos.
type Handler struct {
	service         *Service
	defaultPageSize int
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, defaultPageSize int) *Handler {
	return &Handler{service: service, defaultPageSize: defaultPageSize}
}

// RegisterRoutes registers the video routes.
// Fixed paths are registered before /:key so they are not treated as keys.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/videos")
	group.Get("/", h.HandleList)
	group.Post("/", auth.RequireAdmin(), h.HandleBulkCreate)
	group.Post("/update-and-create-bulk", auth.RequireAdmin(), h.HandleBulkUpsert)
	group.Delete("/delete-all", auth.RequireAdmin(), h.HandleDeleteAll)
	group.Get("/:key", h.HandleGet)
	group.Put("/:key", auth.RequireAdmin(), h.HandleReplace)
	group.Patch("/:key", auth.RequireAdmin(), h.HandlePatch)
	group.Delete("/:key", auth.RequireAdmin(), h.HandleDelete)
}

// HandleList lists videos.
// @Summary List Videos
// @Description List videos with exact filters, numeric range filters and ordering.
// @Tags videos
// @Produce json
// @Param topic query int false "Topic id"
// @Param subtopic query int false "Subtopic id"
// @Param video_id query string false "External video id"
// @Param likes__gte query int false "Minimum likes"
// @Param likes__lte query int false "Maximum likes"
// @Param likes__range query string false "Likes range 'min,max'"
// @Param views__gte query int false "Minimum views"
// @Param views__lte query int false "Maximum views"
// @Param views__range query string false "Views range 'min,max'"
// @Param ordering query string false "Comma-separated: likes, views, publishedAt; '-' for descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} pagination.Page[models.Video]
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /videos [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	filter, err := ParseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	params := pagination.FromQuery(c, h.defaultPageSize)

	videos, count, err := h.service.List(c.UserContext(), filter, params)
	if err != nil {
		l.Error("Failed to list videos", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(pagination.NewPage(videos, count, params, pagination.RequestURL(c)))
}

// HandleGet returns a single video.
// @Summary Get Video
// @Description Retrieve a video by video_id, falling back to the numeric id.
// @Tags videos
// @Produce json
// @Param key path string true "video_id or id"
// @Success 200 {object} models.Video
// @Failure 404 {object} map[string]string "Not Found"
// @Router /videos/{key} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	v, err := h.service.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(v)
}

// HandleBulkCreate creates videos in bulk.
// @Summary Bulk Create Videos
// @Description Create every video in the batch. Each entry succeeds or fails on its own.
// @Tags videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param body body object true "{\"videos\": [...]}"
// @Success 200 {object} BatchResponse "Empty batch"
// @Success 201 {object} BatchResponse "All created"
// @Success 206 {object} BatchResponse "Partially created"
// @Failure 400 {object} BatchResponse "Nothing created or malformed body"
// @Router /videos [post]
func (h *Handler) HandleBulkCreate(c *fiber.Ctx) error {
	records, err := DecodeBatch(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	result := h.service.BulkCreate(c.UserContext(), records)
	return h.batch(c, "create", result)
}

// HandleBulkUpsert updates or creates videos in bulk.
// @Summary Bulk Update Or Create Videos
// @Description Videos whose video_id exists are updated partially; the rest are created.
// @Tags videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param body body object true "{\"videos\": [...]}"
// @Success 200 {object} BatchResponse "Updated only, or empty batch"
// @Success 201 {object} BatchResponse "Created, possibly with updates"
// @Success 206 {object} BatchResponse "Partial success"
// @Failure 400 {object} BatchResponse "Total failure or malformed body"
// @Router /videos/update-and-create-bulk [post]
func (h *Handler) HandleBulkUpsert(c *fiber.Ctx) error {
	records, err := DecodeBatch(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	result := h.service.BulkUpsert(c.UserContext(), records)
	return h.batch(c, "upsert", result)
}

func (h *Handler) batch(c *fiber.Ctx, operation string, result reconcile.BatchResult[*models.Video]) error {
	outcome := result.Outcome()
	if len(result.Failed) > 0 {
		logger.WithRayID(h.service.logger, c).Warn("Video batch had failures",
			zap.String("operation", operation),
			zap.String("outcome", outcome.String()),
			zap.Int("failed", len(result.Failed)))
	}
	return c.Status(StatusFor(outcome)).JSON(NewBatchResponse(result))
}

// HandleReplace fully updates a video.
// @Summary Replace Video
// @Tags videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param key path string true "video_id or id"
// @Param body body models.Video true "Video"
// @Success 200 {object} models.Video
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /videos/{key} [put]
func (h *Handler) HandleReplace(c *fiber.Ctx) error {
	return h.modify(c, false)
}

// HandlePatch partially updates a video.
// @Summary Patch Video
// @Tags videos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param key path string true "video_id or id"
// @Param body body object true "Fields to change"
// @Success 200 {object} models.Video
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /videos/{key} [patch]
func (h *Handler) HandlePatch(c *fiber.Ctx) error {
	return h.modify(c, true)
}

func (h *Handler) modify(c *fiber.Ctx, partial bool) error {
	var fields reconcile.Fields
	if err := json.Unmarshal(c.Body(), &fields); err != nil || fields == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidBody.Error()})
	}

	v, err := h.service.Modify(c.UserContext(), c.Params("key"), fields, partial)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(v)
}

// HandleDelete deletes a video.
// @Summary Delete Video
// @Tags videos
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param key path string true "video_id or id"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /videos/{key} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("key")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteAll deletes every video.
// @Summary Delete All Videos
// @Tags videos
// @Security ApiKeyAuth
// @Security BearerAuth
// @Success 204
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /videos/delete-all [delete]
func (h *Handler) HandleDeleteAll(c *fiber.Ctx) error {
	if _, err := h.service.DeleteAll(c.UserContext()); err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to delete videos", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// fail maps service errors to responses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var vErr *reconcile.ValidationError
	switch {
	case errors.Is(err, reconcile.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("No video found with id or video_id: %s", c.Params("key")),
		})
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Reason})
	default:
		logger.WithRayID(h.service.logger, c).Error("Video request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
