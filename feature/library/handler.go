package library

import (
	"bytes"
	"errors"
	"strconv"

	"video-catalog/core/logger"
	"video-catalog/core/middleware/auth"
	"video-catalog/feature/library/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for saved videos and lists.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = models.VideoList{}
	return &Handler{service: service}
}

type videoRef struct {
	VideoID string `json:"video_id"`
}

// RegisterRoutes registers the library routes. Every route needs a user.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	saved := app.Group("/saved-videos", auth.RequireUser(), requireAccount)
	saved.Get("/", h.HandleListSaved)
	saved.Post("/", h.HandleSaveVideo)
	saved.Get("/:id", h.HandleGetSaved)
	saved.Delete("/:id", h.HandleDeleteSaved)

	lists := app.Group("/lists", auth.RequireUser(), requireAccount)
	lists.Get("/", h.HandleListLists)
	lists.Post("/", h.HandleCreateList)
	lists.Get("/:id", h.HandleGetList)
	lists.Put("/:id", h.HandleUpdateList)
	lists.Patch("/:id", h.HandleUpdateList)
	lists.Delete("/:id", h.HandleDeleteList)
	lists.Get("/:id/videos", h.HandleListVideos)
	lists.Post("/:id/videos", h.HandleAddVideo)
	lists.Delete("/:id/videos/:video_id", h.HandleRemoveVideo)
	lists.Get("/:id/thumbnail", h.HandleGetThumbnail)
	lists.Put("/:id/thumbnail", h.HandleSetThumbnail)
}

// requireAccount rejects API key principals, which own no library rows.
func requireAccount(c *fiber.Ctx) error {
	if p, ok := auth.PrincipalFrom(c); ok && p.Service {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "A user account is required."})
	}
	return c.Next()
}

func userID(c *fiber.Ctx) uint {
	p, _ := auth.PrincipalFrom(c)
	return p.UserID
}

// HandleListSaved lists the caller's saved videos.
// @Summary List Saved Videos
// @Tags library
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SavedVideo
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /saved-videos [get]
func (h *Handler) HandleListSaved(c *fiber.Ctx) error {
	saved, err := h.service.ListSaved(c.UserContext(), userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(saved)
}

// HandleSaveVideo saves a video for the caller.
// @Summary Save Video
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body videoRef true "Video"
// @Success 201 {object} models.SavedVideo
// @Failure 400 {object} map[string]string "Already saved"
// @Router /saved-videos [post]
func (h *Handler) HandleSaveVideo(c *fiber.Ctx) error {
	var in videoRef
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	saved, err := h.service.SaveVideo(c.UserContext(), userID(c), in.VideoID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// HandleGetSaved returns one saved video.
// @Summary Get Saved Video
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path int true "Saved video id"
// @Success 200 {object} models.SavedVideo
// @Failure 404 {object} map[string]string "Not Found"
// @Router /saved-videos/{id} [get]
func (h *Handler) HandleGetSaved(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return h.fail(c, ErrNotFound)
	}
	saved, err := h.service.GetSaved(c.UserContext(), userID(c), uint(id))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(saved)
}

// HandleDeleteSaved removes a saved video.
// @Summary Delete Saved Video
// @Tags library
// @Security BearerAuth
// @Param id path int true "Saved video id"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /saved-videos/{id} [delete]
func (h *Handler) HandleDeleteSaved(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return h.fail(c, ErrNotFound)
	}
	if err := h.service.DeleteSaved(c.UserContext(), userID(c), uint(id)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListLists lists the caller's video lists.
// @Summary List Video Lists
// @Tags library
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.VideoList
// @Router /lists [get]
func (h *Handler) HandleListLists(c *fiber.Ctx) error {
	lists, err := h.service.ListLists(c.UserContext(), userID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(lists)
}

// HandleCreateList creates a video list.
// @Summary Create Video List
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ListInput true "List"
// @Success 201 {object} models.VideoList
// @Failure 400 {object} map[string]string "Validation error"
// @Router /lists [post]
func (h *Handler) HandleCreateList(c *fiber.Ctx) error {
	var in ListInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	list, err := h.service.CreateList(c.UserContext(), userID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// HandleGetList returns a video list.
// @Summary Get Video List
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path string true "list_id"
// @Success 200 {object} models.VideoList
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id} [get]
func (h *Handler) HandleGetList(c *fiber.Ctx) error {
	list, err := h.service.GetList(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleUpdateList updates a video list; PUT replaces, PATCH merges.
// @Summary Update Video List
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "list_id"
// @Param body body ListInput true "List"
// @Success 200 {object} models.VideoList
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id} [put]
// @Router /lists/{id} [patch]
func (h *Handler) HandleUpdateList(c *fiber.Ctx) error {
	var in ListInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	list, err := h.service.UpdateList(c.UserContext(), userID(c), c.Params("id"), in, c.Method() == fiber.MethodPatch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleDeleteList deletes a video list and its thumbnail.
// @Summary Delete Video List
// @Tags library
// @Security BearerAuth
// @Param id path string true "list_id"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id} [delete]
func (h *Handler) HandleDeleteList(c *fiber.Ctx) error {
	if err := h.service.DeleteList(c.UserContext(), userID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListVideos lists the entries of a video list.
// @Summary List Entries
// @Tags library
// @Produce json
// @Security BearerAuth
// @Param id path string true "list_id"
// @Success 200 {array} models.ListVideo
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id}/videos [get]
func (h *Handler) HandleListVideos(c *fiber.Ctx) error {
	entries, err := h.service.ListVideos(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(entries)
}

// HandleAddVideo adds a video to a list.
// @Summary Add Entry
// @Tags library
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "list_id"
// @Param body body videoRef true "Video"
// @Success 201 {object} models.ListVideo
// @Failure 400 {object} map[string]string "Already in list"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id}/videos [post]
func (h *Handler) HandleAddVideo(c *fiber.Ctx) error {
	var in videoRef
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	entry, err := h.service.AddVideo(c.UserContext(), userID(c), c.Params("id"), in.VideoID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleRemoveVideo removes a video from a list.
// @Summary Remove Entry
// @Tags library
// @Security BearerAuth
// @Param id path string true "list_id"
// @Param video_id path string true "Video id"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id}/videos/{video_id} [delete]
func (h *Handler) HandleRemoveVideo(c *fiber.Ctx) error {
	if err := h.service.RemoveVideo(c.UserContext(), userID(c), c.Params("id"), c.Params("video_id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetThumbnail uploads the request body as the list thumbnail.
// @Summary Upload Thumbnail
// @Tags library
// @Accept image/png
// @Accept image/jpeg
// @Produce json
// @Security BearerAuth
// @Param id path string true "list_id"
// @Success 200 {object} models.VideoList
// @Failure 400 {object} map[string]string "Not an image"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /lists/{id}/thumbnail [put]
func (h *Handler) HandleSetThumbnail(c *fiber.Ctx) error {
	body := c.Body()
	list, err := h.service.SetThumbnail(c.UserContext(), userID(c), c.Params("id"),
		bytes.NewReader(body), int64(len(body)), c.Get(fiber.HeaderContentType))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleGetThumbnail streams the list thumbnail.
// @Summary Get Thumbnail
// @Tags library
// @Produce image/png
// @Produce image/jpeg
// @Security BearerAuth
// @Param id path string true "list_id"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Not Found"
// @Router /lists/{id}/thumbnail [get]
func (h *Handler) HandleGetThumbnail(c *fiber.Ctx) error {
	obj, contentType, err := h.service.GetThumbnail(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.SendStream(obj)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var inErr *InputError
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found."})
	case errors.Is(err, ErrAlreadySaved):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Video already saved"})
	case errors.Is(err, ErrAlreadyInList):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Video already in list"})
	case errors.Is(err, ErrNoStorage):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &inErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": inErr.Reason})
	default:
		logger.WithRayID(h.service.logger, c).Error("Library request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
