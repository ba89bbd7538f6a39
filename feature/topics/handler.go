package topics

import (
	"errors"
	"strconv"

	"video-catalog/core/logger"
	"video-catalog/core/middleware/auth"
	"video-catalog/feature/topics/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for topics and subtopics.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = models.Topic{}
	return &Handler{service: service}
}

// RegisterRoutes registers the topic and subtopic routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	topics := app.Group("/topics")
	topics.Get("/", h.HandleListTopics)
	topics.Post("/", auth.RequireAdmin(), h.HandleCreateTopic)
	topics.Get("/:id", h.HandleGetTopic)
	topics.Put("/:id", auth.RequireAdmin(), h.HandleUpdateTopic)
	topics.Patch("/:id", auth.RequireAdmin(), h.HandleUpdateTopic)
	topics.Delete("/:id", auth.RequireAdmin(), h.HandleDeleteTopic)

	subtopics := app.Group("/subtopics")
	subtopics.Get("/", h.HandleListSubtopics)
	subtopics.Post("/", auth.RequireAdmin(), h.HandleCreateSubtopic)
	subtopics.Get("/:id", h.HandleGetSubtopic)
	subtopics.Put("/:id", auth.RequireAdmin(), h.HandleUpdateSubtopic)
	subtopics.Patch("/:id", auth.RequireAdmin(), h.HandleUpdateSubtopic)
	subtopics.Delete("/:id", auth.RequireAdmin(), h.HandleDeleteSubtopic)
}

// HandleListTopics lists all topics.
// @Summary List Topics
// @Tags topics
// @Produce json
// @Success 200 {array} models.Topic
// @Router /topics [get]
func (h *Handler) HandleListTopics(c *fiber.Ctx) error {
	topics, err := h.service.ListTopics(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(topics)
}

// HandleGetTopic returns a topic.
// @Summary Get Topic
// @Tags topics
// @Produce json
// @Param id path int true "Topic id"
// @Success 200 {object} models.Topic
// @Failure 404 {object} map[string]string "Not Found"
// @Router /topics/{id} [get]
func (h *Handler) HandleGetTopic(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	t, err := h.service.GetTopic(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

// HandleCreateTopic creates a topic.
// @Summary Create Topic
// @Tags topics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param body body TopicInput true "Topic"
// @Success 201 {object} models.Topic
// @Failure 400 {object} map[string]string "Validation error"
// @Router /topics [post]
func (h *Handler) HandleCreateTopic(c *fiber.Ctx) error {
	var in TopicInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	t, err := h.service.CreateTopic(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// HandleUpdateTopic updates a topic; PUT replaces, PATCH merges.
// @Summary Update Topic
// @Tags topics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param id path int true "Topic id"
// @Param body body TopicInput true "Topic"
// @Success 200 {object} models.Topic
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /topics/{id} [put]
// @Router /topics/{id} [patch]
func (h *Handler) HandleUpdateTopic(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var in TopicInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	t, err := h.service.UpdateTopic(c.UserContext(), id, in, c.Method() == fiber.MethodPatch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(t)
}

// HandleDeleteTopic deletes a topic and its subtopics.
// @Summary Delete Topic
// @Description Fails with 400 while videos reference the topic.
// @Tags topics
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param id path int true "Topic id"
// @Success 204
// @Failure 400 {object} map[string]string "Topic in use"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /topics/{id} [delete]
func (h *Handler) HandleDeleteTopic(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.service.DeleteTopic(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListSubtopics lists subtopics.
// @Summary List Subtopics
// @Tags subtopics
// @Produce json
// @Param topic query int false "Topic id"
// @Success 200 {array} models.Subtopic
// @Router /subtopics [get]
func (h *Handler) HandleListSubtopics(c *fiber.Ctx) error {
	var topicID *uint
	if raw := c.Query("topic"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "topic: select a valid choice"})
		}
		id := uint(n)
		topicID = &id
	}
	subtopics, err := h.service.ListSubtopics(c.UserContext(), topicID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(subtopics)
}

// HandleGetSubtopic returns a subtopic.
// @Summary Get Subtopic
// @Tags subtopics
// @Produce json
// @Param id path int true "Subtopic id"
// @Success 200 {object} models.Subtopic
// @Failure 404 {object} map[string]string "Not Found"
// @Router /subtopics/{id} [get]
func (h *Handler) HandleGetSubtopic(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	st, err := h.service.GetSubtopic(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}

// HandleCreateSubtopic creates a subtopic.
// @Summary Create Subtopic
// @Tags subtopics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param body body SubtopicInput true "Subtopic"
// @Success 201 {object} models.Subtopic
// @Failure 400 {object} map[string]string "Validation error"
// @Router /subtopics [post]
func (h *Handler) HandleCreateSubtopic(c *fiber.Ctx) error {
	var in SubtopicInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	st, err := h.service.CreateSubtopic(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(st)
}

// HandleUpdateSubtopic updates a subtopic; PUT replaces, PATCH merges.
// @Summary Update Subtopic
// @Tags subtopics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param id path int true "Subtopic id"
// @Param body body SubtopicInput true "Subtopic"
// @Success 200 {object} models.Subtopic
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /subtopics/{id} [put]
// @Router /subtopics/{id} [patch]
func (h *Handler) HandleUpdateSubtopic(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var in SubtopicInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	st, err := h.service.UpdateSubtopic(c.UserContext(), id, in, c.Method() == fiber.MethodPatch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(st)
}

// HandleDeleteSubtopic deletes a subtopic.
// @Summary Delete Subtopic
// @Description Videos in the subtopic keep their topic and lose the subtopic.
// @Tags subtopics
// @Security ApiKeyAuth
// @Security BearerAuth
// @Param id path int true "Subtopic id"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /subtopics/{id} [delete]
func (h *Handler) HandleDeleteSubtopic(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.service.DeleteSubtopic(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func pathID(c *fiber.Ctx) (uint, error) {
	n, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, ErrNotFound
	}
	return uint(n), nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var inErr *InputError
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found."})
	case errors.Is(err, ErrTopicInUse):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &inErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": inErr.Reason})
	default:
		logger.WithRayID(h.service.logger, c).Error("Topic request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
