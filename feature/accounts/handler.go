package accounts

import (
	"errors"

	"video-catalog/core/logger"
	"video-catalog/core/middleware/auth"
	"video-catalog/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for accounts.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the auth routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/auth")
	group.Post("/register", h.HandleRegister)
	group.Post("/login", h.HandleLogin)
	group.Post("/logout", auth.RequireUser(), h.HandleLogout)
}

// HandleRegister creates an account.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterInput true "Account"
// @Success 201 {object} Session
// @Failure 400 {object} map[string]string "Validation error"
// @Router /auth/register [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	session, err := h.service.Register(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleLogin exchanges credentials for a token.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginInput true "Credentials"
// @Success 200 {object} Session
// @Failure 400 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var in LoginInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	session, err := h.service.Login(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(session)
}

// HandleLogout revokes the caller's token.
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 400 {object} map[string]string "Not a token session"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/logout [post]
func (h *Handler) HandleLogout(c *fiber.Ctx) error {
	p, _ := auth.PrincipalFrom(c)
	if p.Claims == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "only token sessions can be logged out"})
	}
	if err := h.service.Logout(c.UserContext(), p.Claims); err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("User logged out", zap.String("username", p.Username))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var vErr *validation.RequestValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Error()})
	case errors.Is(err, ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, ErrUsernameTaken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A user with that username already exists."})
	default:
		logger.WithRayID(h.service.logger, c).Error("Account request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
