package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"video-catalog/core/token"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// ApiKeyHeader carries the machine API key.
const ApiKeyHeader = "X-API-Key"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   uint
	Username string
	IsAdmin  bool
	// Service is set for callers authenticated by API key rather than a user token.
	Service bool
	// Claims holds the validated token claims for user principals.
	Claims *token.Claims
}

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(ctx context.Context, tokenString string) (*token.Claims, error)
}

// UserLookup reports the current admin flag of a user.
type UserLookup interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// Config configures the authentication middleware.
type Config struct {
	// ApiKey grants an admin service principal when sent in X-API-Key. Empty disables it.
	ApiKey string
	// Tokens validates Authorization header tokens. Nil disables token auth.
	Tokens TokenValidator
	// Users, when set, overrides the admin claim with the stored flag so
	// demotions apply before the token expires.
	Users UserLookup
}

// New returns middleware that authenticates the request if credentials are present.
// Anonymous requests pass through; invalid credentials are rejected with 401.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key := c.Get(ApiKeyHeader); key != "" {
			if cfg.ApiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
				return unauthorized(c, "Invalid API key")
			}
			c.Locals(principalKey, &Principal{Username: "service", IsAdmin: true, Service: true})
			return c.Next()
		}

		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}
		if cfg.Tokens == nil {
			return unauthorized(c, "Token authentication is not configured")
		}

		claims, err := cfg.Tokens.Validate(c.UserContext(), raw)
		if err != nil {
			return unauthorized(c, "Invalid token.")
		}

		p := &Principal{
			UserID:   claims.UserID(),
			Username: claims.Username,
			IsAdmin:  claims.Admin,
			Claims:   claims,
		}
		if cfg.Users != nil {
			admin, err := cfg.Users.IsAdmin(c.UserContext(), p.UserID)
			if err != nil {
				return unauthorized(c, "Invalid token.")
			}
			p.IsAdmin = admin
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFrom(c); !ok {
			return unauthorized(c, "Authentication credentials were not provided.")
		}
		return c.Next()
	}
}

// RequireAdmin rejects anonymous (401) and non-admin (403) requests.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return unauthorized(c, "Authentication credentials were not provided.")
		}
		if !p.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You do not have permission to perform this action.",
			})
		}
		return c.Next()
	}
}

// PrincipalFrom returns the authenticated principal of the request.
func PrincipalFrom(c *fiber.Ctx) (*Principal, bool) {
	p, ok := c.Locals(principalKey).(*Principal)
	return p, ok && p != nil
}

// bearerToken extracts the token from "Bearer <t>" or "Token <t>".
func bearerToken(header string) (string, bool) {
	scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
