package accounts

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"video-catalog/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	svc, tokens, _ := setupService(t)
	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: "svc-key", Tokens: tokens, Users: svc}))
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string, headers map[string]string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestAuthFlow(t *testing.T) {
	app := setupTestApp(t)

	status, body := post(t, app, "/auth/register", `{"username":"erin","password":"password1"}`, nil)
	require.Equal(t, 201, status)
	tok := body["token"].(string)
	assert.NotEmpty(t, tok)
	user := body["user"].(map[string]any)
	assert.Equal(t, "erin", user["username"])
	assert.NotContains(t, user, "password_hash")

	status, body = post(t, app, "/auth/register", `{"username":"erin","password":"password1"}`, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "A user with that username already exists.", body["error"])

	status, body = post(t, app, "/auth/login", `{"username":"erin","password":"nope"}`, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid credentials", body["error"])

	status, body = post(t, app, "/auth/login", `{"username":"erin","password":"password1"}`, nil)
	require.Equal(t, 200, status)
	loginToken := body["token"].(string)

	status, _ = post(t, app, "/auth/logout", ``, map[string]string{"Authorization": "Token " + loginToken})
	assert.Equal(t, 204, status)

	status, body = post(t, app, "/auth/logout", ``, map[string]string{"Authorization": "Bearer " + loginToken})
	assert.Equal(t, 401, status)
	assert.Equal(t, "Invalid token.", body["error"])

	status, _ = post(t, app, "/auth/logout", ``, map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, 204, status)
}

func TestLogout_Anonymous(t *testing.T) {
	app := setupTestApp(t)

	status, _ := post(t, app, "/auth/logout", ``, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := post(t, app, "/auth/logout", ``, map[string]string{auth.ApiKeyHeader: "svc-key"})
	assert.Equal(t, 400, status)
	assert.Equal(t, "only token sessions can be logged out", body["error"])
}

func TestRegister_BadBody(t *testing.T) {
	app := setupTestApp(t)

	status, body := post(t, app, "/auth/register", `{"username":`, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "invalid request body", body["error"])

	status, body = post(t, app, "/auth/register", `{"username":"x"}`, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "password is required", body["error"])
}

func TestHandleRegister_MultiBytePasswordTooLong(t *testing.T) {
	app := setupTestApp(t)

	body := `{"username":"gina","password":"` + strings.Repeat("é", 72) + `"}`
	status, out := post(t, app, "/auth/register", body, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "password must be at most 72 bytes", out["error"])
}
