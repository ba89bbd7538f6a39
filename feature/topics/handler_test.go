package topics

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
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: "k"}))
	NewHandler(NewService(setupDB(t), zap.NewNop())).RegisterRoutes(app)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string, admin bool) (int, any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(auth.ApiKeyHeader, "k")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestTopicRoutes(t *testing.T) {
	app := setupTestApp(t)

	status, _ := call(t, app, "POST", "/topics", `{"name":"Science"}`, false)
	assert.Equal(t, 401, status)

	status, body := call(t, app, "POST", "/topics", `{"name":"Science"}`, true)
	require.Equal(t, 201, status)
	topic := body.(map[string]any)
	assert.Equal(t, "Science", topic["name"])
	assert.Nil(t, topic["description"])

	status, body = call(t, app, "GET", "/topics", "", false)
	assert.Equal(t, 200, status)
	assert.Len(t, body.([]any), 1)

	status, body = call(t, app, "PATCH", "/topics/1", `{"description":"Facts"}`, true)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Facts", body.(map[string]any)["description"])

	status, body = call(t, app, "PUT", "/topics/1", `{"description":"x"}`, true)
	assert.Equal(t, 400, status)
	assert.Equal(t, "name: this field is required", body.(map[string]any)["error"])

	status, _ = call(t, app, "GET", "/topics/abc", "", false)
	assert.Equal(t, 404, status)

	status, _ = call(t, app, "DELETE", "/topics/1", "", true)
	assert.Equal(t, 204, status)

	status, body = call(t, app, "GET", "/topics/1", "", false)
	assert.Equal(t, 404, status)
	assert.Equal(t, "Not found.", body.(map[string]any)["error"])
}

func TestSubtopicRoutes(t *testing.T) {
	app := setupTestApp(t)
	call(t, app, "POST", "/topics", `{"name":"A"}`, true)
	call(t, app, "POST", "/topics", `{"name":"B"}`, true)

	status, _ := call(t, app, "POST", "/subtopics", `{"name":"a1","topic":1}`, true)
	require.Equal(t, 201, status)
	status, _ = call(t, app, "POST", "/subtopics", `{"name":"b1","topic":2}`, true)
	require.Equal(t, 201, status)

	status, body := call(t, app, "GET", "/subtopics?topic=2", "", false)
	assert.Equal(t, 200, status)
	list := body.([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "b1", list[0].(map[string]any)["name"])

	status, _ = call(t, app, "GET", "/subtopics?topic=x", "", false)
	assert.Equal(t, 400, status)

	status, body = call(t, app, "POST", "/subtopics", `{"name":"z","topic":9}`, true)
	assert.Equal(t, 400, status)
	assert.Equal(t, `topic: invalid pk "9", object does not exist`, body.(map[string]any)["error"])

	status, _ = call(t, app, "DELETE", "/subtopics/1", "", true)
	assert.Equal(t, 204, status)
	status, _ = call(t, app, "GET", "/subtopics/1", "", false)
	assert.Equal(t, 404, status)
}
