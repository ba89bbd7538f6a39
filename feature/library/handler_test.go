package library

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"video-catalog/core/middleware/auth"
	"video-catalog/core/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	app    *fiber.App
	tokens *token.Manager
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	db := setupDB(t)
	require.NoError(t, db.AutoMigrate(&token.RevokedToken{}))
	tokens, err := token.NewManager(token.Config{JWTSecret: strings.Repeat("k", 32), TokenTTLMinutes: 5, Issuer: "test"}, db)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: "svc-key", Tokens: tokens}))
	NewFeature(db, nil, "videos", zap.NewNop()).Load(app)
	return &testApp{app: app, tokens: tokens}
}

func (ta *testApp) bearer(t *testing.T, userID uint) string {
	t.Helper()
	tok, _, err := ta.tokens.Issue(token.Subject{UserID: userID, Username: fmt.Sprintf("user%d", userID)})
	require.NoError(t, err)
	return "Bearer " + tok
}

func (ta *testApp) send(t *testing.T, method, path, body, authz string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func TestHandler_RequiresUser(t *testing.T) {
	ta := setupTestApp(t)

	for _, path := range []string{"/saved-videos", "/lists"} {
		status, _ := ta.send(t, "GET", path, "", "")
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
	}
}

func TestHandler_SavedVideos(t *testing.T) {
	ta := setupTestApp(t)
	alice, bob := ta.bearer(t, 1), ta.bearer(t, 2)

	status, raw := ta.send(t, "POST", "/saved-videos", `{"video_id":"v1"}`, alice)
	require.Equal(t, 201, status)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(raw, &saved))
	id := int(saved["id"].(float64))

	status, raw = ta.send(t, "POST", "/saved-videos", `{"video_id":"v1"}`, alice)
	assert.Equal(t, 400, status)
	assert.JSONEq(t, `{"error":"Video already saved"}`, string(raw))

	status, _ = ta.send(t, "GET", fmt.Sprintf("/saved-videos/%d", id), "", bob)
	assert.Equal(t, 404, status)

	status, raw = ta.send(t, "GET", "/saved-videos", "", bob)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `[]`, string(raw))

	status, _ = ta.send(t, "DELETE", fmt.Sprintf("/saved-videos/%d", id), "", alice)
	assert.Equal(t, 204, status)
	status, _ = ta.send(t, "GET", "/saved-videos/abc", "", alice)
	assert.Equal(t, 404, status)
}

func TestHandler_Lists(t *testing.T) {
	ta := setupTestApp(t)
	alice, bob := ta.bearer(t, 1), ta.bearer(t, 2)

	status, raw := ta.send(t, "POST", "/lists", `{"title":""}`, alice)
	assert.Equal(t, 400, status)
	assert.JSONEq(t, `{"error":"title: this field may not be blank"}`, string(raw))

	status, raw = ta.send(t, "POST", "/lists", `{"title":"Watch later"}`, alice)
	require.Equal(t, 201, status)
	var list map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	path := "/lists/" + list["list_id"].(string)

	status, _ = ta.send(t, "GET", path, "", bob)
	assert.Equal(t, 404, status)

	status, raw = ta.send(t, "PATCH", path, `{"description":"soon"}`, alice)
	require.Equal(t, 200, status)
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, "Watch later", list["title"])
	assert.Equal(t, "soon", list["description"])

	status, _ = ta.send(t, "POST", path+"/videos", `{"video_id":"v1"}`, alice)
	assert.Equal(t, 201, status)
	status, raw = ta.send(t, "POST", path+"/videos", `{"video_id":"v1"}`, alice)
	assert.Equal(t, 400, status)
	assert.JSONEq(t, `{"error":"Video already in list"}`, string(raw))

	status, raw = ta.send(t, "GET", path+"/videos", "", alice)
	assert.Equal(t, 200, status)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "v1", entries[0]["video_id"])

	status, _ = ta.send(t, "DELETE", path+"/videos/v1", "", alice)
	assert.Equal(t, 204, status)

	status, _ = ta.send(t, "PUT", path+"/thumbnail", "png", alice)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	status, _ = ta.send(t, "DELETE", path, "", alice)
	assert.Equal(t, 204, status)
	status, _ = ta.send(t, "GET", path, "", alice)
	assert.Equal(t, 404, status)
}

func TestHandler_RejectsServicePrincipal(t *testing.T) {
	ta := setupTestApp(t)

	req := httptest.NewRequest("GET", "/lists", nil)
	req.Header.Set(auth.ApiKeyHeader, "svc-key")
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
