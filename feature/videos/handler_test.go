package videos

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"video-catalog/core/middleware/auth"
	"video-catalog/feature/videos/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testAPIKey = "test-api-key"

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := setupDB(t)
	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: testAPIKey}))
	svc := NewService(db, nil, "videos", zap.NewNop(), nil)
	NewHandler(svc, 50).RegisterRoutes(app)
	return app, db
}

func send(t *testing.T, app *fiber.App, method, path, body string, admin bool) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(auth.ApiKeyHeader, testAPIKey)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func videoIDs(t *testing.T, body map[string]any, key string) []string {
	t.Helper()
	items, ok := body[key].([]any)
	require.True(t, ok, "missing %s in %v", key, body)
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.(map[string]any)["video_id"].(string))
	}
	return out
}

func TestHandleBulkUpsert_AllThreeBuckets(t *testing.T) {
	app, db := setupTestApp(t)
	seedVideo(t, db, models.Video{VideoID: "v1", Title: "Old"})

	status, body := send(t, app, "POST", "/videos/update-and-create-bulk", `{"videos": [
		{"video_id": "v1", "title": "A"},
		{"video_id": "", "title": "B"},
		{"video_id": "v2", "title": "C", "topic": 1}
	]}`, true)

	assert.Equal(t, fiber.StatusPartialContent, status)
	assert.Equal(t, []string{"v1"}, videoIDs(t, body, "updated_videos"))
	assert.Equal(t, []string{"v2"}, videoIDs(t, body, "created_videos"))

	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	entry := errs[0].(map[string]any)
	assert.Equal(t, "video_id is required", entry["error"])
	assert.Equal(t, map[string]any{"video_id": "", "title": "B"}, entry["video"])
}

func TestHandleBulkUpsert_Classification(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		keys   []string
	}{
		{"CreateOnly", `{"videos":[{"video_id":"v9","title":"X","topic":1}]}`, 201, []string{"created_videos"}},
		{"UpdateOnly", `{"videos":[{"video_id":"v1","likes":5}]}`, 200, []string{"updated_videos"}},
		{"CreateAndUpdate", `{"videos":[{"video_id":"v1","likes":5},{"video_id":"v9","title":"X","topic":1}]}`, 201, []string{"created_videos", "updated_videos"}},
		{"CreateAndFail", `{"videos":[{"video_id":"v9","title":"X","topic":1},{"video_id":"v8"}]}`, 206, []string{"created_videos", "errors"}},
		{"UpdateAndFail", `{"videos":[{"video_id":"v1","likes":-3},{"video_id":"v1","likes":4}]}`, 206, []string{"errors", "updated_videos"}},
		{"TotalFailure", `{"videos":[{"title":"no id"}]}`, 400, []string{"errors"}},
		{"Empty", `{"videos":[]}`, 200, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, db := setupTestApp(t)
			seedVideo(t, db, models.Video{VideoID: "v1"})

			status, body := send(t, app, "POST", "/videos/update-and-create-bulk", tt.body, true)
			assert.Equal(t, tt.status, status)

			keys := make([]string, 0, len(body))
			for k := range body {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.keys, keys)
		})
	}
}

func TestHandleBulkUpsert_MalformedBody(t *testing.T) {
	app, _ := setupTestApp(t)

	for body, msg := range map[string]string{
		`not json`:            "request body must be a JSON object",
		`{}`:                  "videos is required",
		`{"videos": "v1"}`:    "videos must be a list",
		`{"videos": ["v1"]}`:  "each entry in videos must be a JSON object",
		`[{"video_id":"v1"}]`: "request body must be a JSON object",
	} {
		status, resp := send(t, app, "POST", "/videos/update-and-create-bulk", body, true)
		assert.Equal(t, 400, status, body)
		assert.Equal(t, msg, resp["error"], body)
	}
}

func TestHandleBulkUpsert_RequiresAdmin(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := send(t, app, "POST", "/videos/update-and-create-bulk", `{"videos":[]}`, false)
	assert.Equal(t, 401, status)
	assert.Equal(t, "Authentication credentials were not provided.", body["error"])
}

func TestHandleBulkCreate(t *testing.T) {
	app, db := setupTestApp(t)
	seedVideo(t, db, models.Video{VideoID: "v1"})

	status, body := send(t, app, "POST", "/videos", `{"videos":[
		{"video_id":"v1","title":"dup","topic":1},
		{"video_id":"v2","title":"new","topic":1},
		{"title":"anonymous","topic":1}
	]}`, true)

	assert.Equal(t, 206, status)
	assert.Equal(t, []string{"v2"}, videoIDs(t, body, "created_videos"))
	assert.NotContains(t, body, "updated_videos")

	errs := body["errors"].([]any)
	require.Len(t, errs, 2)
	assert.Equal(t, "video_id: video with this video_id already exists", errs[0].(map[string]any)["error"])
	assert.Equal(t, "video_id is required", errs[1].(map[string]any)["error"])
}

func TestHandleGet_DualKey(t *testing.T) {
	app, db := setupTestApp(t)
	seedVideo(t, db, models.Video{ID: 7, VideoID: "v7", Title: "Seven"})

	for _, key := range []string{"v7", "7"} {
		status, body := send(t, app, "GET", "/videos/"+key, "", false)
		assert.Equal(t, 200, status, key)
		assert.Equal(t, "v7", body["video_id"], key)
		assert.Equal(t, float64(7), body["id"], key)
	}

	status, body := send(t, app, "GET", "/videos/v8", "", false)
	assert.Equal(t, 404, status)
	assert.Equal(t, "No video found with id or video_id: v8", body["error"])
}

func TestHandleList_FiltersAndOrdering(t *testing.T) {
	app, db := setupTestApp(t)
	sub := uint(2)
	seedVideo(t, db, models.Video{VideoID: "a", Likes: 5, Views: 100})
	seedVideo(t, db, models.Video{VideoID: "b", Likes: 20, Views: 10})
	seedVideo(t, db, models.Video{VideoID: "c", Likes: 50, Views: 1, TopicID: 2, SubtopicID: &sub})

	status, body := send(t, app, "GET", "/videos?likes__gte=10&ordering=-likes", "", false)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, []string{"c", "b"}, videoIDs(t, body, "results"))

	_, body = send(t, app, "GET", "/videos?views__range=5,100&ordering=views", "", false)
	assert.Equal(t, []string{"b", "a"}, videoIDs(t, body, "results"))

	_, body = send(t, app, "GET", "/videos?topic=2&subtopic=2", "", false)
	assert.Equal(t, []string{"c"}, videoIDs(t, body, "results"))

	_, body = send(t, app, "GET", "/videos?video_id=b&ordering=bogus", "", false)
	assert.Equal(t, []string{"b"}, videoIDs(t, body, "results"))

	status, body = send(t, app, "GET", "/videos?likes__range=5", "", false)
	assert.Equal(t, 400, status)
	assert.Equal(t, "likes__range: enter two numbers separated by a comma", body["error"])
}

func TestHandleList_Pagination(t *testing.T) {
	app, db := setupTestApp(t)
	for _, id := range []string{"a", "b", "c"} {
		seedVideo(t, db, models.Video{VideoID: id})
	}

	_, body := send(t, app, "GET", "/videos?limit=2", "", false)
	assert.Equal(t, float64(3), body["count"])
	assert.Equal(t, []string{"a", "b"}, videoIDs(t, body, "results"))
	assert.Equal(t, "http://example.com/videos?limit=2&offset=2", body["next"])
	assert.Nil(t, body["previous"])

	_, body = send(t, app, "GET", "/videos?limit=2&offset=2", "", false)
	assert.Equal(t, []string{"c"}, videoIDs(t, body, "results"))
	assert.Nil(t, body["next"])
	assert.Equal(t, "http://example.com/videos?limit=2", body["previous"])
}

func TestHandlePatchAndReplace(t *testing.T) {
	app, db := setupTestApp(t)
	seedVideo(t, db, models.Video{VideoID: "v1", Title: "Old", Description: "desc"})

	status, body := send(t, app, "PATCH", "/videos/v1", `{"title":"Patched"}`, true)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Patched", body["title"])
	assert.Equal(t, "desc", body["description"])

	status, body = send(t, app, "PUT", "/videos/1", `{"video_id":"v1","title":"Replaced","topic":2}`, true)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Replaced", body["title"])
	assert.Equal(t, "", body["description"])
	assert.Equal(t, float64(2), body["topic"])

	status, body = send(t, app, "PATCH", "/videos/v1", `{"topic":99}`, true)
	assert.Equal(t, 400, status)
	assert.Equal(t, `topic: invalid pk "99", object does not exist`, body["error"])

	status, _ = send(t, app, "PATCH", "/videos/ghost", `{"title":"x"}`, true)
	assert.Equal(t, 404, status)

	status, _ = send(t, app, "PATCH", "/videos/v1", `[1,2]`, true)
	assert.Equal(t, 400, status)
}

func TestHandleDelete(t *testing.T) {
	app, db := setupTestApp(t)
	seedVideo(t, db, models.Video{VideoID: "v1"})
	seedVideo(t, db, models.Video{VideoID: "v2"})

	status, _ := send(t, app, "DELETE", "/videos/v1", "", true)
	assert.Equal(t, 204, status)

	status, _ = send(t, app, "DELETE", "/videos/v1", "", true)
	assert.Equal(t, 404, status)

	status, _ = send(t, app, "DELETE", "/videos/delete-all", "", true)
	assert.Equal(t, 204, status)

	var count int64
	require.NoError(t, db.Model(&models.Video{}).Count(&count).Error)
	assert.Zero(t, count)
}
