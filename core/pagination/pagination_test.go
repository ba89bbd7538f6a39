package pagination_test

import (
	"net/http/httptest"
	"testing"

	"video-catalog/core/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Limit: 50}},
		{"?limit=10", pagination.Params{Limit: 10}},
		{"?limit=10&offset=20", pagination.Params{Limit: 10, Offset: 20}},
		{"?limit=abc&offset=-5", pagination.Params{Limit: 50}},
		{"?limit=0", pagination.Params{Limit: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got pagination.Params
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				got = pagination.FromQuery(c, 50)
				return nil
			})
			_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPage(t *testing.T) {
	base := "http://example.com/videos?topic=3&limit=2&offset=2"

	t.Run("Middle", func(t *testing.T) {
		page := pagination.NewPage([]int{3, 4}, 6, pagination.Params{Limit: 2, Offset: 2}, base)
		require.NotNil(t, page.Next)
		require.NotNil(t, page.Previous)
		assert.Equal(t, "http://example.com/videos?limit=2&offset=4&topic=3", *page.Next)
		assert.Equal(t, "http://example.com/videos?limit=2&topic=3", *page.Previous)
		assert.Equal(t, int64(6), page.Count)
	})

	t.Run("Last", func(t *testing.T) {
		page := pagination.NewPage([]int{5, 6}, 6, pagination.Params{Limit: 2, Offset: 4}, base)
		assert.Nil(t, page.Next)
		assert.NotNil(t, page.Previous)
	})

	t.Run("Empty", func(t *testing.T) {
		page := pagination.NewPage[int](nil, 0, pagination.Params{Limit: 2}, base)
		assert.Nil(t, page.Next)
		assert.Nil(t, page.Previous)
		assert.NotNil(t, page.Results)
		assert.Empty(t, page.Results)
	})
}
