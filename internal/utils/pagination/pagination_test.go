package pagination

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"?page=3&limit=20", Pagination{Page: 3, Limit: 20, Offset: 40}},
		{"?page=0&limit=-5", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"?page=abc&limit=1000", Pagination{Page: 1, Limit: MaxLimit, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = ParseFromRequest(c)
				return nil
			})

			_, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponse_TotalPages(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(Response(Pagination{Page: 1, Limit: 10, Total: 21}, []int{1, 2}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out struct {
		Data []int `json:"data"`
		Meta struct {
			TotalPages int64 `json:"total_pages"`
			TotalItems int64 `json:"total_items"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, []int{1, 2}, out.Data)
	assert.EqualValues(t, 3, out.Meta.TotalPages)
	assert.EqualValues(t, 21, out.Meta.TotalItems)
}
