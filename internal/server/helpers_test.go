package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"yummigo/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredients(t *testing.T) {
	app := fiber.New()
	var got []string
	app.Get("/x", func(c *fiber.Ctx) error {
		got = parseIngredients(c)
		return c.SendStatus(http.StatusOK)
	})

	tests := []struct {
		name     string
		url      string
		expected []string
	}{
		{
			name:     "Repeated Params",
			url:      "/x?ingredients=egg&ingredients=flour",
			expected: []string{"egg", "flour"},
		},
		{
			name:     "Comma Separated",
			url:      "/x?ingredients=egg,flour,milk",
			expected: []string{"egg", "flour", "milk"},
		},
		{
			name:     "Mixed With Whitespace",
			url:      "/x?ingredients=egg,%20flour&ingredients=milk",
			expected: []string{"egg", "flour", "milk"},
		},
		{
			name:     "Empty Entries Dropped",
			url:      "/x?ingredients=,,egg,",
			expected: []string{"egg"},
		},
		{
			name:     "Absent",
			url:      "/x",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.url, nil))
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseListQuery(t *testing.T) {
	app := fiber.New()
	var got repository.ListQuery
	app.Get("/x", func(c *fiber.Ctx) error {
		got = parseListQuery(c)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/x?category=Dinner&search=stew&searchField=description&sortBy=title_desc&limit=3", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "Dinner", got.Category)
	assert.Equal(t, "stew", got.Search)
	assert.Equal(t, repository.SearchDescription, got.SearchField)
	assert.Equal(t, repository.SortTitleDesc, got.Sort)
	assert.Equal(t, 3, got.Limit)

	// Defaults kick in for absent or malformed values.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/x?limit=banana", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, repository.SearchAll, got.SearchField)
	assert.Equal(t, repository.SortDateDesc, got.Sort)
	assert.Zero(t, got.Limit)
}

func TestParseID(t *testing.T) {
	s := &Server{config: testConfig()}
	app := fiber.New()
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c)
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	t.Run("Valid", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things/12", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]uint
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, uint(12), payload["id"])
	})

	t.Run("Non-Numeric", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things/abc", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Zero", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things/0", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Negative", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/things/-4", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
