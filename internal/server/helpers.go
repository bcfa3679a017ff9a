package server

import (
	"errors"
	"strings"

	"yummigo/internal/models"
	"yummigo/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the :id route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseListQuery builds the recipe listing query from request parameters.
// Malformed values degrade to defaults rather than failing.
func parseListQuery(c *fiber.Ctx) repository.ListQuery {
	q := repository.ListQuery{
		Category:    c.Query("category"),
		Search:      c.Query("search"),
		SearchField: repository.ResolveSearchField(c.Query("searchField")),
		Sort:        repository.ResolveSortKey(c.Query("sortBy")),
		Ingredients: parseIngredients(c),
	}

	if limit := c.QueryInt("limit", 0); limit > 0 {
		q.Limit = limit
	}

	return q
}

// parseIngredients collects the ingredients parameter, accepting both
// repeated ?ingredients=a&ingredients=b and comma-separated forms.
func parseIngredients(c *fiber.Ctx) []string {
	var ingredients []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("ingredients") {
		for _, part := range strings.Split(string(raw), ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				ingredients = append(ingredients, part)
			}
		}
	}
	return ingredients
}
