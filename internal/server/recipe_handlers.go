package server

import (
	"fmt"

	"yummigo/internal/models"
	"yummigo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type recipeRequest struct {
	Title                string  `json:"title" validate:"required,max=150"`
	Description          string  `json:"description" validate:"required"`
	Ingredients          string  `json:"ingredients" validate:"required"`
	Steps                string  `json:"steps" validate:"required"`
	Category             string  `json:"category" validate:"required,max=50"`
	ImageURL             string  `json:"imageUrl" validate:"required,url"`
	VideoURL             *string `json:"videoUrl" validate:"omitempty,url"`
	Calories             *int    `json:"calories" validate:"omitempty,gte=0"`
	Protein              *int    `json:"protein" validate:"omitempty,gte=0"`
	Carbs                *int    `json:"carbs" validate:"omitempty,gte=0"`
	Fat                  *int    `json:"fat" validate:"omitempty,gte=0"`
	CookingTimeInMinutes *int    `json:"cookingTimeInMinutes" validate:"omitempty,gte=0"`
}

// apply copies the request payload onto a recipe entity.
func (req *recipeRequest) apply(recipe *models.Recipe) {
	recipe.Title = req.Title
	recipe.Description = req.Description
	recipe.Ingredients = req.Ingredients
	recipe.Steps = req.Steps
	recipe.Category = req.Category
	recipe.ImageURL = req.ImageURL
	recipe.VideoURL = req.VideoURL
	recipe.Calories = req.Calories
	recipe.Protein = req.Protein
	recipe.Carbs = req.Carbs
	recipe.Fat = req.Fat
	recipe.CookingTimeInMinutes = req.CookingTimeInMinutes
}

// ListRecipes handles GET /api/recipes
// @Summary List recipes with filtering, search, sorting, and a result limit
// @Tags recipes
// @Produce json
// @Param category query string false "Case-insensitive category match"
// @Param search query string false "Free-text search term"
// @Param searchField query string false "title | ingredients | description | category | all"
// @Param ingredients query []string false "Required ingredient substrings (conjunctive)"
// @Param sortBy query string false "title_asc | title_desc | date_asc | date_desc"
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} models.RecipeView
// @Router /recipes [get]
func (s *Server) ListRecipes(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID, _ := s.optionalUserID(c)

	recipes, err := s.recipeRepo.List(ctx, parseListQuery(c), viewerID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	views := make([]models.RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, recipe.View())
	}
	return c.JSON(views)
}

// GetRecipe handles GET /api/recipes/:id
// @Summary Get a single recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.RecipeView
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [get]
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	recipe, err := s.recipeRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(recipe.View())
}

// CreateRecipe handles POST /api/recipes
// @Summary Create a recipe owned by the session user
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body recipeRequest true "Recipe payload"
// @Success 201 {object} models.RecipeView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /recipes [post]
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req recipeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if verr := validation.Struct(req); verr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, verr)
	}

	recipe := &models.Recipe{UserID: userID}
	req.apply(recipe)

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// Reload for the enriched projection (fresh like count, viewer flag).
	created, err := s.recipeRepo.GetByID(ctx, recipe.ID, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	c.Set(fiber.HeaderLocation, fmt.Sprintf("/api/recipes/%d", created.ID))
	return c.Status(fiber.StatusCreated).JSON(created.View())
}

// UpdateRecipe handles PUT /api/recipes/:id
// @Summary Replace all fields of an owned recipe
// @Tags recipes
// @Accept json
// @Param id path int true "Recipe ID"
// @Param request body recipeRequest true "Recipe payload"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [put]
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req recipeRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if verr := validation.Struct(req); verr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, verr)
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	if recipe.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only update your own recipes"))
	}

	req.apply(recipe)
	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteRecipe handles DELETE /api/recipes/:id
// @Summary Delete an owned recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [delete]
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	if recipe.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own recipes"))
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikeRecipe handles POST /api/recipes/:id/like
// Liking an already-liked recipe is a no-op reported as success.
// @Summary Like a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/like [post]
func (s *Server) LikeRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	exists, err := s.recipeRepo.Exists(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if !exists {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Recipe", id))
	}

	created, err := s.recipeRepo.Like(ctx, userID, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if !created {
		return c.JSON(fiber.Map{"message": "Recipe already liked"})
	}
	return c.JSON(fiber.Map{"message": "Recipe liked"})
}

// UnlikeRecipe handles DELETE /api/recipes/:id/like
// Unliking a never-liked recipe is a no-op reported as success.
// @Summary Remove a like from a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{message=string}
// @Router /recipes/{id}/like [delete]
func (s *Server) UnlikeRecipe(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	removed, err := s.recipeRepo.Unlike(ctx, userID, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if !removed {
		return c.JSON(fiber.Map{"message": "Recipe was not liked"})
	}
	return c.JSON(fiber.Map{"message": "Recipe like removed"})
}

// GetCategories handles GET /api/recipes/categories
// @Summary List distinct recipe categories, sorted
// @Tags recipes
// @Produce json
// @Success 200 {array} string
// @Router /recipes/categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.recipeRepo.Categories(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(categories)
}

// statusForError maps repository AppError codes to HTTP statuses.
func statusForError(err error) int {
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "VALIDATION_ERROR":
			return fiber.StatusBadRequest
		case "UNAUTHORIZED":
			return fiber.StatusUnauthorized
		case "FORBIDDEN":
			return fiber.StatusForbidden
		}
	}
	return fiber.StatusInternalServerError
}
