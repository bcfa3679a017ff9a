package server

import (
	"yummigo/internal/models"
	"yummigo/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type profileUpdateRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// GetCurrentUser handles GET /api/user/me
// @Summary Get the authenticated user's account
// @Tags user
// @Produce json
// @Success 200 {object} models.UserView
// @Failure 401 {object} models.ErrorResponse
// @Router /user/me [get]
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		// The session outlived its user; invalidate it.
		if token := c.Cookies(s.config.SessionCookie); token != "" {
			_ = s.sessions.Destroy(ctx, token)
		}
		s.clearSessionCookie(c)
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("No user is associated with this session"))
	}

	return c.JSON(user.View())
}

// GetMyRecipes handles GET /api/user/me/recipes
// @Summary List the authenticated user's own recipes (reduced shape)
// @Tags user
// @Produce json
// @Success 200 {array} models.RecipeSummary
// @Router /user/me/recipes [get]
func (s *Server) GetMyRecipes(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	summaries, err := s.recipeRepo.ListByOwner(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(summaries)
}

// DeleteAccount handles DELETE /api/user/me. Owned recipes and likes cascade
// at the database level.
// @Summary Delete the authenticated user's account
// @Tags user
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Router /user/me [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if token := c.Cookies(s.config.SessionCookie); token != "" {
		_ = s.sessions.Destroy(ctx, token)
	}
	s.clearSessionCookie(c)

	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateProfile handles PUT /api/user/me. Only the email can change.
// @Summary Update the authenticated user's email
// @Tags user
// @Accept json
// @Produce json
// @Param request body profileUpdateRequest true "Profile payload"
// @Success 200 {object} models.UserView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /user/me [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if verr := validation.Struct(req); verr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, verr)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		if token := c.Cookies(s.config.SessionCookie); token != "" {
			_ = s.sessions.Destroy(ctx, token)
		}
		s.clearSessionCookie(c)
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("No user is associated with this session"))
	}

	taken, err := s.userRepo.EmailTakenByOther(ctx, req.Email, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if taken {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError(map[string]string{
				"email": "This email address is already used by another account",
			}))
	}

	user.Email = req.Email
	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(user.View())
}
