package server

import (
	"yummigo/internal/models"
	"yummigo/internal/session"
	"yummigo/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/user/register
// @Summary Register a new account
// @Tags user
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration payload"
// @Success 201 {object} object{message=string,user=models.UserView}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	ctx := c.Context()

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if verr := validation.Struct(req); verr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, verr)
	}

	taken, err := s.userRepo.UsernameOrEmailTaken(ctx, req.Username, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if taken {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username or email is already in use"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	// The unique constraints backstop the pre-check under concurrent registration.
	if createErr := s.userRepo.Create(ctx, user); createErr != nil {
		if appErr, ok := createErr.(*models.AppError); ok && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user.View(),
	})
}

// Login handles POST /api/user/login
// @Summary Log in and start a session
// @Tags user
// @Accept json
// @Produce json
// @Param request body loginRequest true "Login credentials"
// @Success 200 {object} object{message=string,user=models.UserView}
// @Failure 401 {object} models.ErrorResponse
// @Router /user/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.Context()

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if verr := validation.Struct(req); verr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, verr)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid username or password"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid username or password"))
	}

	token, err := s.sessions.Create(ctx, session.Data{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user.View(),
	})
}

// Logout handles POST /api/user/logout
// @Summary End the current session
// @Tags user
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /user/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	token := c.Cookies(s.config.SessionCookie)
	if token != "" {
		if err := s.sessions.Destroy(c.Context(), token); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}
	s.clearSessionCookie(c)

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}
