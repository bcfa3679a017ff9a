package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yummigo/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "chef",
				"email":    "chef@example.com",
				"password": "secret123",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("UsernameOrEmailTaken", mock.Anything, "chef", "chef@example.com").Return(false, nil)
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Username Or Email",
			body: map[string]string{
				"username": "chef",
				"email":    "chef@example.com",
				"password": "secret123",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("UsernameOrEmailTaken", mock.Anything, "chef", "chef@example.com").Return(true, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Short Password",
			body: map[string]string{
				"username": "chef",
				"email":    "chef@example.com",
				"password": "abc",
			},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid Email",
			body: map[string]string{
				"username": "chef",
				"email":    "not-an-email",
				"password": "secret123",
			},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Username Too Short",
			body: map[string]string{
				"username": "ab",
				"email":    "chef@example.com",
				"password": "secret123",
			},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{config: testConfig(), userRepo: mockRepo}
			app := fiber.New()
			app.Post("/register", s.Register)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRegister_StoresHashedPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("UsernameOrEmailTaken", mock.Anything, "chef", "chef@example.com").Return(false, nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		// The raw password must never reach the repository.
		return u.Password != "secret123" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")) == nil
	})).Return(nil)

	s := &Server{config: testConfig(), userRepo: mockRepo}
	app := fiber.New()
	app.Post("/register", s.Register)

	body, _ := json.Marshal(map[string]string{
		"username": "chef",
		"email":    "chef@example.com",
		"password": "secret123",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	existing := &models.User{ID: 42, Username: "chef", Email: "chef@example.com", Password: string(hashed)}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
		expectCookie   bool
	}{
		{
			name: "Success",
			body: map[string]string{"username": "chef", "password": "secret123"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "chef").Return(existing, nil)
			},
			expectedStatus: http.StatusOK,
			expectCookie:   true,
		},
		{
			name: "Wrong Password",
			body: map[string]string{"username": "chef", "password": "wrong-password"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "chef").Return(existing, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Unknown User",
			body: map[string]string{"username": "ghost", "password": "secret123"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Fields",
			body:           map[string]string{"username": "chef"},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)
			sessions, _ := newTestSessions(t)

			s := &Server{config: testConfig(), userRepo: mockRepo, sessions: sessions}
			app := fiber.New()
			app.Post("/login", s.Login)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			cookie := sessionCookieValue(resp, "yummigo_session")
			if tt.expectCookie {
				assert.NotEmpty(t, cookie)
			} else {
				assert.Empty(t, cookie)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLogout(t *testing.T) {
	sessions, _ := newTestSessions(t)
	s := &Server{config: testConfig(), sessions: sessions}
	app := fiber.New()
	app.Post("/logout", s.Logout)

	// Seed a live session and present its cookie.
	token := createTestSession(t, sessions, 42, "chef")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "yummigo_session", Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The session is gone server-side.
	data, err := sessions.Get(req.Context(), token)
	require.NoError(t, err)
	assert.Nil(t, data)

	// And the cookie is cleared client-side.
	for _, c := range resp.Cookies() {
		if c.Name == "yummigo_session" {
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestLogout_WithoutSessionStillSucceeds(t *testing.T) {
	sessions, _ := newTestSessions(t)
	s := &Server{config: testConfig(), sessions: sessions}
	app := fiber.New()
	app.Post("/logout", s.Logout)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logout", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// sessionCookieValue extracts the value of the named cookie from the response,
// treating deletion cookies (empty value) as absent.
func sessionCookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name && strings.TrimSpace(c.Value) != "" {
			return c.Value
		}
	}
	return ""
}
