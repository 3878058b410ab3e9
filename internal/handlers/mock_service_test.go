package handlers

import (
	"context"
	"net/http"
	"time"

	"membership/internal/models"
	"membership/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpData models.SessionData
	signUpErr  error
	logInData  models.SessionData
	logInErr   error

	lastSignUp service.SignUpInput
	lastLogIn  service.LogInInput
}

func (m *mockAuth) SignUp(_ context.Context, in service.SignUpInput) (models.SessionData, error) {
	m.lastSignUp = in
	return m.signUpData, m.signUpErr
}

func (m *mockAuth) LogIn(_ context.Context, in service.LogInInput) (models.SessionData, error) {
	m.lastLogIn = in
	return m.logInData, m.logInErr
}

type mockSessions struct {
	startToken string
	startErr   error
	resolve    map[string]*models.SessionData
	resolveErr error
	endErr     error

	started []models.SessionData
	ended   []string
}

func (m *mockSessions) Start(_ context.Context, data models.SessionData) (string, time.Time, error) {
	m.started = append(m.started, data)
	return m.startToken, time.Now().Add(time.Hour), m.startErr
}

func (m *mockSessions) Resolve(_ context.Context, token string) (*models.SessionData, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	if data, ok := m.resolve[token]; ok {
		return data, nil
	}
	return nil, service.ErrNoSession
}

func (m *mockSessions) End(_ context.Context, token string) error {
	m.ended = append(m.ended, token)
	return m.endErr
}

// ---- Shared Test Helpers ----

const testCookie = "sid"

func newTestHandler(s *service.Service) *Handler {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, CookieOptions{Name: testCookie})
	h.pick = func(int) int { return 1 }
	return h
}

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestHandler(s).InitRoutes()
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: testCookie, Value: token}
}

// findCookie returns the named cookie set by a response, or nil.
func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
