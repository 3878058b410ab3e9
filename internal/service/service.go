package service

import (
	"context"
	"time"

	"membership/internal/logger"
	"membership/internal/models"
	"membership/internal/repository"
)

// Authorization validates credentials and registers users.
type Authorization interface {
	SignUp(ctx context.Context, in SignUpInput) (models.SessionData, error)
	LogIn(ctx context.Context, in LogInInput) (models.SessionData, error)
}

// Sessions issues, resolves and ends server-side sessions addressed by a cookie token.
type Sessions interface {
	Start(ctx context.Context, data models.SessionData) (token string, expiresAt time.Time, err error)
	Resolve(ctx context.Context, token string) (*models.SessionData, error)
	End(ctx context.Context, token string) error
}

// Reaper runs the background loop that drops expired sessions.
// Stop via context cancellation in main() for graceful shutdown.
type Reaper interface {
	Reap(ctx context.Context, interval time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Sessions
	Reaper
}

func NewService(repos *repository.Repository, opts SessionOptions, log *logger.Logger) *Service {
	sessions := NewSessionService(repos.Sessions, opts, log)
	return &Service{
		Authorization: NewAuthService(repos.Users),
		Sessions:      sessions,
		Reaper:        sessions,
	}
}
