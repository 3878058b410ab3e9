package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"membership/internal/logger"
	"membership/internal/models"
	"membership/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNoSession means the request carries no usable session: no cookie, a
// forged or expired token, or a store entry that is gone.
var ErrNoSession = errors.New("no active session")

// SessionOptions configures token signing and lifetime.
type SessionOptions struct {
	Secret []byte
	TTL    time.Duration
}

// SessionService keeps session state in the store; the cookie only carries
// a signed reference (jti) to it.
type SessionService struct {
	store  repository.Sessions
	secret []byte
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time
}

func NewSessionService(store repository.Sessions, opts SessionOptions, log *logger.Logger) *SessionService {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionService{
		store:  store,
		secret: opts.Secret,
		ttl:    opts.TTL,
		log:    log,
		now:    time.Now,
	}
}

// Start persists a new session and returns the signed cookie token.
func (s *SessionService) Start(ctx context.Context, data models.SessionData) (string, time.Time, error) {
	now := s.now().UTC().Truncate(time.Second)
	sess := models.Session{
		ID:        uuid.NewString(),
		Data:      data,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return "", time.Time{}, fmt.Errorf("save session: %w", err)
	}
	token, err := s.sign(sess.ID, now, sess.ExpiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, sess.ExpiresAt, nil
}

// Resolve returns the session data behind token, or ErrNoSession.
// Other errors are store failures.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.SessionData, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	id, err := s.parse(token, true)
	if err != nil {
		s.log.Debugw("session_token_rejected", "err", err)
		return nil, ErrNoSession
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, ErrNoSession
	}
	if sess.Expired(s.now()) {
		if err := s.store.Delete(ctx, id); err != nil {
			s.log.Warnw("session_expired_delete_failed", "session_id", id, "err", err)
		}
		return nil, ErrNoSession
	}
	return &sess.Data, nil
}

// End deletes the session behind token. Tokens that do not verify refer to
// nothing and are ignored; expired ones are still honoured so their row goes.
func (s *SessionService) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := s.parse(token, false)
	if err != nil {
		return nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// Reap deletes expired sessions every interval until ctx is canceled.
func (s *SessionService) Reap(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.reapOnce(ctx)
		}
	}
}

func (s *SessionService) reapOnce(ctx context.Context) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.log.Errorw("session_reap_failed", "err", err)
		}
		return
	}
	if n > 0 {
		s.log.Infow("session_reaped", "count", n)
	}
}

// helper: sign a session reference
func (s *SessionService) sign(id string, issued, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// helper: verify a token and return its session id
func (s *SessionService) parse(raw string, checkExpiry bool) (string, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now)}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("session token carries no id")
	}
	return claims.ID, nil
}
