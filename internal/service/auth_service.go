package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"membership/internal/models"
	"membership/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for every stored password.
const PasswordCost = 10

// bcrypt only looks at the first 72 bytes of its input.
const bcryptMaxInput = 72

// Domain errors for auth flows.
var (
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncorrectPassword  = errors.New("incorrect password")
)

// AuthService handles user auth logic
type AuthService struct {
	users repository.Users
}

func NewAuthService(users repository.Users) *AuthService {
	return &AuthService{users: users}
}

// SignUp validates the form, hashes the password and stores the user.
// Validation failures come back as *ValidationError; an already registered
// email as ErrEmailTaken.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (models.SessionData, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return models.SessionData{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.SessionData{}, err
	}

	// the unique index decides whether the email is taken
	if _, err := s.users.Create(ctx, in.Name, in.Email, hash); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.SessionData{}, ErrEmailTaken
		}
		return models.SessionData{}, fmt.Errorf("create user: %w", err)
	}
	return models.SessionData{Name: in.Name, Email: in.Email}, nil
}

// LogIn checks credentials. A malformed form yields ErrInvalidCredentials;
// ErrUserNotFound and ErrIncorrectPassword both wrap ErrInvalidCredentials so
// callers can answer them identically.
func (s *AuthService) LogIn(ctx context.Context, in LogInInput) (models.SessionData, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return models.SessionData{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, strings.Join(verr.Problems, "; "))
		}
		return models.SessionData{}, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return models.SessionData{}, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		// keep response time close to the found-user path
		_ = verifyPassword(dummyHash(), in.Password)
		return models.SessionData{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrUserNotFound)
	}

	if err := verifyPassword(u.PasswordHash, in.Password); err != nil {
		return models.SessionData{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrIncorrectPassword)
	}
	return models.SessionData{Name: u.Name, Email: u.Email}, nil
}

// passwordInput maps a password to bcrypt input. Passwords longer than
// bcrypt's input limit are pre-hashed so every byte still counts.
func passwordInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordInput(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordInput(password))
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := hashPassword("not-a-real-password")
	return h
})
