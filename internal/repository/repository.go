package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"membership/internal/models"
	"membership/internal/repository/db"
)

// ErrDuplicateEmail is returned by Users.Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

type Users interface {
	Create(ctx context.Context, name, email, passwordHash string) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Sessions interface {
	Save(ctx context.Context, s models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository struct {
	Users    Users
	Sessions Sessions
}

// NewRepository builds the SQL repositories for the given driver (see db.Driver*).
func NewRepository(conn *sql.DB, driver string) *Repository {
	d := dialectFor(driver)
	return &Repository{
		Users:    NewUserRepository(conn, d),
		Sessions: NewSessionRepository(conn, d),
	}
}

func dialectFor(driver string) dialect {
	if driver == db.DriverPostgres {
		return dialectPostgres
	}
	return dialectSQLite
}
