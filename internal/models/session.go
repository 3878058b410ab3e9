package models

import "time"

// SessionData is what a session carries for display and access checks.
type SessionData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is a server-side session record.
type Session struct {
	ID        string
	Data      SessionData
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
