// Package model contains the domain types shared across ports and adapters.
package model

import "time"

// SessionKind distinguishes a regular user session from an admin session.
// The backend issues separate tokens for each; they are not interchangeable.
type SessionKind string

const (
	SessionKindUser  SessionKind = "user"
	SessionKindAdmin SessionKind = "admin"
)

// Session is the bearer token plus derived identity used to authorize
// requests against the vault backend. It is created on login and destroyed
// on logout or on the first 401 the backend returns; there is no refresh
// flow, expiry is a hard logout.
type Session struct {
	Token     string
	Username  string
	Kind      SessionKind
	ExpiresAt time.Time
}

// IsAdmin reports whether the session carries an admin token.
func (s Session) IsAdmin() bool {
	return s.Kind == SessionKindAdmin
}

// Valid reports whether the session holds a token. Expiry is decided by the
// backend (a 401 response), not locally; ExpiresAt is informational.
func (s Session) Valid() bool {
	return s.Token != ""
}
