package models

import "time"

// Session is a login on one device. Its ID is the bearer token handed to the
// client; there is no separate token value.
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Platform  string    `json:"platform"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidAt reports whether the session is still valid at now. A session whose
// expiry equals now is already expired.
func (s *Session) ValidAt(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
