package models

import "time"

// Session is a server-side login record. A session token is only honored while
// its row exists, is not revoked and has not expired.
type Session struct {
	ID        string     `json:"id"`
	UserID    int        `json:"user_id"`
	UserAgent string     `json:"user_agent"`
	IP        string     `json:"ip"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
