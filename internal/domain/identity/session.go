package identity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a signed-in browser or API client. Its id is the jti of the
// token handed to the client, so deleting the row revokes the token.
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    int64     `gorm:"not null;index"`
	UserAgent string    `gorm:"type:varchar(255)"`
	ClientIP  string    `gorm:"type:varchar(45)"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// NewSession opens a session for the user that lasts ttl
func NewSession(userID int64, ttl time.Duration, userAgent, clientIP string) *Session {
	now := time.Now().UTC()
	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserAgent: userAgent,
		ClientIP:  clientIP,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired reports whether the session is past its expiry at t
func (s *Session) IsExpired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
