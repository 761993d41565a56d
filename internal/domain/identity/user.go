package identity

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/community/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt cost for stored password hashes
var passwordCost = bcrypt.DefaultCost

// User is an account that can sign in and manage records
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName  string    `gorm:"type:varchar(100);not null"`
	PasswordHash string    `gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with a hashed password
func NewUser(email, displayName, password string) (*User, error) {
	email = NormalizeEmail(email)
	displayName = strings.TrimSpace(displayName)

	v := &shared.ValidationError{}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		v.Add("email", "must be a valid email address")
	}
	if displayName == "" {
		displayName = email
	} else if utf8.RuneCountInString(displayName) > 100 {
		v.Add("displayName", "must be at most 100 characters")
	}
	if msg := checkPassword(password); msg != "" {
		v.Add("password", msg)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return nil, err
	}

	return &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(password string) string {
	switch {
	case len(password) < 8:
		return "must be at least 8 characters"
	case len(password) > 72:
		// bcrypt ignores bytes past 72
		return "must be at most 72 characters"
	case !strings.ContainsAny(password, "0123456789"):
		return "must contain at least one number"
	}
	return ""
}
