package model

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Name: u.Name, Email: u.Email}
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const MinPasswordLength = 6

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

func (r RegisterRequest) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(r.Name) == "" {
		v.Add("name", "Name is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil || !strings.Contains(r.Email, "@") {
		v.Add("email", "Please include a valid email")
	}
	if len(r.Password) < MinPasswordLength {
		v.Add("password", "Please enter a password with 6 or more characters")
	}
	return v.Err()
}

type LoginRequest struct {
	Email    string
	Password string
}

func (r LoginRequest) Validate() error {
	v := &ValidationError{}
	if !strings.Contains(r.Email, "@") {
		v.Add("email", "Please include a valid email")
	}
	if r.Password == "" {
		v.Add("password", "Password is required")
	}
	return v.Err()
}
