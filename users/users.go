package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// RoleType is the role carried in the access token.
type RoleType string

const (
	RoleAdmin RoleType = "ADMIN" // Can manage portfolio content
	RoleUser  RoleType = "USER"  // Registered visitor, no admin access
)

type User struct {
	ID           string     `json:"id,omitempty"`          // Unique identifier for the user
	Email        string     `json:"email,omitempty"`       // Login name
	PasswordHash string     `json:"-"`                     // Hashed version of the user's password - never serialize
	FirstName    string     `json:"first_name,omitempty"`  // First name of the user
	LastName     string     `json:"last_name,omitempty"`   // Last name of the user
	Roles        []RoleType `json:"roles,omitempty"`       // Granted roles
	DateJoined   time.Time  `json:"date_joined,omitempty"` // Date and time when the user registered
	LastLogin    time.Time  `json:"last_login,omitempty"`  // Last time the user logged in
	Blocked      bool       `json:"blocked,omitempty"`     // Blocked, has the user been blocked from logging in
}

// Username is how the user is shown to clients.
func (u *User) Username() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

func (u *User) HasRole(role RoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// RoleNames returns the roles as plain strings for token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r))
	}
	return names
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks password against the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
