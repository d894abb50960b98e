package domain

import (
	"regexp"  // Email validation
	"strings" // Normalisation

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// emailPattern is the accepted shape of an email address
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// PasswordCost is the bcrypt work factor used for new hashes
var PasswordCost = bcrypt.DefaultCost

// ErrInvalidEmail is returned by NewUser for a malformed address
var ErrInvalidEmail = NewValidationError("email", "Invalid email format")

// User Model
type User struct {
	Model
	Email        string   `gorm:"size:128;uniqueIndex;not null" json:"email"`                             // Unique login identity
	FirstName    string   `gorm:"size:128" json:"first_name"`                                             // Given name
	LastName     string   `gorm:"size:128" json:"last_name"`                                              // Family name
	PasswordHash string   `gorm:"size:255;not null" json:"-"`                                             // bcrypt hash, never serialized
	IsAdmin      bool     `gorm:"not null;default:false" json:"is_admin"`                                 // Admin flag
	Active       bool     `gorm:"not null;default:true" json:"active"`                                    // Disabled users cannot authenticate
	Profile      *Profile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile,omitempty"` // Zero-or-one profile
}

// IsValidEmail reports whether email has an acceptable format
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NewUser validates the email and hashes the password for a new account
func NewUser(email, firstName, lastName, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	u := &User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Active:    true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
