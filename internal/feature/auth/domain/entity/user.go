// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and profile state managed by the auth flows.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users and never changes after creation.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the hashed password for the user.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Confirmed reports whether the user has confirmed ownership of Email.
	// Login is blocked until it becomes true.
	Confirmed bool `gorm:"not null;default:false"`

	// AvatarURL points at the avatar hosted by the image service, if any.
	AvatarURL *string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity returns the non-secret projection of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:        u.ID,
		Email:     u.Email,
		Confirmed: u.Confirmed,
		AvatarURL: u.AvatarURL,
	}
}

// Identity is the resolved caller of an authenticated request.
// It deliberately omits the password digest so it can be cached and returned to clients.
type Identity struct {
	ID        uint
	Email     string
	Confirmed bool
	AvatarURL *string
}
