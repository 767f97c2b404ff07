package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStatus is the status text assigned to freshly created accounts.
const DefaultStatus = "Hi, I just joined the chat!"

// User is a chat account. It is a transient, request-scoped value
// reconstructed from and flattened back to its persisted form.
type User struct {
	ID           string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"`
	JoinedAt     time.Time `json:"joined_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a user with a fresh identity and the default status.
// The password must already be hashed by the auth layer; the domain model
// never hashes.
func NewUser(username, email, passwordHash string, now time.Time) *User {
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Status:       DefaultStatus,
		JoinedAt:     now,
		UpdatedAt:    now,
	}
}

// UpdateDetails applies only the provided fields and stamps the update time.
func (u *User) UpdateDetails(username, status, email *string, now time.Time) {
	if username != nil {
		u.Username = *username
	}
	if status != nil {
		u.Status = *status
	}
	if email != nil {
		u.Email = *email
	}
	u.UpdatedAt = now
}

// ChangePassword replaces the stored hash and stamps the update time.
func (u *User) ChangePassword(newHash string, now time.Time) {
	u.PasswordHash = newHash
	u.UpdatedAt = now
}

// CheckCredential compares a pre-hashed candidate against the stored hash.
func (u *User) CheckCredential(candidateHash string) bool {
	return u.PasswordHash == candidateHash
}
