package models

import (
	"time"

	"github.com/google/uuid"
)

// DirectMessage is a two-party chat. The pair is unordered for lookup: a
// chat between A and B is the same chat as one between B and A. Nothing here
// prevents a second chat for the same pair; callers that care must check
// with the pair lookup first.
type DirectMessage struct {
	ID        string    `json:"chat_id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDirectMessage creates a chat between two users.
func NewDirectMessage(user1ID, user2ID string, now time.Time) *DirectMessage {
	return &DirectMessage{
		ID:        uuid.NewString(),
		User1ID:   user1ID,
		User2ID:   user2ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Involves reports whether the user is one of the two participants.
func (dm *DirectMessage) Involves(userID string) bool {
	return dm.User1ID == userID || dm.User2ID == userID
}

// SamePair reports whether the chat connects the given unordered pair.
func (dm *DirectMessage) SamePair(userA, userB string) bool {
	return (dm.User1ID == userA && dm.User2ID == userB) ||
		(dm.User1ID == userB && dm.User2ID == userA)
}
