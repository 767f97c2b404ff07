package models

import (
	"time"

	"github.com/google/uuid"
)

// Time windows for message mutation, measured from SentAt. The delete window
// is deliberately longer than the edit window.
const (
	MessageEditWindow   = 60 * time.Second
	MessageDeleteWindow = 120 * time.Second
)

// Message is a single chat message. Exactly one of ReceiverUserID and
// ReceiverGroupID is set in well-formed input. The wire spelling of the
// receiver fields is kept as the frontend expects it.
type Message struct {
	ID              string    `json:"message_id"`
	SenderID        string    `json:"sender_id"`
	Content         string    `json:"content"`
	ReceiverUserID  string    `json:"reciever_user_id,omitempty"`
	ReceiverGroupID string    `json:"reciever_group_id,omitempty"`
	SentAt          time.Time `json:"sent_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewMessage creates a message stamped with the given send time.
func NewMessage(senderID, content, receiverUserID, receiverGroupID string, now time.Time) *Message {
	return &Message{
		ID:              uuid.NewString(),
		SenderID:        senderID,
		Content:         content,
		ReceiverUserID:  receiverUserID,
		ReceiverGroupID: receiverGroupID,
		SentAt:          now,
		UpdatedAt:       now,
	}
}

// Edit replaces the content if the edit window has not passed. Empty content
// is rejected regardless of the window.
func (m *Message) Edit(newContent string, now time.Time) error {
	if newContent == "" {
		return ErrEmptyContent
	}
	if now.Sub(m.SentAt) > MessageEditWindow {
		return ErrEditWindowExceeded
	}
	m.Content = newContent
	m.UpdatedAt = now
	return nil
}

// CanDelete reports whether the message may still be deleted. The removal
// itself is the storage layer's job.
func (m *Message) CanDelete(now time.Time) error {
	if now.Sub(m.SentAt) > MessageDeleteWindow {
		return ErrDeleteWindowExceeded
	}
	return nil
}
