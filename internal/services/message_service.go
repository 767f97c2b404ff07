package services

import (
	"context"
	"fmt"
	"time"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	"github.com/27100340/chat-app-backend-v1/internal/uow"
)

// Archiver receives created messages for out-of-band archival. A nil
// archiver disables archival without changing message semantics.
type Archiver interface {
	MessageCreated(m *models.Message) error
}

type MessageService struct {
	runner  uow.Runner
	archive Archiver
	clock   func() time.Time
}

func NewMessageService(runner uow.Runner, archive Archiver) *MessageService {
	return &MessageService{
		runner:  runner,
		archive: archive,
		clock:   time.Now,
	}
}

type CreateMessageRequest struct {
	SenderID        string `json:"sender_id" binding:"required"`
	Content         string `json:"content" binding:"required"`
	ReceiverUserID  string `json:"reciever_user_id"`
	ReceiverGroupID string `json:"reciever_group_id"`
}

// Create validates the sender and receiver and persists the message.
// Sender and receiver are checked in separate reads, so a concurrent
// delete between the check and the save can leave a dangling reference.
// That window is accepted.
func (s *MessageService) Create(ctx context.Context, req *CreateMessageRequest) (*models.Message, error) {
	if req.Content == "" {
		return nil, models.ErrEmptyContent
	}
	if (req.ReceiverUserID == "") == (req.ReceiverGroupID == "") {
		return nil, fmt.Errorf("%w: exactly one of reciever_user_id and reciever_group_id must be set", models.ErrValidation)
	}

	var msg *models.Message
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		if _, err := u.Users.GetByID(ctx, req.SenderID); err != nil {
			return err
		}
		if req.ReceiverUserID != "" {
			if _, err := u.Users.GetByID(ctx, req.ReceiverUserID); err != nil {
				return err
			}
		} else {
			if _, err := u.Groups.GetByID(ctx, req.ReceiverGroupID); err != nil {
				return err
			}
		}

		msg = models.NewMessage(req.SenderID, req.Content, req.ReceiverUserID, req.ReceiverGroupID, s.clock())
		return u.Messages.Save(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		// Archival is best effort and must not fail the send.
		_ = s.archive.MessageCreated(msg)
	}
	return msg, nil
}

// Update edits a message's content within the edit window.
func (s *MessageService) Update(ctx context.Context, messageID, newContent string) (*models.Message, error) {
	var msg *models.Message
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		msg, err = u.Messages.GetByID(ctx, messageID)
		if err != nil {
			return err
		}
		if err := msg.Edit(newContent, s.clock()); err != nil {
			return err
		}
		return u.Messages.Update(ctx, messageID, msg)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Delete removes a message within the delete window.
func (s *MessageService) Delete(ctx context.Context, messageID string) error {
	return s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		msg, err := u.Messages.GetByID(ctx, messageID)
		if err != nil {
			return err
		}
		if err := msg.CanDelete(s.clock()); err != nil {
			return err
		}
		return u.Messages.Delete(ctx, messageID)
	})
}

func (s *MessageService) GetByID(ctx context.Context, messageID string) (*models.Message, error) {
	var msg *models.Message
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		msg, err = u.Messages.GetByID(ctx, messageID)
		return err
	})
	return msg, err
}

func (s *MessageService) GetBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		msgs, err = u.Messages.GetBySender(ctx, senderID)
		return err
	})
	return msgs, err
}

// GetConversation returns the direct messages between two users in send
// order, oldest first.
func (s *MessageService) GetConversation(ctx context.Context, user1, user2 string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		msgs, err = u.Messages.GetConversation(ctx, user1, user2)
		return err
	})
	return msgs, err
}

// GetFeed returns all messages sent or received by the user, newest first.
func (s *MessageService) GetFeed(ctx context.Context, userID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		msgs, err = u.Messages.GetForUser(ctx, userID)
		return err
	})
	return msgs, err
}

func (s *MessageService) GetForGroup(ctx context.Context, groupID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		msgs, err = u.Messages.GetForGroup(ctx, groupID)
		return err
	})
	return msgs, err
}
