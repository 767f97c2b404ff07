package services

import (
	"context"
	"fmt"
	"time"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	"github.com/27100340/chat-app-backend-v1/internal/uow"
)

type DirectMessageService struct {
	runner uow.Runner
	clock  func() time.Time
}

func NewDirectMessageService(runner uow.Runner) *DirectMessageService {
	return &DirectMessageService{
		runner: runner,
		clock:  time.Now,
	}
}

type CreateChatRequest struct {
	User1ID string `json:"user1_id" binding:"required"`
	User2ID string `json:"user2_id" binding:"required"`
}

// Create opens a direct message chat between two existing users. A second
// chat for the same pair is allowed; callers that want at-most-one chat
// per pair should look it up first.
func (s *DirectMessageService) Create(ctx context.Context, req *CreateChatRequest) (*models.DirectMessage, error) {
	if req.User1ID == req.User2ID {
		return nil, fmt.Errorf("%w: a chat needs two distinct users", models.ErrValidation)
	}

	var chat *models.DirectMessage
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		if _, err := u.Users.GetByID(ctx, req.User1ID); err != nil {
			return err
		}
		if _, err := u.Users.GetByID(ctx, req.User2ID); err != nil {
			return err
		}
		chat = models.NewDirectMessage(req.User1ID, req.User2ID, s.clock())
		return u.Chats.Save(ctx, chat)
	})
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *DirectMessageService) GetByID(ctx context.Context, chatID string) (*models.DirectMessage, error) {
	var chat *models.DirectMessage
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		chat, err = u.Chats.GetByID(ctx, chatID)
		return err
	})
	return chat, err
}

// GetForUser returns every chat the user participates in.
func (s *DirectMessageService) GetForUser(ctx context.Context, userID string) ([]models.DirectMessage, error) {
	var chats []models.DirectMessage
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		chats, err = u.Chats.GetByUser(ctx, userID)
		return err
	})
	return chats, err
}

// GetByPair returns the chat between two users, in either order.
func (s *DirectMessageService) GetByPair(ctx context.Context, userA, userB string) (*models.DirectMessage, error) {
	var chat *models.DirectMessage
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		chat, err = u.Chats.GetByPair(ctx, userA, userB)
		return err
	})
	return chat, err
}

func (s *DirectMessageService) Delete(ctx context.Context, chatID string) error {
	return s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		if _, err := u.Chats.GetByID(ctx, chatID); err != nil {
			return err
		}
		return u.Chats.Delete(ctx, chatID)
	})
}
