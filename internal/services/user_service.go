package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	"github.com/27100340/chat-app-backend-v1/internal/uow"
	"github.com/27100340/chat-app-backend-v1/middleware/jwt"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so that login failures do not leak which part was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// PresenceReader exposes the set of currently connected users.
type PresenceReader interface {
	OnlineUsers(ctx context.Context) (map[string]struct{}, error)
}

// UserStatus is a user's profile status merged with live connection state.
type UserStatus struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Status   string `json:"status"`
	Online   bool   `json:"online"`
}

type UserService struct {
	runner   uow.Runner
	tokens   *jwt.TokenManager
	presence PresenceReader
	clock    func() time.Time
}

func NewUserService(runner uow.Runner, tokens *jwt.TokenManager, presence PresenceReader) *UserService {
	return &UserService{
		runner:   runner,
		tokens:   tokens,
		presence: presence,
		clock:    time.Now,
	}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if req.Username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		_, err := u.Users.GetByUsername(ctx, req.Username)
		if err == nil {
			return fmt.Errorf("%w: username already taken", models.ErrValidation)
		}
		if !errors.Is(err, models.ErrUserNotFound) {
			return err
		}

		user = models.NewUser(req.Username, req.Email, string(hash), s.clock())
		return u.Users.Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var user *models.User
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		user, err = u.Users.GetByUsername(ctx, req.Username)
		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		UserID:   user.ID,
		Username: user.Username,
		Token:    token,
	}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user *models.User
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		user, err = u.Users.GetByID(ctx, id)
		return err
	})
	return user, err
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user *models.User
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		user, err = u.Users.GetByUsername(ctx, username)
		return err
	})
	return user, err
}

func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		users, err = u.Users.GetAll(ctx)
		return err
	})
	return users, err
}

// Update applies a partial profile update. Nil fields are left untouched.
func (s *UserService) Update(ctx context.Context, id string, username, status, email *string) (*models.User, error) {
	var user *models.User
	err := s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		var err error
		user, err = u.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		user.UpdateDetails(username, status, email, s.clock())
		return u.Users.Update(ctx, id, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateStatus(ctx context.Context, id, status string) (*models.User, error) {
	return s.Update(ctx, id, nil, &status, nil)
}

func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", models.ErrValidation)
	}
	return s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		user, err := u.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
			return ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.ChangePassword(string(hash), s.clock())
		return u.Users.Update(ctx, id, user)
	})
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.runner.Do(ctx, func(u *uow.UnitOfWork) error {
		if _, err := u.Users.GetByID(ctx, id); err != nil {
			return err
		}
		return u.Users.Delete(ctx, id)
	})
}

// GetAllStatuses merges stored profile statuses with the live online set.
// Presence is best effort: if the presence store is unreachable every user
// is reported offline rather than failing the whole call.
func (s *UserService) GetAllStatuses(ctx context.Context) ([]UserStatus, error) {
	users, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	online := map[string]struct{}{}
	if s.presence != nil {
		if set, err := s.presence.OnlineUsers(ctx); err == nil {
			online = set
		}
	}

	statuses := make([]UserStatus, 0, len(users))
	for _, u := range users {
		_, isOnline := online[u.ID]
		statuses = append(statuses, UserStatus{
			UserID:   u.ID,
			Username: u.Username,
			Status:   u.Status,
			Online:   isOnline,
		})
	}
	return statuses, nil
}
