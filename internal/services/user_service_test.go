package services

import (
	"context"
	"errors"
	"testing"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	"github.com/27100340/chat-app-backend-v1/middleware/jwt"
)

func newUserService() (*UserService, stubRunner) {
	_, runner := newFixture()
	svc := NewUserService(runner, jwt.NewTokenManager("test-secret", 24), nil)
	svc.clock = fixedClock(t0)
	return svc, runner
}

func TestUserService_Create(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected a generated user id")
	}
	if user.Status != models.DefaultStatus {
		t.Errorf("expected default status, got %q", user.Status)
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plaintext")
	}
	if !user.JoinedAt.Equal(t0) {
		t.Errorf("expected JoinedAt %v, got %v", t0, user.JoinedAt)
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"missing username", CreateUserRequest{Email: "a@b.com", Password: "password123"}},
		{"bad email", CreateUserRequest{Username: "alice", Email: "not-an-email", Password: "password123"}},
		{"short password", CreateUserRequest{Username: "alice", Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, &tt.req); !errors.Is(err, models.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	req := CreateUserRequest{Username: "alice", Email: "alice@example.com", Password: "password123"}
	if _, err := svc.Create(ctx, &req); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, &req); !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate username, got %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.UserID != user.ID {
		t.Errorf("expected user id %s, got %s", user.ID, resp.UserID)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}

	if _, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "wrong-password"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Username: "nobody", Password: "password123"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserService_Update_Partial(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	status := "out for lunch"
	updated, err := svc.Update(ctx, user.ID, nil, &status, nil)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != status {
		t.Errorf("expected status %q, got %q", status, updated.Status)
	}
	if updated.Username != "alice" {
		t.Errorf("username should be untouched, got %q", updated.Username)
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("email should be untouched, got %q", updated.Email)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc, _ := newUserService()

	status := "hello"
	if _, err := svc.Update(context.Background(), "missing", nil, &status, nil); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong-old", "newpassword1"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for wrong old password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "password123", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "newpassword1"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "password123"}); err != ErrInvalidCredentials {
		t.Errorf("old password should be rejected, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, user.ID); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, user.ID); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

type stubPresence struct {
	online map[string]struct{}
	err    error
}

func (p stubPresence) OnlineUsers(context.Context) (map[string]struct{}, error) {
	return p.online, p.err
}

func TestUserService_GetAllStatuses(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	alice, err := svc.Create(ctx, &CreateUserRequest{Username: "alice", Email: "a@b.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, &CreateUserRequest{Username: "bob", Email: "b@b.com", Password: "password123"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	svc.presence = stubPresence{online: map[string]struct{}{alice.ID: {}}}

	statuses, err := svc.GetAllStatuses(ctx)
	if err != nil {
		t.Fatalf("GetAllStatuses failed: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	// GetAll orders by username, so alice comes first.
	if !statuses[0].Online {
		t.Error("alice should be online")
	}
	if statuses[1].Online {
		t.Error("bob should be offline")
	}
}

func TestUserService_GetAllStatuses_PresenceDown(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateUserRequest{Username: "alice", Email: "a@b.com", Password: "password123"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	svc.presence = stubPresence{err: errors.New("connection refused")}

	statuses, err := svc.GetAllStatuses(ctx)
	if err != nil {
		t.Fatalf("GetAllStatuses failed: %v", err)
	}
	if statuses[0].Online {
		t.Error("users should read offline when presence is unreachable")
	}
}
