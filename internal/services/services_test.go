package services

import (
	"context"
	"time"

	"github.com/27100340/chat-app-backend-v1/internal/repositories"
	"github.com/27100340/chat-app-backend-v1/internal/uow"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// stubRunner hands every call the same unit of work, backed by in-memory
// repositories. Good enough for service tests, which never need a real
// pinned connection.
type stubRunner struct {
	u *uow.UnitOfWork
}

func (r stubRunner) Do(_ context.Context, fn func(*uow.UnitOfWork) error) error {
	return fn(r.u)
}

func (r stubRunner) TestConnection(context.Context) bool { return true }

func newFixture() (*uow.UnitOfWork, stubRunner) {
	u := uow.New(
		repositories.NewMemoryUserRepository(),
		repositories.NewMemoryMessageRepository(),
		repositories.NewMemoryGroupRepository(),
		repositories.NewMemoryDirectMessageRepository(),
	)
	return u, stubRunner{u: u}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
