// Package uow provides scoped acquisition of a storage session and the
// repositories bound to it.
package uow

import (
	"context"

	"gorm.io/gorm"

	"github.com/27100340/chat-app-backend-v1/internal/models"
	"github.com/27100340/chat-app-backend-v1/internal/repositories"
)

// UserRepository is the per-entity persistence surface for users.
type UserRepository interface {
	Save(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, u *models.User) error
	Delete(ctx context.Context, id string) error
}

// MessageRepository is the per-entity persistence surface for messages.
type MessageRepository interface {
	Save(ctx context.Context, m *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	GetBySender(ctx context.Context, senderID string) ([]models.Message, error)
	GetConversation(ctx context.Context, user1, user2 string) ([]models.Message, error)
	GetForUser(ctx context.Context, userID string) ([]models.Message, error)
	GetForGroup(ctx context.Context, groupID string) ([]models.Message, error)
	Update(ctx context.Context, id string, m *models.Message) error
	Delete(ctx context.Context, id string) error
}

// GroupRepository is the per-entity persistence surface for groups.
type GroupRepository interface {
	Save(ctx context.Context, g *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	GetByMember(ctx context.Context, memberID string) ([]models.Group, error)
	Update(ctx context.Context, id string, g *models.Group) error
	Delete(ctx context.Context, id string) error
}

// DirectMessageRepository is the per-entity persistence surface for dm chats.
type DirectMessageRepository interface {
	Save(ctx context.Context, dm *models.DirectMessage) error
	GetByID(ctx context.Context, id string) (*models.DirectMessage, error)
	GetByUser(ctx context.Context, userID string) ([]models.DirectMessage, error)
	GetByPair(ctx context.Context, userA, userB string) (*models.DirectMessage, error)
	Delete(ctx context.Context, id string) error
}

// UnitOfWork binds the four repositories to one storage session. There are
// no application-level transactions: each repository call is its own atomic
// unit, and callers must not assume cross-entity atomicity.
type UnitOfWork struct {
	Users    UserRepository
	Messages MessageRepository
	Groups   GroupRepository
	Chats    DirectMessageRepository
}

// New builds a unit of work over the given session. Exposed so tests can
// bind repository fakes.
func New(users UserRepository, messages MessageRepository, groups GroupRepository, chats DirectMessageRepository) *UnitOfWork {
	return &UnitOfWork{Users: users, Messages: messages, Groups: groups, Chats: chats}
}

// Runner acquires scoped units of work. Services depend on this interface
// rather than on the database handle.
type Runner interface {
	// Do runs fn with a unit of work bound to a pinned storage connection.
	// The connection is released on every exit path.
	Do(ctx context.Context, fn func(*UnitOfWork) error) error

	// TestConnection performs a lightweight liveness probe without
	// allocating repositories.
	TestConnection(ctx context.Context) bool
}

// Factory produces units of work backed by a gorm handle.
type Factory struct {
	db *gorm.DB
}

func NewFactory(db *gorm.DB) *Factory {
	return &Factory{db: db}
}

// Do pins a single pooled connection for the scope of fn and releases it
// when fn returns, whether fn succeeds or fails.
func (f *Factory) Do(ctx context.Context, fn func(*UnitOfWork) error) error {
	return f.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return fn(New(
			repositories.NewUserRepository(tx),
			repositories.NewMessageRepository(tx),
			repositories.NewGroupRepository(tx),
			repositories.NewDirectMessageRepository(tx),
		))
	})
}

// TestConnection pings the underlying database.
func (f *Factory) TestConnection(ctx context.Context) bool {
	sqlDB, err := f.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
