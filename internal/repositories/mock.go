package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/27100340/chat-app-backend-v1/internal/models"
)

// In-memory repository fakes used by service and dispatcher tests. They
// honor the same ordering and not-found contracts as the gorm-backed
// implementations. Setting Err forces every call to fail, for exercising
// the storage-error paths.

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]models.User
	Err   error
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func (r *MemoryUserRepository) Save(_ context.Context, u *models.User) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *MemoryUserRepository) GetAll(_ context.Context) ([]models.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, id string, u *models.User) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = *u
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type MemoryMessageRepository struct {
	mu       sync.Mutex
	messages map[string]models.Message
	Err      error
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{messages: make(map[string]models.Message)}
}

func (r *MemoryMessageRepository) Save(_ context.Context, m *models.Message) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ID] = *m
	return nil
}

func (r *MemoryMessageRepository) GetByID(_ context.Context, id string) (*models.Message, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, models.ErrMessageNotFound
	}
	return &m, nil
}

func (r *MemoryMessageRepository) GetBySender(_ context.Context, senderID string) ([]models.Message, error) {
	return r.filter(func(m *models.Message) bool { return m.SenderID == senderID }, false)
}

func (r *MemoryMessageRepository) GetConversation(_ context.Context, user1, user2 string) ([]models.Message, error) {
	return r.filter(func(m *models.Message) bool {
		return (m.SenderID == user1 && m.ReceiverUserID == user2) ||
			(m.SenderID == user2 && m.ReceiverUserID == user1)
	}, true)
}

func (r *MemoryMessageRepository) GetForUser(_ context.Context, userID string) ([]models.Message, error) {
	return r.filter(func(m *models.Message) bool {
		return m.SenderID == userID || m.ReceiverUserID == userID
	}, false)
}

func (r *MemoryMessageRepository) GetForGroup(_ context.Context, groupID string) ([]models.Message, error) {
	return r.filter(func(m *models.Message) bool { return m.ReceiverGroupID == groupID }, true)
}

func (r *MemoryMessageRepository) Update(_ context.Context, id string, m *models.Message) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[id] = *m
	return nil
}

func (r *MemoryMessageRepository) Delete(_ context.Context, id string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, id)
	return nil
}

func (r *MemoryMessageRepository) filter(keep func(*models.Message) bool, ascending bool) ([]models.Message, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var msgs []models.Message
	for _, m := range r.messages {
		if keep(&m) {
			msgs = append(msgs, m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if ascending {
			return msgs[i].SentAt.Before(msgs[j].SentAt)
		}
		return msgs[j].SentAt.Before(msgs[i].SentAt)
	})
	return msgs, nil
}

type MemoryGroupRepository struct {
	mu     sync.Mutex
	groups map[string]models.Group
	Err    error
}

func NewMemoryGroupRepository() *MemoryGroupRepository {
	return &MemoryGroupRepository{groups: make(map[string]models.Group)}
}

func (r *MemoryGroupRepository) Save(_ context.Context, g *models.Group) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[g.ID] = *g
	return nil
}

func (r *MemoryGroupRepository) GetByID(_ context.Context, id string) (*models.Group, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, models.ErrGroupNotFound
	}
	cp := g
	cp.Members = append([]string(nil), g.Members...)
	return &cp, nil
}

func (r *MemoryGroupRepository) GetByMember(_ context.Context, memberID string) ([]models.Group, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var groups []models.Group
	for _, g := range r.groups {
		if g.HasMember(memberID) {
			cp := g
			cp.Members = append([]string(nil), g.Members...)
			groups = append(groups, cp)
		}
	}
	return groups, nil
}

func (r *MemoryGroupRepository) Update(_ context.Context, id string, g *models.Group) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[id] = *g
	return nil
}

func (r *MemoryGroupRepository) Delete(_ context.Context, id string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, id)
	return nil
}

type MemoryDirectMessageRepository struct {
	mu    sync.Mutex
	chats map[string]models.DirectMessage
	Err   error
}

func NewMemoryDirectMessageRepository() *MemoryDirectMessageRepository {
	return &MemoryDirectMessageRepository{chats: make(map[string]models.DirectMessage)}
}

func (r *MemoryDirectMessageRepository) Save(_ context.Context, dm *models.DirectMessage) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[dm.ID] = *dm
	return nil
}

func (r *MemoryDirectMessageRepository) GetByID(_ context.Context, id string) (*models.DirectMessage, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	dm, ok := r.chats[id]
	if !ok {
		return nil, models.ErrChatNotFound
	}
	return &dm, nil
}

func (r *MemoryDirectMessageRepository) GetByUser(_ context.Context, userID string) ([]models.DirectMessage, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var chats []models.DirectMessage
	for _, dm := range r.chats {
		if dm.Involves(userID) {
			chats = append(chats, dm)
		}
	}
	return chats, nil
}

func (r *MemoryDirectMessageRepository) GetByPair(_ context.Context, userA, userB string) (*models.DirectMessage, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dm := range r.chats {
		if dm.SamePair(userA, userB) {
			dm := dm
			return &dm, nil
		}
	}
	return nil, models.ErrChatNotFound
}

func (r *MemoryDirectMessageRepository) Delete(_ context.Context, id string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chats, id)
	return nil
}
