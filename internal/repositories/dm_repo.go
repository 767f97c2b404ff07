package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/27100340/chat-app-backend-v1/internal/models"
)

// DirectMessageRepository persists two-party chats. Pair lookups are
// unordered: (A, B) and (B, A) are the same chat.
type DirectMessageRepository struct {
	db *gorm.DB
}

func NewDirectMessageRepository(db *gorm.DB) *DirectMessageRepository {
	return &DirectMessageRepository{db: db}
}

func (r *DirectMessageRepository) Save(ctx context.Context, dm *models.DirectMessage) error {
	if err := r.db.WithContext(ctx).Create(dmToRecord(dm)).Error; err != nil {
		return storageErr("save dm chat", err)
	}
	return nil
}

func (r *DirectMessageRepository) GetByID(ctx context.Context, id string) (*models.DirectMessage, error) {
	var rec directMessageRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrChatNotFound
	}
	if err != nil {
		return nil, storageErr("get dm chat", err)
	}
	return dmFromRecord(&rec), nil
}

func (r *DirectMessageRepository) GetByUser(ctx context.Context, userID string) ([]models.DirectMessage, error) {
	var recs []directMessageRecord
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Find(&recs).Error
	if err != nil {
		return nil, storageErr("get dm chats by user", err)
	}
	chats := make([]models.DirectMessage, 0, len(recs))
	for i := range recs {
		chats = append(chats, *dmFromRecord(&recs[i]))
	}
	return chats, nil
}

func (r *DirectMessageRepository) GetByPair(ctx context.Context, userA, userB string) (*models.DirectMessage, error) {
	var rec directMessageRecord
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userA, userB, userB, userA).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrChatNotFound
	}
	if err != nil {
		return nil, storageErr("get dm chat by pair", err)
	}
	return dmFromRecord(&rec), nil
}

func (r *DirectMessageRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&directMessageRecord{}, "id = ?", id).Error; err != nil {
		return storageErr("delete dm chat", err)
	}
	return nil
}
