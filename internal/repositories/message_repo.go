package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/27100340/chat-app-backend-v1/internal/models"
)

// MessageRepository persists messages. Conversations are returned oldest
// first; per-sender feeds newest first.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Save(ctx context.Context, m *models.Message) error {
	if err := r.db.WithContext(ctx).Create(messageToRecord(m)).Error; err != nil {
		return storageErr("save message", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var rec messageRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrMessageNotFound
	}
	if err != nil {
		return nil, storageErr("get message", err)
	}
	return messageFromRecord(&rec), nil
}

func (r *MessageRepository) GetBySender(ctx context.Context, senderID string) ([]models.Message, error) {
	var recs []messageRecord
	err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("sent_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, storageErr("get messages by sender", err)
	}
	return messagesFromRecords(recs), nil
}

// GetConversation returns the two-party exchange between user1 and user2 in
// send order, oldest first.
func (r *MessageRepository) GetConversation(ctx context.Context, user1, user2 string) ([]models.Message, error) {
	var recs []messageRecord
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_user_id = ?) OR (sender_id = ? AND receiver_user_id = ?)",
			user1, user2, user2, user1).
		Order("sent_at asc").
		Find(&recs).Error
	if err != nil {
		return nil, storageErr("get conversation", err)
	}
	return messagesFromRecords(recs), nil
}

// GetForUser returns the user's feed: everything they sent or received,
// newest first.
func (r *MessageRepository) GetForUser(ctx context.Context, userID string) ([]models.Message, error) {
	var recs []messageRecord
	err := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_user_id = ?", userID, userID).
		Order("sent_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, storageErr("get messages for user", err)
	}
	return messagesFromRecords(recs), nil
}

func (r *MessageRepository) GetForGroup(ctx context.Context, groupID string) ([]models.Message, error) {
	var recs []messageRecord
	err := r.db.WithContext(ctx).
		Where("receiver_group_id = ?", groupID).
		Order("sent_at asc").
		Find(&recs).Error
	if err != nil {
		return nil, storageErr("get messages for group", err)
	}
	return messagesFromRecords(recs), nil
}

func (r *MessageRepository) Update(ctx context.Context, id string, m *models.Message) error {
	if err := r.db.WithContext(ctx).Save(messageToRecord(m)).Error; err != nil {
		return storageErr("update message", err)
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&messageRecord{}, "id = ?", id).Error; err != nil {
		return storageErr("delete message", err)
	}
	return nil
}

func messagesFromRecords(recs []messageRecord) []models.Message {
	msgs := make([]models.Message, 0, len(recs))
	for i := range recs {
		msgs = append(msgs, *messageFromRecord(&recs[i]))
	}
	return msgs
}
