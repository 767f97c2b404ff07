package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/27100340/chat-app-backend-v1/internal/models"
)

// Persisted representations. Domain values are converted to and from these
// records at the repository boundary by pure functions; domain code never
// sees gorm tags.

type userRecord struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)"`
	Username     string    `gorm:"uniqueIndex;not null;type:varchar(255)"`
	Email        string    `gorm:"index;type:varchar(255)"`
	PasswordHash string    `gorm:"not null;type:varchar(255)"`
	Status       string    `gorm:"type:varchar(255)"`
	JoinedAt     time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

type messageRecord struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)"`
	SenderID        string    `gorm:"index;not null;type:varchar(64)"`
	Content         string    `gorm:"type:text;not null"`
	ReceiverUserID  string    `gorm:"index;type:varchar(64)"`
	ReceiverGroupID string    `gorm:"index;type:varchar(64)"`
	SentAt          time.Time `gorm:"index;not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (messageRecord) TableName() string { return "messages" }

type groupRecord struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)"`
	Name        string    `gorm:"not null;type:varchar(255)"`
	Description string    `gorm:"type:text"`
	AdminID     string    `gorm:"index;not null;type:varchar(64)"`
	Members     []string  `gorm:"serializer:json;type:jsonb"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (groupRecord) TableName() string { return "groups" }

type directMessageRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	User1ID   string    `gorm:"index;not null;type:varchar(64)"`
	User2ID   string    `gorm:"index;not null;type:varchar(64)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (directMessageRecord) TableName() string { return "direct_messages" }

// AutoMigrate creates or updates the backing tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRecord{},
		&messageRecord{},
		&groupRecord{},
		&directMessageRecord{},
	)
}

func userToRecord(u *models.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Status:       u.Status,
		JoinedAt:     u.JoinedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userFromRecord(r *userRecord) *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Status:       r.Status,
		JoinedAt:     r.JoinedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func messageToRecord(m *models.Message) *messageRecord {
	return &messageRecord{
		ID:              m.ID,
		SenderID:        m.SenderID,
		Content:         m.Content,
		ReceiverUserID:  m.ReceiverUserID,
		ReceiverGroupID: m.ReceiverGroupID,
		SentAt:          m.SentAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func messageFromRecord(r *messageRecord) *models.Message {
	return &models.Message{
		ID:              r.ID,
		SenderID:        r.SenderID,
		Content:         r.Content,
		ReceiverUserID:  r.ReceiverUserID,
		ReceiverGroupID: r.ReceiverGroupID,
		SentAt:          r.SentAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func groupToRecord(g *models.Group) *groupRecord {
	return &groupRecord{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		AdminID:     g.AdminID,
		Members:     g.Members,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func groupFromRecord(r *groupRecord) *models.Group {
	members := r.Members
	if members == nil {
		members = []string{}
	}
	return &models.Group{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		AdminID:     r.AdminID,
		Members:     members,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func dmToRecord(dm *models.DirectMessage) *directMessageRecord {
	return &directMessageRecord{
		ID:        dm.ID,
		User1ID:   dm.User1ID,
		User2ID:   dm.User2ID,
		CreatedAt: dm.CreatedAt,
		UpdatedAt: dm.UpdatedAt,
	}
}

func dmFromRecord(r *directMessageRecord) *models.DirectMessage {
	return &models.DirectMessage{
		ID:        r.ID,
		User1ID:   r.User1ID,
		User2ID:   r.User2ID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
