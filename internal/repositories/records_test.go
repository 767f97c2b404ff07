package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/27100340/chat-app-backend-v1/internal/models"
)

func TestUserRecordRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	u := &models.User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		Status:       "around",
		JoinedAt:     now,
		UpdatedAt:    now.Add(time.Hour),
	}
	assert.Equal(t, u, userFromRecord(userToRecord(u)))
}

func TestMessageRecordRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &models.Message{
		ID:              "m1",
		SenderID:        "u1",
		Content:         "hello",
		ReceiverGroupID: "g1",
		SentAt:          now,
		UpdatedAt:       now,
	}
	assert.Equal(t, m, messageFromRecord(messageToRecord(m)))
}

func TestGroupRecordRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := &models.Group{
		ID:        "g1",
		Name:      "backend",
		AdminID:   "u1",
		Members:   []string{"u1", "u2"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	assert.Equal(t, g, groupFromRecord(groupToRecord(g)))
}

func TestGroupFromRecordNilMembers(t *testing.T) {
	g := groupFromRecord(&groupRecord{ID: "g1", AdminID: "u1"})
	assert.NotNil(t, g.Members, "members must never be nil in the domain")
	assert.Empty(t, g.Members)
}

func TestMemberContainment(t *testing.T) {
	assert.Equal(t, `["u1"]`, memberContainment("u1"))

	// Ids carrying JSON metacharacters must stay inside the string.
	assert.Equal(t, `["a\"b"]`, memberContainment(`a"b`))
	assert.Equal(t, `["a\\b"]`, memberContainment(`a\b`))
}

func TestDirectMessageRecordRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	dm := &models.DirectMessage{
		ID:        "dm1",
		User1ID:   "u1",
		User2ID:   "u2",
		CreatedAt: now,
		UpdatedAt: now,
	}
	assert.Equal(t, dm, dmFromRecord(dmToRecord(dm)))
}
