// Package presence tracks which users hold a live websocket connection,
// backed by redis keys so every node sees the same view.
package presence

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// OnlineTTL bounds how long a crashed node can leave a user marked
// online. Live connections refresh the key on every pong.
const OnlineTTL = 5 * time.Minute

type Tracker struct {
	client *redis.Client
}

func NewTracker(client *redis.Client) *Tracker {
	return &Tracker{client: client}
}

func onlineKey(userID string) string {
	return fmt.Sprintf("user:%s:online", userID)
}

func userIDFromKey(key string) string {
	trimmed := strings.TrimPrefix(key, "user:")
	return strings.TrimSuffix(trimmed, ":online")
}

func (t *Tracker) SetOnline(ctx context.Context, userID string) error {
	if err := t.client.Set(ctx, onlineKey(userID), "1", OnlineTTL).Err(); err != nil {
		return fmt.Errorf("failed to set user %s online: %w", userID, err)
	}
	return nil
}

func (t *Tracker) SetOffline(ctx context.Context, userID string) error {
	if err := t.client.Del(ctx, onlineKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to set user %s offline: %w", userID, err)
	}
	return nil
}

func (t *Tracker) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := t.client.Exists(ctx, onlineKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check user %s presence: %w", userID, err)
	}
	return n > 0, nil
}

// OnlineUsers returns the ids of every user currently marked online.
func (t *Tracker) OnlineUsers(ctx context.Context) (map[string]struct{}, error) {
	online := make(map[string]struct{})

	iter := t.client.Scan(ctx, 0, "user:*:online", 100).Iterator()
	for iter.Next(ctx) {
		online[userIDFromKey(iter.Val())] = struct{}{}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan presence keys: %w", err)
	}
	return online, nil
}
