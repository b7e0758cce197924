// Package cache publishes per-match action records to Redis for the
// historian consumer. Publishing is fire-and-forget; a dead Redis never
// blocks a move.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the shared Redis client. Nil when the historian is disabled.
var Rdb *redis.Client

// Connect initializes the client and verifies connectivity.
func Connect(ctx context.Context, addr string) error {
	c := redis.NewClient(&redis.Options{Addr: addr})
	if err := c.Ping(ctx).Err(); err != nil {
		return err
	}
	Rdb = c
	return nil
}

// MatchActionRecord is one accepted (or rejected) move in a match's
// ordered action history.
type MatchActionRecord struct {
	MatchID       uuid.UUID              `json:"matchId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   uuid.UUID              `json:"actorUserId"`
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"`
}

// PublishMatchAction appends a record to the match's history list.
func PublishMatchAction(ctx context.Context, rec MatchActionRecord) error {
	if Rdb == nil {
		return nil
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	key := fmt.Sprintf("relic:actions:%s", rec.MatchID)
	return Rdb.RPush(ctx, key, blob).Err()
}
