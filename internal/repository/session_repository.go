package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutor-service/internal/workflow"

	redis_v9 "github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStateRepository keeps the per-user learning state in Redis so a
// session survives service restarts until its TTL expires.
type SessionStateRepository struct {
	client *redis_v9.Client
	ttl    time.Duration
}

func NewSessionStateRepository(client *redis_v9.Client, ttl time.Duration) *SessionStateRepository {
	return &SessionStateRepository{client: client, ttl: ttl}
}

func sessionKey(userID string) string {
	return "tutor:session:" + userID
}

func (r *SessionStateRepository) Save(ctx context.Context, state *workflow.SessionState) error {
	val, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error saving session state to cache: %s", err)
	}
	if err := r.client.Set(ctx, sessionKey(state.UserID), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("error saving session state to cache: %s", err)
	}
	return nil
}

func (r *SessionStateRepository) Load(ctx context.Context, userID string) (*workflow.SessionState, error) {
	raw, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if err == redis_v9.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error get session state in cache: %s", err)
	}
	var state workflow.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("error decoding session state: %s", err)
	}
	return &state, nil
}

func (r *SessionStateRepository) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, sessionKey(userID)).Err()
}
