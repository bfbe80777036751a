// Package session keeps login sessions server-side so they can be revoked.
package session

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"strconv"       // Key formatting
	"time"          // Session lifetime

	"github.com/google/uuid"       // Random session identifiers
	"github.com/redis/go-redis/v9" // Redis client
)

// ErrNotFound is returned when a session does not exist or has expired
var ErrNotFound = errors.New("session not found")

// Session binds a random identifier to a user
type Session struct {
	ID        string    `json:"id"`         // Random identifier, also the JWT "sid" claim
	UserID    uint      `json:"user_id"`    // Owner of the session
	CreatedAt time.Time `json:"created_at"` // Login time
}

// Store persists sessions
type Store interface {
	Create(ctx context.Context, userID uint, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, userID uint) error
}

// RedisStore keeps sessions in Redis with a TTL
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps a connected Redis client
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func sessionKey(id string) string { return "session:" + id }

func userKey(userID uint) string { return "session:user:" + strconv.FormatUint(uint64(userID), 10) }

// Create stores a new session for userID that expires after ttl
func (s *RedisStore) Create(ctx context.Context, userID uint, ttl time.Duration) (*Session, error) {
	sess := &Session{ID: uuid.NewString(), UserID: userID, CreatedAt: time.Now().UTC()}
	b, err := json.Marshal(sess) // Marshal session to JSON
	if err != nil {
		return nil, err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(sess.ID), b, ttl) // The session itself
	pipe.SAdd(ctx, userKey(userID), sess.ID)   // Index of the user's sessions
	pipe.Expire(ctx, userKey(userID), ttl)     // Index never outlives the newest session
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Get returns the live session with the given id
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.rdb.Get(ctx, sessionKey(id)).Result() // Get value from Redis
	if err == redis.Nil {
		return nil, ErrNotFound // Key does not exist
	} else if err != nil {
		return nil, fmt.Errorf("load session: %w", err) // Other Redis error
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session; deleting a missing session is not an error
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, userKey(sess.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteUser removes every session of a user
func (s *RedisStore) DeleteUser(ctx context.Context, userID uint) error {
	ids, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))
	return s.rdb.Del(ctx, keys...).Err()
}
