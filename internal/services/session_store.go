package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound means the refresh token is unknown, expired or already
// revoked.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps refresh-token hashes so logout can revoke them before
// they expire.
type SessionStore interface {
	StoreRefresh(ctx context.Context, userID uint, tokenHash string, expires time.Time) error
	Revoke(ctx context.Context, tokenHash string) error
	Lookup(ctx context.Context, tokenHash string) (uint, error)
}

type redisSessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func sessionKey(tokenHash string) string {
	return "session:refresh:" + tokenHash
}

func (s *redisSessionStore) StoreRefresh(ctx context.Context, userID uint, tokenHash string, expires time.Time) error {
	ttl := time.Until(expires)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}
	return s.client.Set(ctx, sessionKey(tokenHash), strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *redisSessionStore) Revoke(ctx context.Context, tokenHash string) error {
	deleted, err := s.client.Del(ctx, sessionKey(tokenHash)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *redisSessionStore) Lookup(ctx context.Context, tokenHash string) (uint, error) {
	val, err := s.client.Get(ctx, sessionKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, ErrSessionNotFound
	}
	return uint(id), nil
}
