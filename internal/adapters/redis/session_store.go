package redis

// Package redis provides Redis-based adapters for the campus portal.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
)

// SessionStore is a Redis-backed session store. Every Get re-reads Redis;
// there is no in-process caching layer, so read-your-writes comes from the
// store itself. TTL is derived from the session's ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a session store with the default key prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: "portal:session:"}
}

// NewSessionStoreWithPrefix creates a session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

// Save persists the session under its token. The token and role travel in
// one JSON value, so a reader can never observe one without the other.
// Partial sessions are refused outright.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if !sess.Valid() {
		return errors.New("refusing to persist partial session: token and role are both required")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

// Get loads a session by token. Missing, expired, malformed, or partially
// populated records all behave like absence: the caller sees ErrNotFound,
// never a decode failure.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	// Unknown fields are ignored on decode so old servers can read records
	// written by newer ones.
	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		// Corrupted entry: drop it and report absence rather than crashing
		// every navigation that touches it.
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup malformed session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	if !sess.Valid() {
		return domainauth.Session{}, ErrNotFound
	}

	// Redis TTL should have evicted expired records already; double-check.
	if sess.Expired(time.Now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes a session. Deleting an absent session is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

// ErrNotFound is returned when a session is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
