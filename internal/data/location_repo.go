package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neduet/campus-api/internal/domain/model"
)

const (
	locationKeyPrefix     = "portal:location:"
	locationUpdateChannel = "portal:location:updates"

	// DefaultLocationTTL is how long a reported position stays in the live
	// set before aging out. Point devices report well inside this interval.
	DefaultLocationTTL = 2 * time.Minute
)

// LocationRepo stores live point positions in Redis. Each position is a
// TTL'd key so stale points disappear without a reaper, and every update is
// published for streaming consumers.
type LocationRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewLocationRepo creates a new LocationRepo with the default freshness TTL.
func NewLocationRepo(client redis.UniversalClient) *LocationRepo {
	return &LocationRepo{client: client, ttl: DefaultLocationTTL}
}

// NewLocationRepoWithTTL creates a new LocationRepo with a custom freshness TTL.
func NewLocationRepoWithTTL(client redis.UniversalClient, ttl time.Duration) *LocationRepo {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return &LocationRepo{client: client, ttl: ttl}
}

// Set stores a point's position and publishes the update.
func (r *LocationRepo) Set(ctx context.Context, loc model.PointLocation) error {
	if loc.UserID == "" {
		return errors.New("user id is required")
	}
	payload, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}
	if err := r.client.Set(ctx, locationKeyPrefix+loc.UserID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set location: %w", err)
	}
	// Publish is best-effort relative to the write: the position is already
	// durable for readers even if no subscriber sees this update.
	if err := r.client.Publish(ctx, locationUpdateChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish location: %w", err)
	}
	return nil
}

// Get returns one point's live position, or nil when the point has aged out.
func (r *LocationRepo) Get(ctx context.Context, userID string) (*model.PointLocation, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	raw, err := r.client.Get(ctx, locationKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get location: %w", err)
	}
	var loc model.PointLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("unmarshal location: %w", err)
	}
	return &loc, nil
}

// List returns every live point position.
func (r *LocationRepo) List(ctx context.Context) ([]model.PointLocation, error) {
	var out []model.PointLocation
	iter := r.client.Scan(ctx, 0, locationKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Key expired between SCAN and GET.
				continue
			}
			return nil, fmt.Errorf("redis get location: %w", err)
		}
		var loc model.PointLocation
		if err := json.Unmarshal(raw, &loc); err != nil {
			continue
		}
		out = append(out, loc)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan locations: %w", err)
	}
	return out, nil
}

// Subscribe streams position updates until ctx is cancelled. The returned
// channel is closed when the subscription ends.
func (r *LocationRepo) Subscribe(ctx context.Context) (<-chan model.PointLocation, error) {
	sub := r.client.Subscribe(ctx, locationUpdateChannel)
	// Force the subscription to establish so callers get a prompt error
	// when Redis is unreachable.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe locations: %w", err)
	}

	out := make(chan model.PointLocation)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var loc model.PointLocation
				if err := json.Unmarshal([]byte(msg.Payload), &loc); err != nil {
					continue
				}
				select {
				case out <- loc:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
