// Package payment tracks ephemeral payment intents and renders UPI payment
// details. A token lives only in the shared cache: the provider callback that
// marks it paid may land on a different instance than the one that issued it.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrExpired covers both a token past its TTL and one that was never issued;
// the two are indistinguishable once the cache entry is gone.
var ErrExpired = errors.New("payment token expired")

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Payload is what a payment token maps to.
type Payload struct {
	Status        string          `json:"status"`
	CartSnapshot  json.RawMessage `json:"cart_snapshot,omitempty"`
	Amount        string          `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

type Store interface {
	Issue(ctx context.Context, p Payload) (string, error)
	MarkPaid(ctx context.Context, token string) error
	Status(ctx context.Context, token string) (string, error)
}

// RedisStore keeps payment tokens in a shared Redis with a fixed TTL. There
// is no delete path; expiry is the only garbage collection.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(token string) string { return "pay:" + token }

func (s *RedisStore) Issue(ctx context.Context, p Payload) (string, error) {
	token := uuid.NewString()
	p.Status = StatusPending
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, key(token), raw, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// MarkPaid flips the token to paid and refreshes its TTL so the polling
// client has time to observe the change.
func (s *RedisStore) MarkPaid(ctx context.Context, token string) error {
	raw, err := s.rdb.Get(ctx, key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrExpired
	}
	if err != nil {
		return err
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	p.Status = StatusPaid
	out, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(token), out, s.ttl).Err()
}

// Status is a pure lookup; it never mutates the entry or its TTL.
func (s *RedisStore) Status(ctx context.Context, token string) (string, error) {
	raw, err := s.rdb.Get(ctx, key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", ErrExpired
	}
	if err != nil {
		return "", err
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", err
	}
	if p.Status == "" {
		return StatusPending, nil
	}
	return p.Status, nil
}
