package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(rdb, 15*time.Minute), mr
}

func TestIssueMarkPaidStatus(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Payload{Amount: "250.00", PaymentMethod: "upi"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	status, err := store.Status(ctx, token)
	if err != nil || status != StatusPending {
		t.Fatalf("status=%q err=%v, want pending", status, err)
	}

	if err := store.MarkPaid(ctx, token); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	status, err = store.Status(ctx, token)
	if err != nil || status != StatusPaid {
		t.Fatalf("status=%q err=%v, want paid", status, err)
	}
}

func TestUnissuedTokenIsExpired(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Status(ctx, "garbage-token"); !errors.Is(err, ErrExpired) {
		t.Fatalf("err=%v want ErrExpired", err)
	}
	if err := store.MarkPaid(ctx, "garbage-token"); !errors.Is(err, ErrExpired) {
		t.Fatalf("err=%v want ErrExpired", err)
	}
}

func TestTokenExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Payload{Amount: "99.00"})
	if err != nil {
		t.Fatal(err)
	}
	mr.FastForward(16 * time.Minute)

	if _, err := store.Status(ctx, token); !errors.Is(err, ErrExpired) {
		t.Fatalf("err=%v want ErrExpired after TTL", err)
	}
	if err := store.MarkPaid(ctx, token); !errors.Is(err, ErrExpired) {
		t.Fatalf("mark paid after expiry: err=%v want ErrExpired", err)
	}
}

func TestMarkPaidRefreshesTTL(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Payload{Amount: "10.00"})
	if err != nil {
		t.Fatal(err)
	}
	mr.FastForward(14 * time.Minute)
	if err := store.MarkPaid(ctx, token); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	// The paid marker survives past the original deadline.
	mr.FastForward(10 * time.Minute)
	status, err := store.Status(ctx, token)
	if err != nil || status != StatusPaid {
		t.Fatalf("status=%q err=%v, want paid after refresh", status, err)
	}
}

func TestStatusDoesNotMutate(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Payload{Amount: "50.00"})
	if err != nil {
		t.Fatal(err)
	}
	before := mr.TTL("pay:" + token)
	mr.FastForward(time.Minute)
	if _, err := store.Status(ctx, token); err != nil {
		t.Fatal(err)
	}
	after := mr.TTL("pay:" + token)
	if after >= before {
		t.Fatalf("status refreshed TTL: before=%s after=%s", before, after)
	}
}
