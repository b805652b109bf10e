package middleware

import (
	"context"
	"testing"
	"time"
)

func TestMemoryAttemptStoreWindow(t *testing.T) {
	store := NewMemoryAttemptStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, err := store.RegisterFailure(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("RegisterFailure: %v", err)
		}
		if count != i {
			t.Fatalf("count=%d, want %d", count, i)
		}
	}

	// A failure outside the window starts a fresh count.
	now = now.Add(AttemptWindow + time.Minute)
	count, err := store.RegisterFailure(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("RegisterFailure after window: %v", err)
	}
	if count != 1 {
		t.Errorf("count after window=%d, want 1", count)
	}
}

func TestMemoryAttemptStoreBlockAndReset(t *testing.T) {
	store := NewMemoryAttemptStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	blocked, err := store.IsBlocked(ctx, "5.6.7.8")
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if blocked {
		t.Error("new key reported blocked")
	}

	if err := store.Block(ctx, "5.6.7.8"); err != nil {
		t.Fatalf("Block: %v", err)
	}
	blocked, err = store.IsBlocked(ctx, "5.6.7.8")
	if err != nil {
		t.Fatalf("IsBlocked after Block: %v", err)
	}
	if !blocked {
		t.Error("key not blocked after Block")
	}

	// Block expires after the configured duration.
	now = now.Add(BlockDuration + time.Second)
	blocked, err = store.IsBlocked(ctx, "5.6.7.8")
	if err != nil {
		t.Fatalf("IsBlocked after expiry: %v", err)
	}
	if blocked {
		t.Error("key still blocked after duration elapsed")
	}

	if err := store.Block(ctx, "5.6.7.8"); err != nil {
		t.Fatalf("Block again: %v", err)
	}
	if err := store.Reset(ctx, "5.6.7.8"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	blocked, err = store.IsBlocked(ctx, "5.6.7.8")
	if err != nil {
		t.Fatalf("IsBlocked after Reset: %v", err)
	}
	if blocked {
		t.Error("key still blocked after Reset")
	}

	// Keys are independent.
	count, err := store.RegisterFailure(ctx, "9.9.9.9")
	if err != nil {
		t.Fatalf("RegisterFailure other key: %v", err)
	}
	if count != 1 {
		t.Errorf("other key count=%d, want 1", count)
	}
}
