package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/vitalab/vitashop-backend/internal/logger"
)

// Login protection thresholds.
const (
	MaxLoginAttempts = 5
	AttemptWindow    = 15 * time.Minute
	BlockDuration    = 30 * time.Minute
)

// AttemptStore tracks failed login attempts per key. Implementations exist
// for single-instance memory and shared redis deployments.
type AttemptStore interface {
	RegisterFailure(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
	IsBlocked(ctx context.Context, key string) (bool, error)
	Block(ctx context.Context, key string) error
}

type BruteForceMiddleware struct {
	log   *logger.Logger
	store AttemptStore
}

func NewBruteForceMiddleware(log *logger.Logger, store AttemptStore) *BruteForceMiddleware {
	middlewareLogger := log.With("middleware", "BruteForceMiddleware")
	return &BruteForceMiddleware{log: middlewareLogger, store: store}
}

// Protect guards a credential endpoint: blocked clients get 429 up front,
// an unauthorized response counts as a failure, a success clears the slate.
func (bf *BruteForceMiddleware) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		ctx := c.Request.Context()

		blocked, err := bf.store.IsBlocked(ctx, key)
		if err != nil {
			bf.log.Warn("Failed to check login block", "error", err, "key", key)
		}
		if blocked {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many failed attempts, try again later"})
			return
		}

		c.Next()

		switch {
		case c.Writer.Status() == http.StatusUnauthorized:
			count, fErr := bf.store.RegisterFailure(ctx, key)
			if fErr != nil {
				bf.log.Warn("Failed to register login failure", "error", fErr, "key", key)
				return
			}
			if count >= MaxLoginAttempts {
				if bErr := bf.store.Block(ctx, key); bErr != nil {
					bf.log.Warn("Failed to block client", "error", bErr, "key", key)
					return
				}
				bf.log.Warn("Client blocked after repeated login failures", "key", key, "failures", count)
			}
		case c.Writer.Status() < 400:
			if rErr := bf.store.Reset(ctx, key); rErr != nil {
				bf.log.Warn("Failed to reset login failures", "error", rErr, "key", key)
			}
		}
	}
}

type memoryEntry struct {
	count        int64
	windowStart  time.Time
	blockedUntil time.Time
}

// MemoryAttemptStore is the default store for single-instance deployments.
type MemoryAttemptStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (ms *MemoryAttemptStore) RegisterFailure(ctx context.Context, key string) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	entry, ok := ms.entries[key]
	if !ok || now.Sub(entry.windowStart) > AttemptWindow {
		entry = &memoryEntry{windowStart: now}
		ms.entries[key] = entry
	}
	entry.count++
	return entry.count, nil
}

func (ms *MemoryAttemptStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, key)
	return nil
}

func (ms *MemoryAttemptStore) IsBlocked(ctx context.Context, key string) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, ok := ms.entries[key]
	if !ok {
		return false, nil
	}
	return ms.now().Before(entry.blockedUntil), nil
}

func (ms *MemoryAttemptStore) Block(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, ok := ms.entries[key]
	if !ok {
		entry = &memoryEntry{windowStart: ms.now()}
		ms.entries[key] = entry
	}
	entry.blockedUntil = ms.now().Add(BlockDuration)
	return nil
}

// RedisAttemptStore shares the failure counters across instances.
type RedisAttemptStore struct {
	client *redis.Client
}

func NewRedisAttemptStore(client *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{client: client}
}

func (rs *RedisAttemptStore) RegisterFailure(ctx context.Context, key string) (int64, error) {
	failKey := "login_fail:" + key
	count, err := rs.client.Incr(ctx, failKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := rs.client.Expire(ctx, failKey, AttemptWindow).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (rs *RedisAttemptStore) Reset(ctx context.Context, key string) error {
	return rs.client.Del(ctx, "login_fail:"+key, "login_block:"+key).Err()
}

func (rs *RedisAttemptStore) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := rs.client.Exists(ctx, "login_block:"+key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (rs *RedisAttemptStore) Block(ctx context.Context, key string) error {
	return rs.client.Set(ctx, "login_block:"+key, "1", BlockDuration).Err()
}
