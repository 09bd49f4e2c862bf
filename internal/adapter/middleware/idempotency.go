package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

type cachedResponse struct {
	status  int
	body    []byte
	savedAt time.Time
}

// IdempotencyCache remembers successful responses per Idempotency-Key so a
// retried mutating request replays the original outcome instead of moving
// money twice. Entries expire after the TTL.
type IdempotencyCache struct {
	mu      sync.Mutex
	entries map[string]cachedResponse
	ttl     time.Duration
}

func NewIdempotencyCache(ttl time.Duration) *IdempotencyCache {
	return &IdempotencyCache{
		entries: make(map[string]cachedResponse),
		ttl:     ttl,
	}
}

// Idempotency is the fiber middleware. Requests without the header pass
// through untouched.
func Idempotency(cache *IdempotencyCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get("Idempotency-Key")
		if key == "" {
			return c.Next()
		}

		if status, body, ok := cache.lookup(key); ok {
			slog.Info("Idempotency hit, returning cached response", "key", key)
			c.Set("X-Idempotency-Hit", "true")
			c.Set("Content-Type", "application/json")
			return c.Status(status).Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		// Only successes are cached. A failed attempt (409, 500, ...) must
		// stay retryable under the same key once its cause is resolved.
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}
		body := make([]byte, len(c.Response().Body()))
		copy(body, c.Response().Body())
		cache.save(key, status, body)
		return nil
	}
}

func (ic *IdempotencyCache) lookup(key string) (int, []byte, bool) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	e, ok := ic.entries[key]
	if !ok {
		return 0, nil, false
	}
	if time.Since(e.savedAt) > ic.ttl {
		delete(ic.entries, key)
		return 0, nil, false
	}
	return e.status, e.body, true
}

func (ic *IdempotencyCache) save(key string, status int, body []byte) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.entries[key] = cachedResponse{status: status, body: body, savedAt: time.Now()}
}
