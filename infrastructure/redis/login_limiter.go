package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-api/domain/ports"
)

// LoginLimiter is a fixed-window counter using INCR/EXPIRE.
// key format: login:<window_seconds>:<key>
type LoginLimiter struct {
	client      *Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(client *Client, maxAttempts int, window time.Duration) ports.LoginLimiter {
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.keyFor(key)

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.TTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	allowed, retryAfter, setExpiry := l.decide(incr.Val(), ttl.Val())
	if setExpiry {
		// key ไม่มีวันหมดอายุ (ครั้งแรกของ window หรือ EXPIRE รอบก่อนล้มเหลว)
		if err := l.client.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	return allowed, retryAfter, nil
}

// decide turns the counter and its remaining TTL into a verdict. A negative
// ttl means the key carries no expiry and one must be set.
func (l *LoginLimiter) decide(count int64, ttl time.Duration) (allowed bool, retryAfter time.Duration, setExpiry bool) {
	setExpiry = ttl < 0
	if setExpiry {
		ttl = l.window
	}
	if count <= int64(l.maxAttempts) {
		return true, 0, setExpiry
	}
	return false, ttl, setExpiry
}

func (l *LoginLimiter) keyFor(key string) string {
	return "login:" + strconv.FormatInt(int64(l.window/time.Second), 10) + ":" + key
}
