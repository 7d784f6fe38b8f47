package ports

import (
	"context"
	"time"
)

// LoginLimiter นับจำนวนครั้งที่พยายาม login ต่อ key ในหนึ่ง window
type LoginLimiter interface {
	// Allow records one attempt and reports whether it is within the limit.
	// retryAfter is meaningful only when allowed is false.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}
