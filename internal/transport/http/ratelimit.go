package http

import "time"

// rateLimiter caps inbound events per connection per minute. A zero
// limit disables it. It is owned by a single read loop, so no locking;
// the window resets lazily on the first event past its end.
type rateLimiter struct {
	limit       int
	window      time.Duration
	counter     int
	windowStart time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: time.Minute,
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	now := time.Now()
	if now.Sub(r.windowStart) >= r.window {
		r.windowStart = now
		r.counter = 0
	}
	r.counter++
	return r.counter <= r.limit
}
