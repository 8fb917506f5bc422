package ratelimit

import (
	"sync"

	"github.com/orgball2608/community-feed-bot/pkg/config"
	"golang.org/x/time/rate"
)

// Limiter throttles updates per Telegram user.
type Limiter interface {
	Allow(userID int64) bool
}

// InMemoryLimiter keeps one token bucket per user.
type InMemoryLimiter struct {
	mu    sync.Mutex
	users map[int64]*rate.Limiter
	r     rate.Limit
	b     int
}

// New allows cfg.RateLimit.Requests updates per cfg.RateLimit.Per with the
// configured burst. A zero request count disables limiting.
func New(cfg *config.Config) *InMemoryLimiter {
	rl := cfg.RateLimit
	limit := rate.Inf
	if rl.Requests > 0 && rl.Per > 0 {
		limit = rate.Limit(float64(rl.Requests) / rl.Per.Seconds())
	}

	burst := rl.Burst
	if burst < 1 {
		burst = 1
	}

	return &InMemoryLimiter{
		users: make(map[int64]*rate.Limiter),
		r:     limit,
		b:     burst,
	}
}

func (l *InMemoryLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.users[userID]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.users[userID] = limiter
	}

	return limiter.Allow()
}

var _ Limiter = (*InMemoryLimiter)(nil)
