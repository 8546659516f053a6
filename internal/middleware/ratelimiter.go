package middleware

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/rizkyfm/docchat/internal/config"
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RateLimitPerSecond), config.BurstRateLimitPerSecond)

type IPRateLimiter struct {
	ips       map[string]*rate.Limiter
	mu        sync.RWMutex
	rateLimit rate.Limit
	burstRate int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{ips: make(map[string]*rate.Limiter), rateLimit: r, burstRate: b}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()
	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.rateLimit, i.burstRate)
		i.ips[ip] = limiter
	}
	return limiter
}

//TODO: offload this key-value map to redis once there is more than one instance
