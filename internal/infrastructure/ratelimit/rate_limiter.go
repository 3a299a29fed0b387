package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	ActionSendMessage       = "send_message"
	ActionConnectionRequest = "connection_request"
	ActionJoinRequest       = "join_request"
	ActionComment           = "comment"
	ActionNegotiation       = "negotiation"
	ActionHTTP              = "http"
)

// TokenBucket represents a token bucket for rate limiting
type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int           // tokens added per refill interval
	refillTime time.Duration // refill interval
	lastRefill time.Time
	lastUsed   time.Time
	mutex      sync.Mutex
}

func NewTokenBucket(maxTokens, refillRate int, refillTime time.Duration) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		refillTime: refillTime,
		lastRefill: now,
		lastUsed:   now,
	}
}

// Allow consumes a token when one is available. Otherwise it reports how
// long until the next refill.
func (tb *TokenBucket) Allow() (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()
	tb.lastUsed = now

	if periods := int(now.Sub(tb.lastRefill) / tb.refillTime); periods > 0 {
		tb.tokens += periods * tb.refillRate
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(periods) * tb.refillTime)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}
	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

func (tb *TokenBucket) Tokens() int {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.tokens
}

func (tb *TokenBucket) idleSince(t time.Time) bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.lastUsed.Before(t)
}

// Policy sizes the bucket for one action.
type Policy struct {
	MaxTokens  int
	RefillRate int
	RefillTime time.Duration
}

// DefaultPolicies is used by NewRateLimiter.
var DefaultPolicies = map[string]Policy{
	// 10 messages per minute
	ActionSendMessage: {MaxTokens: 10, RefillRate: 1, RefillTime: 6 * time.Second},
	// 20 connection requests per hour
	ActionConnectionRequest: {MaxTokens: 20, RefillRate: 1, RefillTime: 3 * time.Minute},
	// 10 join requests per hour
	ActionJoinRequest: {MaxTokens: 10, RefillRate: 1, RefillTime: 6 * time.Minute},
	ActionComment:     {MaxTokens: 15, RefillRate: 1, RefillTime: 4 * time.Second},
	ActionNegotiation: {MaxTokens: 30, RefillRate: 1, RefillTime: 2 * time.Second},
	// general API traffic, 120 requests per minute with bursts of 60
	ActionHTTP: {MaxTokens: 60, RefillRate: 1, RefillTime: 500 * time.Millisecond},
}

var fallbackPolicy = Policy{MaxTokens: 20, RefillRate: 1, RefillTime: 3 * time.Second}

// RateLimiter keeps one bucket per user and action.
type RateLimiter struct {
	policies map[string]Policy
	buckets  map[string]*TokenBucket
	mutex    sync.RWMutex
}

func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithPolicies(DefaultPolicies)
}

func NewRateLimiterWithPolicies(policies map[string]Policy) *RateLimiter {
	return &RateLimiter{
		policies: policies,
		buckets:  make(map[string]*TokenBucket),
	}
}

func (rl *RateLimiter) bucket(userID, action string) *TokenBucket {
	key := userID + ":" + action

	rl.mutex.RLock()
	b, ok := rl.buckets[key]
	rl.mutex.RUnlock()
	if ok {
		return b
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	if b, ok = rl.buckets[key]; ok {
		return b
	}
	p, ok := rl.policies[action]
	if !ok {
		p = fallbackPolicy
	}
	b = NewTokenBucket(p.MaxTokens, p.RefillRate, p.RefillTime)
	rl.buckets[key] = b
	return b
}

func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	return rl.bucket(userID, action).Allow()
}

// Status returns the remaining and maximum tokens for a user action.
func (rl *RateLimiter) Status(userID, action string) (tokens int, maxTokens int) {
	b := rl.bucket(userID, action)
	return b.Tokens(), b.maxTokens
}

// Cleanup drops buckets unused for an hour.
func (rl *RateLimiter) Cleanup() {
	cutoff := time.Now().Add(-time.Hour)

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	for key, b := range rl.buckets {
		if b.idleSince(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}
