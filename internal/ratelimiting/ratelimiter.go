package ratelimiting

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/Amund211/gamelens/internal/strutils"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Consume(key string) bool
}

type tokenBucketRateLimiter struct {
	limiterByKey    *ttlcache.Cache[string, *rate.Limiter]
	refillPerSecond float64
	burstSize       int
}

func (rateLimiter *tokenBucketRateLimiter) Consume(key string) bool {
	limiter, _ := rateLimiter.limiterByKey.GetOrSet(key, rate.NewLimiter(rate.Limit(rateLimiter.refillPerSecond), rateLimiter.burstSize))
	return limiter.Value().Allow()
}

type RefillPerSecond float64
type BurstSize int

// NewTokenBucketRateLimiter keeps one token bucket per key. Buckets unused for 30 minutes
// are dropped, which is long enough for any bucket to have refilled.
// Call the returned function to stop the background cleanup.
func NewTokenBucketRateLimiter(refillPerSecond RefillPerSecond, burstSize BurstSize) (RateLimiter, func()) {
	limiterTTLCache := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](30 * time.Minute),
	)
	go limiterTTLCache.Start()

	return &tokenBucketRateLimiter{
		limiterByKey:    limiterTTLCache,
		refillPerSecond: float64(refillPerSecond),
		burstSize:       int(burstSize),
	}, limiterTTLCache.Stop
}

type RequestRateLimiter interface {
	Consume(r *http.Request) bool
	KeyFor(r *http.Request) string
}

type requestBasedRateLimiter struct {
	limiter RateLimiter
	keyFunc func(r *http.Request) string
}

func (rateLimiter *requestBasedRateLimiter) Consume(r *http.Request) bool {
	return rateLimiter.limiter.Consume(rateLimiter.keyFunc(r))
}

func (rateLimiter *requestBasedRateLimiter) KeyFor(r *http.Request) string {
	return rateLimiter.keyFunc(r)
}

func NewRequestBasedRateLimiter(limiter RateLimiter, keyFunc func(r *http.Request) string) RequestRateLimiter {
	return &requestBasedRateLimiter{
		limiter: limiter,
		keyFunc: keyFunc,
	}
}

const ipv6PrefixBits = 64

// IPKeyFunc keys on the client address. IPv6 clients are keyed on their /64 network,
// since a single host can hand out addresses across the whole prefix.
func IPKeyFunc(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// No port
		host = r.RemoteAddr
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Sprintf("ip: %.64s", host)
	}
	addr = addr.Unmap()

	if addr.Is6() {
		prefix, err := addr.Prefix(ipv6PrefixBits)
		if err == nil {
			return fmt.Sprintf("ip: %s", prefix)
		}
	}
	return fmt.Sprintf("ip: %s", addr)
}

// UserIDKeyFunc keys on the X-User-Id header. Valid ids are normalized so spelling
// variants of one id share a bucket.
func UserIDKeyFunc(r *http.Request) string {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		return "user-id: <missing>"
	}
	if normalized, err := strutils.NormalizeUUID(userID); err == nil {
		return fmt.Sprintf("user-id: %s", normalized)
	}
	return fmt.Sprintf("user-id: %.50s", userID)
}
