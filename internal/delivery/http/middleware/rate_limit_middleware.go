package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"colonoscopy-scheduler/internal/infrastructure/metrics"
	"colonoscopy-scheduler/internal/usecase"
	"colonoscopy-scheduler/pkg/response"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimitKeyPrefix prefixes the per-client counter keys.
const RateLimitKeyPrefix = "rate_limit:chat:"

// incrWindowScript increments the client's counter and starts the window on
// the first hit, in one round trip.
var incrWindowScript = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return current
`)

// RateLimitMiddleware caps chat requests per client IP using a fixed window
// counter in Redis. Redis failures let the request through.
//
// trustedProxies is the number of reverse proxies in front of the service.
// With zero, the peer address is the client; otherwise the client is the
// hop the outermost trusted proxy appended to X-Forwarded-For.
type RateLimitMiddleware struct {
	redisClient    *redis.Client
	log            *logrus.Logger
	limit          int
	window         time.Duration
	trustedProxies int
}

func NewRateLimitMiddleware(redisClient *redis.Client, log *logrus.Logger, limit int, window time.Duration, trustedProxies int) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redisClient:    redisClient,
		log:            log,
		limit:          limit,
		window:         window,
		trustedProxies: trustedProxies,
	}
}

func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("%s%s", RateLimitKeyPrefix, ClientIP(r, m.trustedProxies))

		count, err := incrWindowScript.Run(r.Context(), m.redisClient, []string{key}, m.window.Milliseconds()).Int()
		if err != nil {
			m.log.Warnf("Rate limiter unavailable, allowing request: %+v", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > m.limit {
			metrics.RateLimited.Inc()
			response.TooManyRequests(w, usecase.MessageRateLimitError)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the originating client address. Entries of
// X-Forwarded-For are only believed when written by one of trustedProxies
// proxies, counted from the right end of the header; anything further left
// is client supplied.
func ClientIP(r *http.Request, trustedProxies int) string {
	forwarded := strings.Join(r.Header.Values("X-Forwarded-For"), ",")
	if trustedProxies > 0 && forwarded != "" {
		hops := strings.Split(forwarded, ",")
		if len(hops) >= trustedProxies {
			if hop := strings.TrimSpace(hops[len(hops)-trustedProxies]); hop != "" {
				return hop
			}
		}
	}

	return peerIP(r)
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
