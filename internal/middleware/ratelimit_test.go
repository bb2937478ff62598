package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// limitedLogin returns a login endpoint behind the limiter and the miniredis
// instance backing it.
func limitedLogin(t *testing.T, attempts int, window time.Duration) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := RateLimitMiddleware(client, RateLimitConfig{
		RequestsPerWindow: attempts,
		Window:            window,
		KeyPrefix:         "ratelimit:login",
	}, zap.NewNop())
	return limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), mr
}

func attempt(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Feature: pos-core, Property 15: Login rate limiting blocks excessive attempts
func TestProperty_RateLimitingBlocksExcessiveAttempts(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("one host gets exactly the allowed attempts per window", prop.ForAll(
		func(allowed, excess int) bool {
			h, _ := limitedLogin(t, allowed, time.Minute)

			passed, blocked := 0, 0
			for i := 0; i < allowed+excess; i++ {
				// Each attempt arrives on a new connection from the same host.
				switch attempt(h, fmt.Sprintf("192.168.1.100:%d", 5000+i)).Code {
				case http.StatusOK:
					passed++
				case http.StatusTooManyRequests:
					blocked++
				}
			}
			return passed == allowed && blocked == excess
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_Headers(t *testing.T) {
	h, _ := limitedLogin(t, 2, 30*time.Second)

	rec := attempt(h, "10.1.1.1:4000")
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	attempt(h, "10.1.1.1:4001")
	rec = attempt(h, "10.1.1.1:4002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, rec.Body.String(), "too many login attempts")

	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	assert.NoError(t, err)
	assert.InDelta(t, 30, retry, 1)
}

func TestRateLimit_HostsAreIndependent(t *testing.T) {
	h, _ := limitedLogin(t, 1, time.Minute)

	assert.Equal(t, http.StatusOK, attempt(h, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, attempt(h, "10.0.0.1:1001").Code)
	assert.Equal(t, http.StatusOK, attempt(h, "10.0.0.2:1000").Code)
}

func TestRateLimit_WindowExpires(t *testing.T) {
	h, mr := limitedLogin(t, 1, time.Minute)

	assert.Equal(t, http.StatusOK, attempt(h, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, attempt(h, "10.0.0.1:1000").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, attempt(h, "10.0.0.1:1000").Code)
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	h, mr := limitedLogin(t, 1, time.Minute)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, attempt(h, "10.0.0.1:1000").Code, "attempt %d", i)
	}
}
