package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		defer limiter.Stop()

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("client"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow("client"))
		assert.Equal(t, 0, limiter.Remaining("client"))
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))
		assert.Equal(t, 1, limiter.Remaining("c"))
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter := NewRateLimiter(1, 50*time.Millisecond)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("client"))
		assert.False(t, limiter.Allow("client"))
		time.Sleep(60 * time.Millisecond)
		assert.True(t, limiter.Allow("client"))
	})
}

func TestRateLimit_KeysByActor(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(RequestID(), Auth(AuthConfig{}), RateLimit(limiter))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ref string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(ActorHeader, ref)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := call("JD-MAN-000001")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	blocked := call("JD-MAN-000001")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), "ERR_RATE_LIMITED")

	// same IP, different agent
	assert.Equal(t, http.StatusOK, call("AS-CEB-000002").Code)
}
