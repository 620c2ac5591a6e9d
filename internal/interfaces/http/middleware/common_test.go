package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/gin-gonic/gin"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func() (*gin.Engine, *string) {
		var seen string
		r := gin.New()
		r.Use(RequestID())
		r.GET("/test", func(c *gin.Context) {
			seen = c.GetString("request_id")
			c.Status(http.StatusOK)
		})
		return r, &seen
	}

	t.Run("generates ID when absent", func(t *testing.T) {
		r, seen := newEngine()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, w.Header().Get("X-Request-ID"), *seen)
	})

	t.Run("keeps caller-provided ID", func(t *testing.T) {
		r, seen := newEngine()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "caller-id-7")
		r.ServeHTTP(w, req)

		assert.Equal(t, "caller-id-7", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "caller-id-7", *seen)
	})

	t.Run("generated IDs are unique", func(t *testing.T) {
		r, _ := newEngine()

		ids := make(map[string]bool)
		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			r.ServeHTTP(w, req)
			ids[w.Header().Get("X-Request-ID")] = true
		}

		assert.Len(t, ids, 10)
	})
}
