package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voltaic-systems/authhub/internal/metrics"
	"github.com/voltaic-systems/authhub/internal/services"
	"github.com/voltaic-systems/authhub/internal/store"
	"github.com/voltaic-systems/authhub/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64(ContextUserID)})
	})
	return r
}

func get(r *gin.Engine, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tokens := token.NewManager("test-secret", 0, 0)
	r := protectedRouter(RequireAuth(tokens, metrics.NewNoopMetrics()))

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthenticated")

	w = get(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	issued, err := tokens.Issue(42, tokens.DefaultTTL())
	require.NoError(t, err)
	w = get(r, issued)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestRequireAuthRejectsForeignToken(t *testing.T) {
	tokens := token.NewManager("test-secret", 0, 0)
	other := token.NewManager("other-secret", 0, 0)
	r := protectedRouter(RequireAuth(tokens, metrics.NewNoopMetrics()))

	issued, err := other.Issue(42, other.DefaultTTL())
	require.NoError(t, err)
	w := get(r, issued)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	tokens := token.NewManager("test-secret", 0, 0)
	r := protectedRouter(OptionalAuth(tokens))

	// Anonymous requests pass with no user id attached
	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)

	issued, err := tokens.Issue(7, tokens.DefaultTTL())
	require.NoError(t, err)
	w = get(r, issued)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestMetricsAuth(t *testing.T) {
	t.Run("OpenWhenUnset", func(t *testing.T) {
		r := protectedRouter(MetricsAuth(""))
		w := get(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Gated", func(t *testing.T) {
		r := protectedRouter(MetricsAuth("scrape-token"))

		w := get(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")

		w = get(r, "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = get(r, "scrape-token")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminGate(t *testing.T) {
	db, err := store.New("sqlite", ":memory:", "test-password")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	adminService := services.NewAdminService(db, services.NewAuditService(db, metrics.NewNoopMetrics()))

	adminGet := func(r *gin.Engine, password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if password != "" {
			req.Header.Set(AdminPasswordHeader, password)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Disabled", func(t *testing.T) {
		r := protectedRouter(AdminGate(false, adminService))
		w := adminGet(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Enabled", func(t *testing.T) {
		r := protectedRouter(AdminGate(true, adminService))

		w := adminGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = adminGet(r, "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = adminGet(r, "test-password")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
