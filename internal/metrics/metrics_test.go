package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledReturnsNoop(t *testing.T) {
	rec := Init(false)

	_, ok := rec.(*NoopMetrics)
	require.True(t, ok)

	// Noop recorder accepts every call without touching a registry
	rec.RecordLogin("google", true)
	rec.RecordCallbackDuration("google", time.Millisecond)
	rec.RecordTokenIssued(time.Minute)
	rec.RecordTokenValidation(false)
	rec.RecordConnectionCreated("google")
	rec.RecordConnectionDeleted("google")
	rec.SetActiveConnections(3)
	rec.RecordAppRegistered()
	rec.RecordMappingChange("created")
	rec.RecordAuditEvent("USER_LOGIN")
	rec.RecordDataRequest("google", "gmail", true)
	rec.RecordDatabaseQueryError("count_active_connections")
}

func TestHTTPMetricsMiddlewareNoopPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
