package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/exenity/portal/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func signToken(t *testing.T, subject, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuthDisabledLetsEverythingThrough(t *testing.T) {
	r := newRouter(AdminAuth(testSecret, false))
	w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthEnforced(t *testing.T) {
	r := newRouter(AdminAuth(testSecret, true))

	w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin", testSecret, time.Hour))
	assert.Equal(t, http.StatusOK, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/ping?token="+signToken(t, "admin", testSecret, time.Hour), nil)
	assert.Equal(t, http.StatusOK, do(r, req).Code)

	for name, token := range map[string]string{
		"wrong secret":  signToken(t, "admin", "other", time.Hour),
		"expired":       signToken(t, "admin", testSecret, -time.Minute),
		"wrong subject": signToken(t, "someone", testSecret, time.Hour),
		"garbage":       "not-a-jwt",
	} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, do(r, req).Code, name)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	r := newRouter(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	assert.Equal(t, "fixed-id", do(r, req).Header().Get("X-Request-ID"))

	generated := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(CORS())
	w := do(r, httptest.NewRequest(http.MethodOptions, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsMiddlewareServes(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	r := newRouter(Metrics(m))

	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/ping", nil)).Code)
	assert.Equal(t, http.StatusNotFound, do(r, httptest.NewRequest(http.MethodGet, "/missing", nil)).Code)
}
