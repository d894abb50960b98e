package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"library_system/internal/domain"
	"library_system/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type stubUsers map[string]*domain.User

func (s stubUsers) ByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

const secret = "test-secret"

func guardedRouter(users UserFinder, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{TokenAuthMiddleware(secret, users)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	})
	r.GET("/private", handlers...)
	return r
}

func token(t *testing.T, email string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(email, secret, time.Minute)
	require.NoError(t, err)
	return tok
}

func TestTokenAuthMiddleware(t *testing.T) {
	users := stubUsers{
		"ada@example.com":  {Email: "ada@example.com", Active: true},
		"gone@example.com": {Email: "gone@example.com", Active: false},
	}
	r := guardedRouter(users)

	cases := []struct {
		name    string
		header  string
		value   string
		status  int
		message string
	}{
		{"missing", "", "", http.StatusUnauthorized, "Token is missing!"},
		{"garbage", TokenHeader, "abc", http.StatusUnauthorized, "Token is invalid!"},
		{"unknown user", TokenHeader, token(t, "ghost@example.com"), http.StatusUnauthorized, "Token is invalid!"},
		{"disabled user", TokenHeader, token(t, "gone@example.com"), http.StatusUnauthorized, "Token is invalid!"},
		{"header token", TokenHeader, token(t, "ada@example.com"), http.StatusOK, ""},
		{"bearer token", "Authorization", "Bearer " + token(t, "ada@example.com"), http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.message != "" {
				assert.Contains(t, w.Body.String(), tc.message)
			} else {
				assert.Contains(t, w.Body.String(), "ada@example.com")
			}
		})
	}
}

func TestAdminOnlyMiddleware(t *testing.T) {
	users := stubUsers{
		"ada@example.com":   {Email: "ada@example.com", Active: true},
		"admin@example.com": {Email: "admin@example.com", Active: true, IsAdmin: true},
	}
	r := guardedRouter(users, AdminOnlyMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(TokenHeader, token(t, "ada@example.com"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required!")

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(TokenHeader, token(t, "admin@example.com"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(0.001, 2)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "buckets are per ip")

	r := gin.New()
	r.POST("/login", NewRateLimiter(0.001, 1).Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestIDAndMetrics(t *testing.T) {
	m := NewMetrics()
	r := gin.New()
	r.Use(RequestID(), RequestLogger(), m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("requestID")) })
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `library_http_requests_total{method="GET",route="/ping",status="200"} 2`)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/upload", BodyLimit(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("tiny")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("far too large a body")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
