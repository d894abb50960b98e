package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"library_system/internal/config"
	"library_system/internal/db"
	"library_system/internal/domain"
	"library_system/internal/middleware"
	"library_system/internal/repository"
	"library_system/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
	domain.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

const testSecret = "test-secret"

type testApp struct {
	t      *testing.T
	router *gin.Engine
	repos  *repository.Repositories
	redis  *miniredis.Miniredis
	media  string
}

// newTestApp wires the full router over in-memory SQLite and miniredis
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gdb, err := db.Open("sqlite://", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	dir := t.TempDir()
	cfg := &config.Config{
		SecretKey:       testSecret,
		TokenTTLMinutes: 30,
		StaticFolder:    dir,
		MediaFolder:     dir + "/media",
		MaxUploadMB:     1,
		CacheTTLSeconds: 60,
		CORSOrigins:     "*",
	}
	repos := repository.NewRepositories(gdb)
	r := NewRouter(Deps{
		Config:  cfg,
		DB:      gdb,
		Repos:   repos,
		Cache:   utils.NewCache(rdb, cfg.CacheTTL()),
		Media:   utils.NewMediaStore(cfg.MediaFolder),
		Metrics: middleware.NewMetrics(),
	})
	return &testApp{t: t, router: r, repos: repos, redis: mr, media: cfg.MediaFolder}
}

// user creates an account directly and returns it with a valid token
func (a *testApp) user(email string, admin bool) (*domain.User, string) {
	a.t.Helper()
	u, err := domain.NewUser(email, "Test", "Reader", "password")
	require.NoError(a.t, err)
	u.IsAdmin = admin
	require.NoError(a.t, a.repos.Users.Create(context.Background(), u))
	tok, err := utils.GenerateJWT(email, testSecret, time.Minute)
	require.NoError(a.t, err)
	return u, tok
}

func (a *testApp) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) json(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req, token)
}

// multipart builds a form request with optional file parts keyed by field name
func (a *testApp) multipart(method, path, token string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(a.t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req, token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
