package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dfryer1193/goimages/images/application"
	"github.com/dfryer1193/goimages/images/domain"
	"github.com/dfryer1193/goimages/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	cfg.Debug = true
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "images.db")
	return cfg
}

func TestOpenRepository(t *testing.T) {
	redisSrv := miniredis.RunT(t)

	tests := []struct {
		name    string
		prepare func(cfg *config.Config)
	}{
		{name: "sqlite", prepare: func(cfg *config.Config) {}},
		{name: "gorm", prepare: func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendGorm
			cfg.Store.Gorm.Dialect = "sqlite"
			cfg.Store.Gorm.DSN = cfg.Store.SQLitePath
		}},
		{name: "redis", prepare: func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendRedis
			cfg.Store.Redis.Addr = redisSrv.Addr()
		}},
		{name: "memory", prepare: func(cfg *config.Config) {
			cfg.Store.Backend = config.BackendMemory
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.prepare(cfg)

			ctx := context.Background()
			repo, closeFn, err := OpenRepository(ctx, cfg)
			require.NoError(t, err)
			defer closeFn()

			require.NoError(t, repo.CreateImage(ctx, &domain.Image{ID: 1, Name: "cat", Format: "png", Size: 1024}))
			got, err := repo.GetImage(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "cat", got.Name)
		})
	}
}

func TestOpenRepository_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = "cassandra"
	_, _, err := OpenRepository(context.Background(), cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.Redis.Addr = "127.0.0.1:1"
	_, _, err = OpenRepository(context.Background(), cfg)
	assert.ErrorContains(t, err, "failed to reach redis")
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestEngine_ImageLifecycleOnSQLite(t *testing.T) {
	cfg := testConfig(t)
	repo, closeFn, err := OpenRepository(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	engine := NewEngine(cfg, application.NewImageService(repo))
	record := `{"id":1,"name":"cat","format":"png","size":1024}`

	w := do(t, engine, http.MethodPost, "/images/1", `{"name":"cat","format":"png","size":1024}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, record, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, engine, http.MethodGet, "/images/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, record, w.Body.String())

	w = do(t, engine, http.MethodDelete, "/images/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, engine, http.MethodGet, "/images/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"no image found with that id"}`, w.Body.String())
}

func TestEngine_AuxiliaryRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = config.BackendMemory
	cfg.Server.CORS = true
	repo, closeFn, err := OpenRepository(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	engine := NewEngine(cfg, application.NewImageService(repo))

	w := do(t, engine, http.MethodGet, "/swagger/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"swagger":"2.0"`)

	w = do(t, engine, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodGet, "/nothing/here", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"resource not found"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/swagger/", nil)
	req.Header.Set("Origin", "http://other.test")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_ServeAndShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = config.BackendMemory
	repo, closeFn, err := OpenRepository(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(cfg.Server, NewEngine(cfg, application.NewImageService(repo)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/images/1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestServer_RunFailsOnBadAddress(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// the address is already taken
	srv := New(config.ServerConfig{Addr: ln.Addr().String(), ShutdownTimeout: time.Second}, http.NotFoundHandler())
	err = srv.Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}
