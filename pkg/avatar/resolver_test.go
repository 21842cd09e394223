package avatar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ReachServer/config"
	"ReachServer/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var avatarLoggerOnce sync.Once

func initAvatarTestLogger() {
	avatarLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

func testAvatarConfig(dir string) config.AvatarConfig {
	cfg := config.DefaultAvatarConfig()
	cfg.StaticDir = dir
	cfg.FetchTimeout = 2 * time.Second
	cfg.RetryCount = 0
	cfg.BreakerFailures = 3
	return cfg
}

func newTestResolver(t *testing.T, dir string, cfg config.AvatarConfig) Resolver {
	t.Helper()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	r, err := NewResolver(cfg, store)
	require.NoError(t, err)
	return r
}

func TestResolve_FetchesOnceAndCaches(t *testing.T) {
	initAvatarTestLogger()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	r := newTestResolver(t, dir, testAvatarConfig(dir))

	name, err := r.Resolve(context.Background(), srv.URL+"/pics/profile.png", "u42")
	require.NoError(t, err)
	assert.Equal(t, "u42.png", name)

	// 文件已落地
	data, err := os.ReadFile(filepath.Join(dir, "u42.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	// 第二次解析不再发起网络请求
	name2, err := r.Resolve(context.Background(), srv.URL+"/pics/profile.png", "u42")
	require.NoError(t, err)
	assert.Equal(t, name, name2)
	assert.EqualValues(t, 1, atomic.LoadInt64(&hits))
}

func TestResolve_ExistingFileSkipsFetch(t *testing.T) {
	initAvatarTestLogger()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "u7.jpg"), []byte("old"), 0o644))

	r := newTestResolver(t, dir, testAvatarConfig(dir))

	// 新进程（LRU 为空）也不重新拉取，Stat 命中即返回
	name, err := r.Resolve(context.Background(), srv.URL+"/me.jpg", "u7")
	require.NoError(t, err)
	assert.Equal(t, "u7.jpg", name)
	assert.EqualValues(t, 0, atomic.LoadInt64(&hits))
}

func TestResolve_NameAlreadyHasExtension(t *testing.T) {
	initAvatarTestLogger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	r := newTestResolver(t, dir, testAvatarConfig(dir))

	name, err := r.Resolve(context.Background(), srv.URL+"/a.gif", "u1.gif")
	require.NoError(t, err)
	assert.Equal(t, "u1.gif", name)
}

func TestResolve_UpstreamErrorReturnsFetchFailed(t *testing.T) {
	initAvatarTestLogger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	r := newTestResolver(t, dir, testAvatarConfig(dir))

	_, err := r.Resolve(context.Background(), srv.URL+"/gone.png", "u9")
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, "default.png", r.Default())
}

func TestResolve_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	initAvatarTestLogger()

	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := testAvatarConfig(dir)
	cfg.BreakerFailures = 2
	r := newTestResolver(t, dir, cfg)

	for i := 0; i < 2; i++ {
		_, err := r.Resolve(context.Background(), srv.URL+"/a.png", "broken")
		require.ErrorIs(t, err, ErrFetchFailed)
	}
	hitsBefore := atomic.LoadInt64(&hits)

	// 熔断已打开，后续解析快速失败且不再命中上游
	_, err := r.Resolve(context.Background(), srv.URL+"/a.png", "broken")
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, hitsBefore, atomic.LoadInt64(&hits))
}
