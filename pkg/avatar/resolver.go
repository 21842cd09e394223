package avatar

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"ReachServer/config"
	"ReachServer/pkg/logger"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sony/gobreaker"
)

// ErrFetchFailed 上游拉取失败（传输错误/非 2xx/熔断打开）。
// 该错误不会越过调用方边界返回给 HTTP 调用者，调用方一律降级为默认头像。
var ErrFetchFailed = errors.New("avatar fetch failed")

// Resolver 头像解析器：给定来源 URL 与稳定名，返回可本地寻址的文件名。
// 幂等：同一 (sourceUrl, stableName) 已缓存时不再发起网络请求。
type Resolver interface {
	// Resolve 解析头像，返回落地文件名
	Resolve(ctx context.Context, sourceURL, stableName string) (string, error)

	// Default 返回降级用默认头像文件名
	Default() string
}

type resolverImpl struct {
	store   Store
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	memo    *lru.Cache[string, string]
	cfg     config.AvatarConfig
}

// NewResolver 创建头像解析器。
// - resty 负责拉取（带重试与超时）。
// - gobreaker 包住上游：连续失败后快速失败，批量导入不会反复打挂掉的源站。
// - LRU 记录已解析文件名，进程内重复解析时连 Stat 都省掉。
func NewResolver(cfg config.AvatarConfig, store Store) (Resolver, error) {
	memo, err := lru.New[string, string](cfg.MemoSize)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New().
		SetTimeout(cfg.FetchTimeout).
		SetRetryCount(cfg.RetryCount)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "avatar-upstream",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
	})

	return &resolverImpl{
		store:   store,
		http:    httpClient,
		breaker: breaker,
		memo:    memo,
		cfg:     cfg,
	}, nil
}

// Default 返回降级用默认头像文件名。
func (r *resolverImpl) Default() string {
	return r.cfg.DefaultFile
}

// Resolve 解析头像。
// 1. 从来源 URL 的 path 推断扩展名并拼到稳定名上。
// 2. 已在 LRU 或存储中存在则直接返回（不发网络请求）。
// 3. 否则经熔断器拉取，成功落地后返回文件名。
func (r *resolverImpl) Resolve(ctx context.Context, sourceURL, stableName string) (string, error) {
	name := r.fileName(sourceURL, stableName)

	if cached, ok := r.memo.Get(name); ok {
		return cached, nil
	}

	exists, err := r.store.Exists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %v", ErrFetchFailed, name, err)
	}
	if exists {
		r.memo.Add(name, name)
		return name, nil
	}

	body, contentType, err := r.fetch(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	if err := r.store.Save(ctx, name, body, contentType); err != nil {
		return "", fmt.Errorf("%w: save %s: %v", ErrFetchFailed, name, err)
	}

	r.memo.Add(name, name)
	return name, nil
}

// fileName 把来源 URL 的扩展名拼到稳定名上（已带同名扩展时不重复拼接）。
func (r *resolverImpl) fileName(sourceURL, stableName string) string {
	ext := ""
	if u, err := url.Parse(sourceURL); err == nil {
		p := u.Path
		if unescaped, err := url.PathUnescape(p); err == nil {
			p = unescaped
		}
		ext = path.Ext(p)
	}
	if ext != "" && !strings.HasSuffix(stableName, ext) {
		return stableName + ext
	}
	return stableName
}

// fetch 经熔断器拉取头像内容。
func (r *resolverImpl) fetch(ctx context.Context, sourceURL string) ([]byte, string, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		resp, err := r.http.R().SetContext(ctx).Get(sourceURL)
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("upstream status %d", resp.StatusCode())
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logger.Warn(ctx, "头像上游熔断中，快速失败",
				logger.String("url", sourceURL),
			)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp := result.(*resty.Response)
	return resp.Body(), resp.Header().Get("Content-Type"), nil
}
