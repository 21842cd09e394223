package config

import "time"

// 头像存储后端
const (
	AvatarStorageLocal = "local" // 本地静态目录
	AvatarStorageMinIO = "minio" // MinIO 对象存储
)

// AvatarConfig 头像解析器配置。
// 解析器从来源 URL 拉取头像并缓存，拉取失败一律降级为 DefaultFile，
// 不会把上游错误抛给调用方。
type AvatarConfig struct {
	Storage     string        `json:"storage" yaml:"storage"`         // local 或 minio
	StaticDir   string        `json:"staticDir" yaml:"staticDir"`     // 本地存储目录（同时被 HTTP 静态路由挂载）
	DefaultFile string        `json:"defaultFile" yaml:"defaultFile"` // 降级用默认头像文件名
	FetchTimeout time.Duration `json:"fetchTimeout" yaml:"fetchTimeout"` // 单次拉取超时
	RetryCount  int           `json:"retryCount" yaml:"retryCount"`   // resty 重试次数
	MemoSize    int           `json:"memoSize" yaml:"memoSize"`       // 已解析文件名 LRU 容量

	// 熔断配置：上游连续失败后快速失败，避免批量导入反复打挂掉的源站
	BreakerMaxRequests uint32        `json:"breakerMaxRequests" yaml:"breakerMaxRequests"` // 半开状态放行请求数
	BreakerInterval    time.Duration `json:"breakerInterval" yaml:"breakerInterval"`       // 闭合状态计数周期
	BreakerTimeout     time.Duration `json:"breakerTimeout" yaml:"breakerTimeout"`         // 打开状态持续时间
	BreakerFailures    uint32        `json:"breakerFailures" yaml:"breakerFailures"`       // 触发熔断的连续失败数
}

// DefaultAvatarConfig 返回本地开发的默认配置。
func DefaultAvatarConfig() AvatarConfig {
	return AvatarConfig{
		Storage:      AvatarStorageLocal,
		StaticDir:    "./static",
		DefaultFile:  "default.png",
		FetchTimeout: 10 * time.Second,
		RetryCount:   1,
		MemoSize:     1024,

		BreakerMaxRequests: 3,
		BreakerInterval:    time.Minute,
		BreakerTimeout:     30 * time.Second,
		BreakerFailures:    5,
	}
}
