package config

import "time"

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`                 // 监听地址
	Mode         string        `json:"mode" yaml:"mode"`                 // gin 模式：debug/release/test
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout"`   // 读超时
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"` // 写超时

	// 限流配置（基于 Redis 令牌桶，Redis 不可用时放行）
	RateLimitRate  float64 `json:"rateLimitRate" yaml:"rateLimitRate"`   // 每秒令牌数
	RateLimitBurst int     `json:"rateLimitBurst" yaml:"rateLimitBurst"` // 桶容量
}

// DefaultServerConfig 返回本地开发的默认配置。
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		Mode:           "debug",
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		RateLimitRate:  50,
		RateLimitBurst: 100,
	}
}
