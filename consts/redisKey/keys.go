package rediskey

import (
	"fmt"
	"time"
)

// ==================== TTL 常量 ====================

const (
	// ClientInfoTTL 客户信息缓存 TTL
	ClientInfoTTL = 1 * time.Hour
	// ClientInfoEmptyTTL 客户信息空值缓存 TTL
	ClientInfoEmptyTTL = 5 * time.Minute
)

// ==================== Key 构造函数 ====================

// ClientInfoKey 生成客户信息缓存 Key: client:info:{user_id}
func ClientInfoKey(userId string) string {
	return fmt.Sprintf("client:info:%s", userId)
}

// IPRateLimitKey 生成 IP 限流 Key: rate:limit:ip:{ip}
func IPRateLimitKey(ip string) string {
	return fmt.Sprintf("rate:limit:ip:%s", ip)
}
