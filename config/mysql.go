package config

import (
	"fmt"
	"time"
)

// MySQLConfig MySQL 连接配置。
// Replicas 非空时通过 dbresolver 做读写分离：写走 DSN，读轮询 Replicas。
type MySQLConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`

	Replicas []string `json:"replicas" yaml:"replicas"` // 只读副本 DSN 列表（可空）

	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`       // 最大打开连接数
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`       // 最大空闲连接数
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"` // 连接最大存活时间

	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"` // 启动时自动建表（仅本地开发）
}

// DSN 拼接 go-sql-driver 格式的连接串。
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// DefaultMySQLConfig 返回本地开发的默认配置（与 docker-compose 对齐）。
func DefaultMySQLConfig() MySQLConfig {
	return MySQLConfig{
		Host:            "127.0.0.1",
		Port:            3306,
		User:            "root",
		Password:        "root",
		Database:        "reachserver",
		MaxOpenConns:    50,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		AutoMigrate:     true,
	}
}
