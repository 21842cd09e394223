package config

// LoggerConfig 日志配置。
// 默认输出到 stdout/stderr，容器场景直接走 docker logs；
// 文件输出不做滚动，滚动由外部系统负责。
type LoggerConfig struct {
	Level            string   `json:"level" yaml:"level"`                       // debug/info/warn/error
	Encoding         string   `json:"encoding" yaml:"encoding"`                 // json 或 console
	EnableColor      bool     `json:"enableColor" yaml:"enableColor"`           // console 编码时是否彩色等级
	Development      bool     `json:"development" yaml:"development"`           // 开发模式（错误带堆栈）
	OutputPaths      []string `json:"outputPaths" yaml:"outputPaths"`           // 普通日志输出（stdout/文件路径）
	ErrorOutputPaths []string `json:"errorOutputPaths" yaml:"errorOutputPaths"` // 错误日志输出
}

// DefaultLoggerConfig 返回本地开发的默认配置。
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:       "info",
		Encoding:    "console",
		EnableColor: true,
		Development: true,
	}
}
