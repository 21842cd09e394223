package config

import "time"

// MinIOConfig MinIO 对象存储配置（头像存储后端为 minio 时使用）。
type MinIOConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`               // MinIO 服务地址，如: localhost:9000
	AccessKeyID     string `json:"accessKeyId" yaml:"accessKeyId"`         // Access Key
	SecretAccessKey string `json:"secretAccessKey" yaml:"secretAccessKey"` // Secret Key
	UseSSL          bool   `json:"useSSL" yaml:"useSSL"`                   // 是否使用 HTTPS

	BucketName string `json:"bucketName" yaml:"bucketName"` // 存储桶名称
	Location   string `json:"location" yaml:"location"`     // Bucket 区域

	UploadTimeout time.Duration `json:"uploadTimeout" yaml:"uploadTimeout"` // 上传超时时间
	PublicRead    bool          `json:"publicRead" yaml:"publicRead"`       // 是否公开读取
	BaseURL       string        `json:"baseUrl" yaml:"baseUrl"`             // 外部访问的基础 URL
}

// DefaultMinIOConfig 返回本地开发的默认配置（与 docker-compose 对齐）。
func DefaultMinIOConfig() MinIOConfig {
	return MinIOConfig{
		Endpoint:        "minio:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UseSSL:          false,
		BucketName:      "reachserver-avatars",
		Location:        "us-east-1",
		UploadTimeout:   30 * time.Second,
		PublicRead:      true,
		BaseURL:         "http://localhost:9000",
	}
}
