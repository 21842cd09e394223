package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ReachServer/config"
	"ReachServer/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var global *MinIOClient

// MinIOClient MinIO 客户端封装（头像对象存储后端）。
type MinIOClient struct {
	client *minio.Client
	config config.MinIOConfig
}

// Client 返回全局 MinIO 客户端（未初始化时为 nil）。
func Client() *MinIOClient { return global }

// ReplaceGlobal 设置全局 MinIO 客户端。
func ReplaceGlobal(c *MinIOClient) { global = c }

// Build 基于配置创建 MinIO 客户端，并确保 Bucket 存在。
func Build(cfg config.MinIOConfig) (*MinIOClient, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("minio endpoint is empty")
	}
	if strings.TrimSpace(cfg.AccessKeyID) == "" {
		return nil, errors.New("minio accessKeyId is empty")
	}
	if strings.TrimSpace(cfg.SecretAccessKey) == "" {
		return nil, errors.New("minio secretAccessKey is empty")
	}
	if strings.TrimSpace(cfg.BucketName) == "" {
		return nil, errors.New("minio bucketName is empty")
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	client := &MinIOClient{client: minioClient, config: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket exists: %w", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Location,
		}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}

		logger.Info(ctx, "MinIO Bucket 创建成功",
			logger.String("bucket", cfg.BucketName),
			logger.String("location", cfg.Location),
		)

		// 头像需要公开读
		if cfg.PublicRead {
			policy := fmt.Sprintf(`{
				"Version": "2012-10-17",
				"Statement": [
					{
						"Effect": "Allow",
						"Principal": {"AWS": ["*"]},
						"Action": ["s3:GetObject"],
						"Resource": ["arn:aws:s3:::%s/*"]
					}
				]
			}`, cfg.BucketName)

			if err := minioClient.SetBucketPolicy(ctx, cfg.BucketName, policy); err != nil {
				logger.Warn(ctx, "设置 Bucket 公开策略失败",
					logger.String("bucket", cfg.BucketName),
					logger.ErrorField("error", err),
				)
			}
		}
	}

	return client, nil
}

// ObjectExists 检查对象是否存在（头像幂等解析用）。
func (c *MinIOClient) ObjectExists(ctx context.Context, objectName string) (bool, error) {
	_, err := c.client.StatObject(ctx, c.config.BucketName, objectName, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PutBytes 上传字节内容到指定对象名。
func (c *MinIOClient) PutBytes(ctx context.Context, objectName string, data []byte, contentType string) error {
	uploadCtx := ctx
	if c.config.UploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, c.config.UploadTimeout)
		defer cancel()
	}

	_, err := c.client.PutObject(
		uploadCtx,
		c.config.BucketName,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", objectName, err)
	}
	return nil
}

// ObjectURL 返回对象的外部访问 URL。
func (c *MinIOClient) ObjectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.config.BaseURL, "/"), c.config.BucketName, objectName)
}
