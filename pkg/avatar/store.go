package avatar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	pkgminio "ReachServer/pkg/minio"
)

// Store 头像文件落地接口。
// local 落到静态目录（由 HTTP 静态路由对外提供），minio 落到对象存储。
type Store interface {
	// Exists 检查文件是否已存在（幂等解析的判定依据）
	Exists(ctx context.Context, name string) (bool, error)

	// Save 保存文件内容
	Save(ctx context.Context, name string, data []byte, contentType string) error
}

// ==================== 本地静态目录 ====================

type localStore struct {
	dir string
}

// NewLocalStore 创建本地目录存储，目录不存在时自动创建。
func NewLocalStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir %s: %w", dir, err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *localStore) Save(_ context.Context, name string, data []byte, _ string) error {
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}

// ==================== MinIO 对象存储 ====================

type minioStore struct {
	client *pkgminio.MinIOClient
}

// NewMinIOStore 创建 MinIO 存储后端。
func NewMinIOStore(client *pkgminio.MinIOClient) Store {
	return &minioStore{client: client}
}

func (s *minioStore) Exists(ctx context.Context, name string) (bool, error) {
	return s.client.ObjectExists(ctx, name)
}

func (s *minioStore) Save(ctx context.Context, name string, data []byte, contentType string) error {
	return s.client.PutBytes(ctx, name, data, contentType)
}
