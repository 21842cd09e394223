package service

import (
	"context"
	"sync"
	"testing"

	"ReachServer/apps/client/internal/utils"
	"ReachServer/model"
	"ReachServer/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var serviceTestLoggerOnce sync.Once

func initServiceTestLogger() {
	serviceTestLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

// requireBizCode 断言错误为业务错误且错误码符合预期
func requireBizCode(t *testing.T, err error, wantCode int32) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, wantCode, utils.ExtractErrorCode(err))
}

// ==================== 客户 Repository 假实现 ====================

type fakeClientRepository struct {
	listFn                func(ctx context.Context, offset, limit int) ([]*model.Client, int64, error)
	createFn              func(ctx context.Context, client *model.Client) error
	createWithRelationsFn func(ctx context.Context, client *model.Client, toUserIds []string) error
	getByUserIdFn         func(ctx context.Context, userId string) (*model.Client, error)
	getByNicknameFn       func(ctx context.Context, nickname string) (*model.Client, error)
	updateFieldsFn        func(ctx context.Context, id int64, updates map[string]interface{}) error
	deleteFn              func(ctx context.Context, id int64) error
}

func (f *fakeClientRepository) List(ctx context.Context, offset, limit int) ([]*model.Client, int64, error) {
	if f.listFn == nil {
		return nil, 0, nil
	}
	return f.listFn(ctx, offset, limit)
}

func (f *fakeClientRepository) Create(ctx context.Context, client *model.Client) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, client)
}

func (f *fakeClientRepository) CreateWithRelations(ctx context.Context, client *model.Client, toUserIds []string) error {
	if f.createWithRelationsFn == nil {
		return nil
	}
	return f.createWithRelationsFn(ctx, client, toUserIds)
}

func (f *fakeClientRepository) GetByUserId(ctx context.Context, userId string) (*model.Client, error) {
	if f.getByUserIdFn == nil {
		return nil, nil
	}
	return f.getByUserIdFn(ctx, userId)
}

func (f *fakeClientRepository) GetByNickname(ctx context.Context, nickname string) (*model.Client, error) {
	if f.getByNicknameFn == nil {
		return nil, nil
	}
	return f.getByNicknameFn(ctx, nickname)
}

func (f *fakeClientRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	if f.updateFieldsFn == nil {
		return nil
	}
	return f.updateFieldsFn(ctx, id, updates)
}

func (f *fakeClientRepository) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

// ==================== 关系 Repository 假实现 ====================

type fakeRelationRepository struct {
	listFn          func(ctx context.Context, offset, limit int) ([]*model.RelationWithClients, int64, error)
	createFn        func(ctx context.Context, relation *model.Relation) error
	deleteFn        func(ctx context.Context, id int64) error
	countTouchingFn func(ctx context.Context, userId string) (int64, error)
	listTouchingFn  func(ctx context.Context, userId string, excludeId int64, offset, limit int) ([]*model.RelationWithClients, error)
}

func (f *fakeRelationRepository) List(ctx context.Context, offset, limit int) ([]*model.RelationWithClients, int64, error) {
	if f.listFn == nil {
		return nil, 0, nil
	}
	return f.listFn(ctx, offset, limit)
}

func (f *fakeRelationRepository) Create(ctx context.Context, relation *model.Relation) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, relation)
}

func (f *fakeRelationRepository) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeRelationRepository) CountTouching(ctx context.Context, userId string) (int64, error) {
	if f.countTouchingFn == nil {
		return 0, nil
	}
	return f.countTouchingFn(ctx, userId)
}

func (f *fakeRelationRepository) ListTouching(ctx context.Context, userId string, excludeId int64, offset, limit int) ([]*model.RelationWithClients, error) {
	if f.listTouchingFn == nil {
		return nil, nil
	}
	return f.listTouchingFn(ctx, userId, excludeId, offset, limit)
}

// ==================== 头像解析器假实现 ====================

type fakeResolver struct {
	resolveFn func(ctx context.Context, sourceURL, stableName string) (string, error)
}

func (f *fakeResolver) Resolve(ctx context.Context, sourceURL, stableName string) (string, error) {
	if f.resolveFn == nil {
		return "default.png", nil
	}
	return f.resolveFn(ctx, sourceURL, stableName)
}

func (f *fakeResolver) Default() string {
	return "default.png"
}
