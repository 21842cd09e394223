package repository

import (
	"context"

	"ReachServer/model"
)

// ==================== 客户 Repository ====================

// IClientRepository 客户数据访问接口
type IClientRepository interface {
	// List 分页查询客户列表，返回当前页与总数
	List(ctx context.Context, offset, limit int) ([]*model.Client, int64, error)

	// Create 创建客户，user_id 冲突返回 ErrDuplicateKey
	Create(ctx context.Context, client *model.Client) error

	// CreateWithRelations 在单个事务中创建客户及其外向关系。
	// toUserIds 中任一目标客户不存在时整体回滚，返回 ErrRelationTargetMissing。
	CreateWithRelations(ctx context.Context, client *model.Client, toUserIds []string) error

	// GetByUserId 按业务主键查询客户，不存在时返回 (nil, nil)
	GetByUserId(ctx context.Context, userId string) (*model.Client, error)

	// GetByNickname 按昵称查询客户，不存在时返回 (nil, nil)
	GetByNickname(ctx context.Context, nickname string) (*model.Client, error)

	// UpdateFields 按内部 id 更新部分字段，无此记录返回 ErrRecordNotFound
	UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error

	// Delete 按内部 id 删除客户，无此记录返回 ErrRecordNotFound。
	// 不级联清理引用该客户的关系（悬空关系是文档化行为）。
	Delete(ctx context.Context, id int64) error
}

// ==================== 关系 Repository ====================

// IRelationRepository 关系数据访问接口
type IRelationRepository interface {
	// List 分页查询关系列表（联查两端客户展示字段），返回当前页与总数
	List(ctx context.Context, offset, limit int) ([]*model.RelationWithClients, int64, error)

	// Create 创建关系
	Create(ctx context.Context, relation *model.Relation) error

	// Delete 按 id 删除关系，无此记录返回 ErrRecordNotFound
	Delete(ctx context.Context, id int64) error

	// CountTouching 统计以 userId 为任一端点的关系总数
	CountTouching(ctx context.Context, userId string) (int64, error)

	// ListTouching 查询以 userId 为任一端点的关系（联查两端客户展示字段）。
	// excludeId > 0 时排除该关系 id（二跳展开时排除父边）；
	// limit <= 0 表示不限制条数；结果按关系 id 升序，两跳之间保持一致。
	ListTouching(ctx context.Context, userId string, excludeId int64, offset, limit int) ([]*model.RelationWithClients, error)
}
