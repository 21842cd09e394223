package repository

import (
	"context"
	"errors"

	"ReachServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// relationJoinSelect 关系行 + 两端客户展示字段的联查列。
// 无论命中的是 from 端还是 to 端，两端的姓名与头像都取出来。
const relationJoinSelect = "r.id, r.from_client_id, r.to_client_id, r.status, " +
	"fc.name AS from_client_name, fc.avatar AS from_client_avatar, " +
	"tc.name AS to_client_name, tc.avatar AS to_client_avatar"

// relationRepositoryImpl 关系数据访问层实现
type relationRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewRelationRepository 创建关系仓储实例
func NewRelationRepository(db *gorm.DB, redisClient *redis.Client) IRelationRepository {
	return &relationRepositoryImpl{db: db, redisClient: redisClient}
}

// joinedQuery 构造关系与两端客户的联查。
// 内联 JOIN：端点客户被删除（软删除）后，引用它的关系自然不再返回，
// 悬空关系保留在表里，这是文档化行为。
func (r *relationRepositoryImpl) joinedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("relation AS r").
		Select(relationJoinSelect).
		Joins("JOIN client AS fc ON r.from_client_id = fc.user_id AND fc.deleted_at IS NULL").
		Joins("JOIN client AS tc ON r.to_client_id = tc.user_id AND tc.deleted_at IS NULL").
		Where("r.deleted_at IS NULL")
}

// List 分页查询关系列表（联查两端客户展示字段）
func (r *relationRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*model.RelationWithClients, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Relation{}).Count(&total).Error; err != nil {
		return nil, 0, WrapDBError(err)
	}

	var rows []*model.RelationWithClients
	if err := r.joinedQuery(ctx).
		Order("r.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).
		Error; err != nil {
		return nil, 0, WrapDBError(err)
	}

	return rows, total, nil
}

// Create 创建关系
func (r *relationRepositoryImpl) Create(ctx context.Context, relation *model.Relation) error {
	if err := r.db.WithContext(ctx).Create(relation).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// Delete 按 id 删除关系（软删除）
func (r *relationRepositoryImpl) Delete(ctx context.Context, id int64) error {
	var relation model.Relation
	err := r.db.WithContext(ctx).Select("id").Where("id = ?", id).First(&relation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return WrapDBError(err)
	}

	if err := r.db.WithContext(ctx).Delete(&model.Relation{}, id).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// CountTouching 统计以 userId 为任一端点的关系总数
func (r *relationRepositoryImpl) CountTouching(ctx context.Context, userId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Relation{}).
		Where("from_client_id = ? OR to_client_id = ?", userId, userId).
		Count(&count).
		Error
	if err != nil {
		return 0, WrapDBError(err)
	}
	return count, nil
}

// ListTouching 查询以 userId 为任一端点的关系（联查两端客户展示字段）。
// excludeId > 0 时排除该关系 id（二跳展开排除父边）；
// limit <= 0 表示不限制条数。按 r.id 升序，保证两跳之间顺序一致。
func (r *relationRepositoryImpl) ListTouching(ctx context.Context, userId string, excludeId int64, offset, limit int) ([]*model.RelationWithClients, error) {
	query := r.joinedQuery(ctx).
		Where("(r.from_client_id = ? OR r.to_client_id = ?)", userId, userId)

	if excludeId > 0 {
		query = query.Where("r.id <> ?", excludeId)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []*model.RelationWithClients
	if err := query.Order("r.id ASC").Scan(&rows).Error; err != nil {
		return nil, WrapDBError(err)
	}

	return rows, nil
}
