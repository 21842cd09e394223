package repository

import (
	"context"
	"encoding/json"
	"errors"

	rediskey "ReachServer/consts/redisKey"
	"ReachServer/model"
	"ReachServer/pkg/async"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// clientRepositoryImpl 客户数据访问层实现
type clientRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewClientRepository 创建客户仓储实例。
// redisClient 为 nil 时关闭缓存，全部请求直接走 MySQL。
func NewClientRepository(db *gorm.DB, redisClient *redis.Client) IClientRepository {
	return &clientRepositoryImpl{db: db, redisClient: redisClient}
}

// List 分页查询客户列表
func (r *clientRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*model.Client, int64, error) {
	// 兜底分页参数
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Client{}).Count(&total).Error; err != nil {
		return nil, 0, WrapDBError(err)
	}

	var clients []*model.Client
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&clients).
		Error; err != nil {
		return nil, 0, WrapDBError(err)
	}

	return clients, total, nil
}

// Create 创建客户
func (r *clientRepositoryImpl) Create(ctx context.Context, client *model.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return WrapDBError(err)
	}

	// 新建后清掉可能存在的空占位缓存
	r.invalidateCache(ctx, client.UserId)
	return nil
}

// CreateWithRelations 在单个事务中创建客户及其外向关系。
// 任一目标客户不存在时整体回滚（API 创建路径的约束，批量导入走延迟解析不经过这里）。
func (r *clientRepositoryImpl) CreateWithRelations(ctx context.Context, client *model.Client, toUserIds []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}

		for _, toUserId := range toUserIds {
			if toUserId == "" {
				continue
			}

			var count int64
			if err := tx.Model(&model.Client{}).
				Where("user_id = ?", toUserId).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrRelationTargetMissing
			}

			relation := &model.Relation{
				FromClientId: client.UserId,
				ToClientId:   toUserId,
				Status:       1,
			}
			if err := tx.Create(relation).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRelationTargetMissing) {
			return ErrRelationTargetMissing
		}
		return WrapDBError(err)
	}

	r.invalidateCache(ctx, client.UserId)
	return nil
}

// GetByUserId 按业务主键查询客户
func (r *clientRepositoryImpl) GetByUserId(ctx context.Context, userId string) (*model.Client, error) {
	// ==================== 1. 先从 Redis 缓存中查询 ====================
	cacheKey := rediskey.ClientInfoKey(userId)
	if r.redisClient != nil {
		cachedData, err := r.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			// 空占位符表示客户不存在，不回源
			if cachedData == "{}" {
				return nil, nil
			}
			var client model.Client
			if err := json.Unmarshal([]byte(cachedData), &client); err == nil {
				return &client, nil
			}
		}
		if err != nil && err != redis.Nil {
			LogRedisError(ctx, err) // 记录日志 降级处理
		}
	}

	// ==================== 2. 缓存未命中，查询 MySQL ====================
	var client model.Client
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 存一份空占位到 redis，防止缓存穿透
			if r.redisClient != nil {
				async.RunSafe(ctx, func(runCtx context.Context) {
					ttl := getRandomExpireTime(rediskey.ClientInfoEmptyTTL)
					if err := r.redisClient.Set(runCtx, cacheKey, "{}", ttl).Err(); err != nil {
						LogRedisError(runCtx, err)
					}
				}, 0)
			}
			return nil, nil
		}
		return nil, WrapDBError(err)
	}

	// ==================== 3. 异步回填 Redis 缓存 ====================
	if r.redisClient != nil {
		if clientJSON, err := json.Marshal(&client); err == nil {
			async.RunSafe(ctx, func(runCtx context.Context) {
				ttl := getRandomExpireTime(rediskey.ClientInfoTTL)
				if err := r.redisClient.Set(runCtx, cacheKey, clientJSON, ttl).Err(); err != nil {
					LogRedisError(runCtx, err)
				}
			}, 0)
		}
	}

	return &client, nil
}

// GetByNickname 按昵称查询客户。
// 昵称只在创建关系时用作查找键，调用频率低，不走缓存。
func (r *clientRepositoryImpl) GetByNickname(ctx context.Context, nickname string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).Where("nickname = ?", nickname).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, WrapDBError(err)
	}
	return &client, nil
}

// UpdateFields 按内部 id 更新部分字段
func (r *clientRepositoryImpl) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	// 更新前取 user_id 用于缓存失效
	var client model.Client
	err := r.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return WrapDBError(err)
	}

	if err := r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("id = ?", id).
		Updates(updates).
		Error; err != nil {
		return WrapDBError(err)
	}

	r.invalidateCache(ctx, client.UserId)
	return nil
}

// Delete 按内部 id 删除客户（软删除）。
// 引用该客户的关系不做级联清理，联查时因端点缺失自然不再返回。
func (r *clientRepositoryImpl) Delete(ctx context.Context, id int64) error {
	var client model.Client
	err := r.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", id).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return WrapDBError(err)
	}

	if err := r.db.WithContext(ctx).Delete(&model.Client{}, id).Error; err != nil {
		return WrapDBError(err)
	}

	r.invalidateCache(ctx, client.UserId)
	return nil
}

// invalidateCache 删除客户缓存，失败时异步重试一次
func (r *clientRepositoryImpl) invalidateCache(ctx context.Context, userId string) {
	if r.redisClient == nil {
		return
	}

	cacheKey := rediskey.ClientInfoKey(userId)
	if err := r.redisClient.Del(ctx, cacheKey).Err(); err != nil {
		LogAndRetryCacheDelete(ctx, r.redisClient, cacheKey, err)
	}
}
