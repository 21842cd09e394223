package model

import (
	"time"

	"gorm.io/gorm"
)

// Relation 客户之间的有向关系（引荐/连接）。
// from_client_id / to_client_id 存业务主键 client.user_id，
// 批量导入场景允许先落关系后补客户，因此不加数据库外键；
// 删除客户时不级联清理关系，悬空关系是文档化行为。
type Relation struct {
	Id           int64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增id" json:"id"`
	FromClientId string         `gorm:"column:from_client_id;type:varchar(64);not null;index:idx_relation_from;comment:起点客户user_id" json:"fromClientId"`
	ToClientId   string         `gorm:"column:to_client_id;type:varchar(64);not null;index:idx_relation_to;comment:终点客户user_id" json:"toClientId"`
	Status       int8           `gorm:"column:status;not null;default:1;comment:状态 1.有效" json:"status"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Relation) TableName() string { return "relation" }

// RelationWithClients 关系行与两端客户展示字段的联查结果（Scan 用，非表模型）。
// 无论查询命中的是 from 端还是 to 端，两端的姓名与头像都填充。
type RelationWithClients struct {
	Id               int64  `gorm:"column:id"`
	FromClientId     string `gorm:"column:from_client_id"`
	ToClientId       string `gorm:"column:to_client_id"`
	Status           int8   `gorm:"column:status"`
	FromClientName   string `gorm:"column:from_client_name"`
	ToClientName     string `gorm:"column:to_client_name"`
	FromClientAvatar string `gorm:"column:from_client_avatar"`
	ToClientAvatar   string `gorm:"column:to_client_avatar"`
}

// OtherClientId 返回关系中不等于 userId 的那一端。
// 自环关系（两端相同）返回对端同值。
func (r *RelationWithClients) OtherClientId(userId string) string {
	if r.ToClientId == userId {
		return r.FromClientId
	}
	return r.ToClientId
}
