package service

import (
	"context"
	"io"

	"ReachServer/apps/client/internal/dto"
)

// ==================== 客户服务接口 ====================

// IClientService 客户服务接口
// 职责：客户列表、创建（含头像解析与随行关系）、查询、更新、删除
type IClientService interface {
	// ListClients 分页获取客户列表
	ListClients(ctx context.Context, req *dto.ListClientsRequest) (*dto.ListClientsResponse, error)

	// CreateClient 创建客户
	// avatarUrl 非空时解析头像（失败降级默认头像）；
	// otherRelations 非空时在同一事务中建立外向关系，任一目标不存在则整体失败
	CreateClient(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientItem, error)

	// GetClient 按业务主键获取客户
	GetClient(ctx context.Context, userId string) (*dto.ClientItem, error)

	// UpdateClient 按内部 id 部分更新客户
	UpdateClient(ctx context.Context, clientId int64, req *dto.UpdateClientRequest) error

	// DeleteClient 按内部 id 删除客户（不级联清理关系）
	DeleteClient(ctx context.Context, clientId int64) error
}

// ==================== 关系服务接口 ====================

// IRelationService 关系服务接口
// 职责：关系列表、按昵称创建、删除、客户关系两跳展开
type IRelationService interface {
	// ListRelations 分页获取关系列表（含两端客户快照）
	ListRelations(ctx context.Context, req *dto.ListRelationsRequest) (*dto.ListRelationsResponse, error)

	// CreateRelation 按两端昵称创建关系，任一端不存在则不落库
	CreateRelation(ctx context.Context, req *dto.CreateRelationRequest) (*dto.RelationItem, error)

	// DeleteRelation 按 id 删除关系
	DeleteRelation(ctx context.Context, relationId int64) error

	// GetClientRelations 客户关系两跳展开
	// 一跳分页，二跳不分页且排除父边；客户没有任何关系时返回裸客户
	GetClientRelations(ctx context.Context, userId string, req *dto.ClientRelationsRequest) (*dto.ClientRelationsResponse, error)
}

// ==================== 导入服务接口 ====================

// IImportService 批量导入服务接口
type IImportService interface {
	// ImportClients 从 CSV 流批量导入客户与关系。
	// 两阶段执行：先逐行落客户（重复跳过），再统一补建关系（目标缺失丢弃）。
	// 返回批次号，逐行成败带批次号进日志。
	ImportClients(ctx context.Context, groupName string, file io.Reader) (*dto.ImportClientsResponse, error)
}
