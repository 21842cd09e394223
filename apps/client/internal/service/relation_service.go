package service

import (
	"context"
	"errors"

	"ReachServer/apps/client/internal/dto"
	"ReachServer/apps/client/internal/repository"
	"ReachServer/apps/client/internal/utils"
	"ReachServer/consts"
	"ReachServer/model"
)

// relationServiceImpl 关系服务实现
type relationServiceImpl struct {
	clientRepo   repository.IClientRepository
	relationRepo repository.IRelationRepository
}

// NewRelationService 创建关系服务实例
func NewRelationService(
	clientRepo repository.IClientRepository,
	relationRepo repository.IRelationRepository,
) IRelationService {
	return &relationServiceImpl{
		clientRepo:   clientRepo,
		relationRepo: relationRepo,
	}
}

// ListRelations 分页获取关系列表（含两端客户快照）
func (s *relationServiceImpl) ListRelations(ctx context.Context, req *dto.ListRelationsRequest) (*dto.ListRelationsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	rows, total, err := s.relationRepo.List(ctx, req.Skip, limit)
	if err != nil {
		return nil, err
	}

	return &dto.ListRelationsResponse{
		Data:  toRelationItems(rows),
		Count: total,
	}, nil
}

// CreateRelation 按两端昵称创建关系
// 错误码映射：
//   - CodeRelationEndpoint: 任一端昵称查不到客户（不落库）
func (s *relationServiceImpl) CreateRelation(ctx context.Context, req *dto.CreateRelationRequest) (*dto.RelationItem, error) {
	fromClient, err := s.clientRepo.GetByNickname(ctx, req.FromClientNickname)
	if err != nil {
		return nil, err
	}
	toClient, err := s.clientRepo.GetByNickname(ctx, req.ToClientNickname)
	if err != nil {
		return nil, err
	}
	if fromClient == nil || toClient == nil {
		return nil, utils.NewBizError(consts.CodeRelationEndpoint)
	}

	relation := &model.Relation{
		FromClientId: fromClient.UserId,
		ToClientId:   toClient.UserId,
		Status:       1,
	}
	if err := s.relationRepo.Create(ctx, relation); err != nil {
		return nil, err
	}

	return &dto.RelationItem{
		Id:               relation.Id,
		FromClientId:     relation.FromClientId,
		ToClientId:       relation.ToClientId,
		Status:           relation.Status,
		FromClientName:   fromClient.Name,
		FromClientAvatar: fromClient.Avatar,
		ToClientName:     toClient.Name,
		ToClientAvatar:   toClient.Avatar,
	}, nil
}

// DeleteRelation 按 id 删除关系
func (s *relationServiceImpl) DeleteRelation(ctx context.Context, relationId int64) error {
	if err := s.relationRepo.Delete(ctx, relationId); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return utils.NewBizError(consts.CodeRelationNotFound)
		}
		return err
	}
	return nil
}

// GetClientRelations 客户关系两跳展开
// 业务流程：
//  1. 解析目标客户，不存在返回 CodeClientNotFound
//  2. 统计一跳关系总数，为 0 时返回裸客户（data 空、count 0）
//  3. 分页取一跳关系；对每条取对端客户的全部二跳关系，排除本条一跳边
//
// 两跳均按关系 id 升序，展开深度硬上限为 2，不递归。
func (s *relationServiceImpl) GetClientRelations(ctx context.Context, userId string, req *dto.ClientRelationsRequest) (*dto.ClientRelationsResponse, error) {
	// 1. 目标客户必须存在
	client, err := s.clientRepo.GetByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, utils.NewBizError(consts.CodeClientNotFound)
	}

	// 2. 一跳总数
	total, err := s.relationRepo.CountTouching(ctx, userId)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &dto.ClientRelationsResponse{
			Client: toClientItem(client),
			Data:   []*dto.RelationNode{},
			Count:  0,
		}, nil
	}

	// 3. 一跳分页
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	firstHop, err := s.relationRepo.ListTouching(ctx, userId, 0, req.Skip, limit)
	if err != nil {
		return nil, err
	}

	// 4. 逐条展开二跳：对端客户的全部关系，排除父边自身
	nodes := make([]*dto.RelationNode, 0, len(firstHop))
	for _, edge := range firstHop {
		otherId := edge.OtherClientId(userId)
		secondHop, err := s.relationRepo.ListTouching(ctx, otherId, edge.Id, 0, 0)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &dto.RelationNode{
			RelationItem: *toRelationItem(edge),
			Relations:    toRelationItems(secondHop),
		})
	}

	return &dto.ClientRelationsResponse{
		Client: toClientItem(client),
		Data:   nodes,
		Count:  total,
	}, nil
}
