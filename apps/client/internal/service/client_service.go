package service

import (
	"context"
	"errors"

	"ReachServer/apps/client/internal/dto"
	"ReachServer/apps/client/internal/repository"
	"ReachServer/apps/client/internal/utils"
	"ReachServer/consts"
	"ReachServer/model"
	"ReachServer/pkg/avatar"
	"ReachServer/pkg/logger"
)

// defaultPageLimit 列表接口缺省每页数量
const defaultPageLimit = 100

// clientServiceImpl 客户服务实现
type clientServiceImpl struct {
	clientRepo repository.IClientRepository
	resolver   avatar.Resolver
}

// NewClientService 创建客户服务实例
func NewClientService(
	clientRepo repository.IClientRepository,
	resolver avatar.Resolver,
) IClientService {
	return &clientServiceImpl{
		clientRepo: clientRepo,
		resolver:   resolver,
	}
}

// ListClients 分页获取客户列表
func (s *clientServiceImpl) ListClients(ctx context.Context, req *dto.ListClientsRequest) (*dto.ListClientsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	clients, total, err := s.clientRepo.List(ctx, req.Skip, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ClientItem, 0, len(clients))
	for _, client := range clients {
		items = append(items, toClientItem(client))
	}

	return &dto.ListClientsResponse{
		Data:  items,
		Count: total,
	}, nil
}

// CreateClient 创建客户
// 业务流程：
//  1. 头像解析（avatarUrl 非空时拉取并落地，失败降级默认头像）
//  2. 无随行关系走普通创建，有随行关系走事务创建
//
// 错误码映射：
//   - CodeClientAlreadyExist: user_id 冲突
//   - CodeRelationTargetMiss: 随行关系目标客户不存在
func (s *clientServiceImpl) CreateClient(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientItem, error) {
	avatarFile := s.resolver.Default()
	if req.AvatarUrl != "" {
		resolved, err := s.resolver.Resolve(ctx, req.AvatarUrl, req.UserId)
		if err != nil {
			// 头像拉不下来不阻塞创建，降级默认头像
			logger.Warn(ctx, "头像解析失败，使用默认头像",
				logger.String("user_id", req.UserId),
				logger.String("avatar_url", req.AvatarUrl),
				logger.ErrorField("error", err),
			)
		} else {
			avatarFile = resolved
		}
	}

	client := &model.Client{
		UserId:             req.UserId,
		Name:               req.Name,
		Nickname:           req.Nickname,
		Avatar:             avatarFile,
		GroupName:          req.GroupName,
		OpenForConnections: req.OpenForConnections,
		IsReached:          req.IsReached,
		HowHardToReach:     req.HowHardToReach,
		Priority:           req.Priority,
		Status:             1,
		ParameterOne:       req.ParameterOne,
		ParameterTwo:       req.ParameterTwo,
		ParameterThree:     req.ParameterThree,
	}

	var err error
	if len(req.OtherRelations) > 0 {
		err = s.clientRepo.CreateWithRelations(ctx, client, req.OtherRelations)
	} else {
		err = s.clientRepo.Create(ctx, client)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, utils.NewBizError(consts.CodeClientAlreadyExist)
		}
		if errors.Is(err, repository.ErrRelationTargetMissing) {
			return nil, utils.NewBizError(consts.CodeRelationTargetMiss)
		}
		return nil, err
	}

	return toClientItem(client), nil
}

// GetClient 按业务主键获取客户
func (s *clientServiceImpl) GetClient(ctx context.Context, userId string) (*dto.ClientItem, error) {
	client, err := s.clientRepo.GetByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, utils.NewBizError(consts.CodeClientNotFound)
	}
	return toClientItem(client), nil
}

// UpdateClient 按内部 id 部分更新客户，nil 字段不覆盖
func (s *clientServiceImpl) UpdateClient(ctx context.Context, clientId int64, req *dto.UpdateClientRequest) error {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.GroupName != nil {
		updates["group_name"] = *req.GroupName
	}
	if req.OpenForConnections != nil {
		updates["open_for_connections"] = *req.OpenForConnections
	}
	if req.IsReached != nil {
		updates["is_reached"] = *req.IsReached
	}
	if req.HowHardToReach != nil {
		updates["how_hard_to_reach"] = *req.HowHardToReach
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.ParameterOne != nil {
		updates["parameter_one"] = *req.ParameterOne
	}
	if req.ParameterTwo != nil {
		updates["parameter_two"] = *req.ParameterTwo
	}
	if req.ParameterThree != nil {
		updates["parameter_three"] = *req.ParameterThree
	}

	// 全空请求不落库，直接成功
	if len(updates) == 0 {
		return nil
	}

	if err := s.clientRepo.UpdateFields(ctx, clientId, updates); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return utils.NewBizError(consts.CodeClientNotFound)
		}
		return err
	}
	return nil
}

// DeleteClient 按内部 id 删除客户
// 引用该客户的关系不级联清理，联查类接口会自然跳过悬空关系
func (s *clientServiceImpl) DeleteClient(ctx context.Context, clientId int64) error {
	if err := s.clientRepo.Delete(ctx, clientId); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return utils.NewBizError(consts.CodeClientNotFound)
		}
		return err
	}
	return nil
}
