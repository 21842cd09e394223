package v1

import (
	"strconv"

	"ReachServer/apps/client/internal/dto"
	"ReachServer/apps/client/internal/middleware"
	"ReachServer/apps/client/internal/service"
	"ReachServer/apps/client/internal/utils"
	"ReachServer/consts"
	"ReachServer/pkg/logger"
	"ReachServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// RelationHandler 关系处理器
type RelationHandler struct {
	relationService service.IRelationService
}

// NewRelationHandler 创建关系处理器
func NewRelationHandler(relationService service.IRelationService) *RelationHandler {
	return &RelationHandler{
		relationService: relationService,
	}
}

// ListRelations 关系列表接口
// @Summary 分页获取关系列表（含两端客户快照）
// @Tags 关系接口
// @Produce json
// @Param skip query int false "偏移量"
// @Param limit query int false "每页数量"
// @Success 200 {object} dto.ListRelationsResponse
// @Router /api/v1/relations [get]
func (h *RelationHandler) ListRelations(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.ListRelationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	resp, err := h.relationService.ListRelations(ctx, &req)
	if err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "获取关系列表服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, resp)
}

// CreateRelation 创建关系接口
// @Summary 按两端昵称创建关系
// @Tags 关系接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.RelationItem
// @Router /api/v1/relations [post]
func (h *RelationHandler) CreateRelation(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.CreateRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	item, err := h.relationService.CreateRelation(ctx, &req)
	if err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "创建关系服务内部错误",
			logger.String("from", req.FromClientNickname),
			logger.String("to", req.ToClientNickname),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, item)
}

// DeleteRelation 删除关系接口
// @Summary 按 id 删除关系
// @Tags 关系接口
// @Produce json
// @Param relationId path int true "关系 id"
// @Success 200 {object} nil
// @Router /api/v1/relations/{relationId} [delete]
func (h *RelationHandler) DeleteRelation(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	relationId, err := strconv.ParseInt(c.Param("relationId"), 10, 64)
	if err != nil || relationId <= 0 {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := h.relationService.DeleteRelation(ctx, relationId); err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "删除关系服务内部错误",
			logger.Int64("relation_id", relationId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, nil)
}

// GetClientRelations 客户关系展开接口
// @Summary 客户关系两跳展开（一跳分页，二跳不分页且排除父边）
// @Tags 关系接口
// @Produce json
// @Param id path string true "客户业务主键 user_id"
// @Param skip query int false "一跳分页偏移"
// @Param limit query int false "一跳分页数量"
// @Success 200 {object} dto.ClientRelationsResponse
// @Router /api/v1/clients/{id}/relations [get]
func (h *RelationHandler) GetClientRelations(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	userId := c.Param("id")
	if userId == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	var req dto.ClientRelationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	resp, err := h.relationService.GetClientRelations(ctx, userId, &req)
	if err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "客户关系展开服务内部错误",
			logger.String("user_id", userId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, resp)
}
