package v1

import (
	"strconv"
	"strings"

	"ReachServer/apps/client/internal/dto"
	"ReachServer/apps/client/internal/middleware"
	"ReachServer/apps/client/internal/service"
	"ReachServer/apps/client/internal/utils"
	"ReachServer/consts"
	"ReachServer/pkg/logger"
	"ReachServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// ClientHandler 客户处理器
type ClientHandler struct {
	clientService service.IClientService
	importService service.IImportService
}

// NewClientHandler 创建客户处理器
// clientService: 客户服务
// importService: 批量导入服务
func NewClientHandler(clientService service.IClientService, importService service.IImportService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		importService: importService,
	}
}

// ListClients 客户列表接口
// @Summary 分页获取客户列表
// @Tags 客户接口
// @Produce json
// @Param skip query int false "偏移量"
// @Param limit query int false "每页数量"
// @Success 200 {object} dto.ListClientsResponse
// @Router /api/v1/clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.ListClientsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	resp, err := h.clientService.ListClients(ctx, &req)
	if err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "获取客户列表服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, resp)
}

// CreateClient 创建客户接口
// @Summary 创建客户（可携带头像来源 URL 与随行关系）
// @Tags 客户接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.ClientItem
// @Router /api/v1/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	item, err := h.clientService.CreateClient(ctx, &req)
	if err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "创建客户服务内部错误",
			logger.String("user_id", req.UserId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, item)
}

// ImportClients 批量导入接口
// @Summary 上传 CSV 批量导入客户与关系
// @Tags 客户接口
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV 文件"
// @Param group_name query string false "导入分组名"
// @Success 200 {object} dto.ImportClientsResponse
// @Router /api/v1/clients/file [post]
func (h *ClientHandler) ImportClients(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	groupName := c.Query("group_name")

	// 1. 解析上传的文件
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		logger.Warn(ctx, "无法读取上传的文件",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeParamError)
		return
	}
	defer file.Close()

	// 2. 验证文件类型（只接受 .csv）
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		logger.Warn(ctx, "不支持的文件类型",
			logger.String("filename", header.Filename),
		)
		result.Fail(c, nil, consts.CodeFileTypeNotAllowed)
		return
	}

	// 3. 执行两阶段导入
	resp, err := h.importService.ImportClients(ctx, groupName, file)
	if err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "批量导入服务内部错误",
			logger.String("filename", header.Filename),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, resp)
}

// GetClient 获取客户接口
// @Summary 按业务主键获取客户
// @Tags 客户接口
// @Produce json
// @Param id path string true "客户业务主键 user_id"
// @Success 200 {object} dto.ClientItem
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	userId := c.Param("id")
	if userId == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	item, err := h.clientService.GetClient(ctx, userId)
	if err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "获取客户服务内部错误",
			logger.String("user_id", userId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, item)
}

// UpdateClient 更新客户接口
// @Summary 按内部 id 部分更新客户
// @Tags 客户接口
// @Accept json
// @Produce json
// @Param id path int true "客户内部 id"
// @Success 200 {object} nil
// @Router /api/v1/clients/{id} [patch]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	clientId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || clientId <= 0 {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := h.clientService.UpdateClient(ctx, clientId, &req); err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "更新客户服务内部错误",
			logger.Int64("client_id", clientId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, nil)
}

// DeleteClient 删除客户接口
// @Summary 按内部 id 删除客户
// @Tags 客户接口
// @Produce json
// @Param id path int true "客户内部 id"
// @Success 200 {object} nil
// @Router /api/v1/clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	clientId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || clientId <= 0 {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	if err := h.clientService.DeleteClient(ctx, clientId); err != nil {
		if consts.IsNonServerError(utils.ExtractErrorCode(err)) {
			result.Fail(c, nil, utils.ExtractErrorCode(err))
			return
		}

		logger.Error(ctx, "删除客户服务内部错误",
			logger.Int64("client_id", clientId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, nil)
}
