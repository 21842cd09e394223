package dto

import "ReachServer/model"

// ==================== 客户相关 DTO ====================

// ListClientsRequest 客户列表请求 DTO
type ListClientsRequest struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`            // 偏移量
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`  // 每页数量
}

// ListClientsResponse 客户列表响应 DTO
type ListClientsResponse struct {
	Data  []*ClientItem `json:"data"`  // 客户列表
	Count int64         `json:"count"` // 总数
}

// ClientItem 客户信息 DTO
type ClientItem struct {
	Id                 int64           `json:"id"`                 // 内部自增 id
	UserId             string          `json:"userId"`             // 业务主键
	Name               string          `json:"name"`               // 姓名
	Nickname           string          `json:"nickname"`           // 昵称
	Avatar             string          `json:"avatar"`             // 头像文件名
	GroupName          string          `json:"groupName"`          // 分组名
	OpenForConnections *model.Openness `json:"openForConnections"` // 是否愿意建联(0:否 1:是 2:未知 null:未填)
	IsReached          int8            `json:"isReached"`          // 是否已触达
	HowHardToReach     int             `json:"howHardToReach"`     // 触达难度
	Priority           int             `json:"priority"`           // 优先级
	Status             int8            `json:"status"`             // 状态
	ParameterOne       string          `json:"parameterOne"`       // 备用参数一
	ParameterTwo       string          `json:"parameterTwo"`       // 备用参数二
	ParameterThree     string          `json:"parameterThree"`     // 备用参数三
}

// CreateClientRequest 创建客户请求 DTO
type CreateClientRequest struct {
	UserId             string          `json:"userId" binding:"required,max=64"`   // 业务主键
	Name               string          `json:"name" binding:"required,max=128"`    // 姓名
	Nickname           string          `json:"nickname" binding:"required,max=128"` // 昵称
	AvatarUrl          string          `json:"avatarUrl" binding:"omitempty,url"`  // 头像来源 URL（解析失败降级为默认头像）
	GroupName          string          `json:"groupName" binding:"omitempty,max=64"`
	OpenForConnections *model.Openness `json:"openForConnections" binding:"omitempty,oneof=0 1 2"`
	IsReached          int8            `json:"isReached" binding:"omitempty,oneof=0 1"`
	HowHardToReach     int             `json:"howHardToReach"`
	Priority           int             `json:"priority"`
	ParameterOne       string          `json:"parameterOne" binding:"omitempty,max=255"`
	ParameterTwo       string          `json:"parameterTwo" binding:"omitempty,max=255"`
	ParameterThree     string          `json:"parameterThree" binding:"omitempty,max=255"`
	OtherRelations     []string        `json:"otherRelations"` // 外向关系目标业务主键，必须全部已存在
}

// UpdateClientRequest 更新客户请求 DTO（部分更新，nil 字段不覆盖）
type UpdateClientRequest struct {
	Name               *string         `json:"name" binding:"omitempty,max=128"`
	Nickname           *string         `json:"nickname" binding:"omitempty,max=128"`
	Avatar             *string         `json:"avatar" binding:"omitempty,max=255"`
	GroupName          *string         `json:"groupName" binding:"omitempty,max=64"`
	OpenForConnections *model.Openness `json:"openForConnections" binding:"omitempty,oneof=0 1 2"`
	IsReached          *int8           `json:"isReached" binding:"omitempty,oneof=0 1"`
	HowHardToReach     *int            `json:"howHardToReach"`
	Priority           *int            `json:"priority"`
	Status             *int8           `json:"status"`
	ParameterOne       *string         `json:"parameterOne" binding:"omitempty,max=255"`
	ParameterTwo       *string         `json:"parameterTwo" binding:"omitempty,max=255"`
	ParameterThree     *string         `json:"parameterThree" binding:"omitempty,max=255"`
}

// ImportClientsResponse 批量导入响应 DTO。
// 只返回批次号与确认消息，不做逐行成败上报（文档化限制），
// 逐行结果带着批次号进日志。
type ImportClientsResponse struct {
	BatchId string `json:"batchId"` // 导入批次号
	Message string `json:"message"` // 确认消息
}
