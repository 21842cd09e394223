package dto

// ==================== 关系相关 DTO ====================

// ListRelationsRequest 关系列表请求 DTO
type ListRelationsRequest struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`           // 偏移量
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"` // 每页数量
}

// ListRelationsResponse 关系列表响应 DTO
type ListRelationsResponse struct {
	Data  []*RelationItem `json:"data"`  // 关系列表（含两端客户快照）
	Count int64           `json:"count"` // 总数
}

// RelationItem 关系条目 DTO，两端客户信息随行展开
type RelationItem struct {
	Id               int64  `json:"id"`               // 关系 id
	FromClientId     string `json:"fromClientId"`     // 发起方业务主键
	ToClientId       string `json:"toClientId"`       // 接收方业务主键
	Status           int8   `json:"status"`           // 状态
	FromClientName   string `json:"fromClientName"`   // 发起方姓名
	FromClientAvatar string `json:"fromClientAvatar"` // 发起方头像
	ToClientName     string `json:"toClientName"`     // 接收方姓名
	ToClientAvatar   string `json:"toClientAvatar"`   // 接收方头像
}

// CreateRelationRequest 创建关系请求 DTO，按两端昵称定位客户
type CreateRelationRequest struct {
	FromClientNickname string `json:"fromClientNickname" binding:"required,max=128"` // 发起方昵称
	ToClientNickname   string `json:"toClientNickname" binding:"required,max=128"`   // 接收方昵称
}

// ClientRelationsRequest 客户关系展开请求 DTO
type ClientRelationsRequest struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`           // 一跳分页偏移
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"` // 一跳分页数量
}

// RelationNode 关系展开节点：一跳关系条目加上对端客户的全部二跳关系。
// 二跳列表排除本条一跳边自身，不分页。
type RelationNode struct {
	RelationItem
	Relations []*RelationItem `json:"relations"` // 对端客户的二跳关系
}

// ClientRelationsResponse 客户关系展开响应 DTO。
// 目标客户没有任何关系时 data 为空、count 为 0，client 仍然返回。
type ClientRelationsResponse struct {
	Client *ClientItem     `json:"client"` // 目标客户
	Data   []*RelationNode `json:"data"`   // 一跳关系（带二跳展开）
	Count  int64           `json:"count"`  // 一跳关系总数
}
