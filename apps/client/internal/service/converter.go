package service

import (
	"ReachServer/apps/client/internal/dto"
	"ReachServer/model"
)

// toClientItem 模型转客户 DTO
func toClientItem(client *model.Client) *dto.ClientItem {
	return &dto.ClientItem{
		Id:                 client.Id,
		UserId:             client.UserId,
		Name:               client.Name,
		Nickname:           client.Nickname,
		Avatar:             client.Avatar,
		GroupName:          client.GroupName,
		OpenForConnections: client.OpenForConnections,
		IsReached:          client.IsReached,
		HowHardToReach:     client.HowHardToReach,
		Priority:           client.Priority,
		Status:             client.Status,
		ParameterOne:       client.ParameterOne,
		ParameterTwo:       client.ParameterTwo,
		ParameterThree:     client.ParameterThree,
	}
}

// toRelationItem 联查结果转关系 DTO
func toRelationItem(row *model.RelationWithClients) *dto.RelationItem {
	return &dto.RelationItem{
		Id:               row.Id,
		FromClientId:     row.FromClientId,
		ToClientId:       row.ToClientId,
		Status:           row.Status,
		FromClientName:   row.FromClientName,
		FromClientAvatar: row.FromClientAvatar,
		ToClientName:     row.ToClientName,
		ToClientAvatar:   row.ToClientAvatar,
	}
}

// toRelationItems 批量转换
func toRelationItems(rows []*model.RelationWithClients) []*dto.RelationItem {
	items := make([]*dto.RelationItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toRelationItem(row))
	}
	return items
}
