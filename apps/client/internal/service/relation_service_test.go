package service

import (
	"context"
	"testing"

	"ReachServer/apps/client/internal/dto"
	"ReachServer/apps/client/internal/repository"
	"ReachServer/consts"
	"ReachServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationServiceCreateRelation(t *testing.T) {
	initServiceTestLogger()

	clients := map[string]*model.Client{
		"zs": {Id: 1, UserId: "u1", Name: "张三", Nickname: "zs", Avatar: "u1.jpg"},
		"ls": {Id: 2, UserId: "u2", Name: "李四", Nickname: "ls", Avatar: "u2.jpg"},
	}

	t.Run("success", func(t *testing.T) {
		clientRepo := &fakeClientRepository{
			getByNicknameFn: func(_ context.Context, nickname string) (*model.Client, error) {
				return clients[nickname], nil
			},
		}
		var created *model.Relation
		relationRepo := &fakeRelationRepository{
			createFn: func(_ context.Context, relation *model.Relation) error {
				relation.Id = 100
				created = relation
				return nil
			},
		}
		svc := NewRelationService(clientRepo, relationRepo)

		item, err := svc.CreateRelation(context.Background(), &dto.CreateRelationRequest{
			FromClientNickname: "zs",
			ToClientNickname:   "ls",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "u1", created.FromClientId)
		assert.Equal(t, "u2", created.ToClientId)
		assert.Equal(t, int64(100), item.Id)
		assert.Equal(t, "张三", item.FromClientName)
		assert.Equal(t, "u2.jpg", item.ToClientAvatar)
	})

	t.Run("missing_endpoint_persists_nothing", func(t *testing.T) {
		clientRepo := &fakeClientRepository{
			getByNicknameFn: func(_ context.Context, nickname string) (*model.Client, error) {
				return clients[nickname], nil
			},
		}
		var createCalls int
		relationRepo := &fakeRelationRepository{
			createFn: func(_ context.Context, _ *model.Relation) error {
				createCalls++
				return nil
			},
		}
		svc := NewRelationService(clientRepo, relationRepo)

		item, err := svc.CreateRelation(context.Background(), &dto.CreateRelationRequest{
			FromClientNickname: "zs",
			ToClientNickname:   "ghost",
		})
		assert.Nil(t, item)
		requireBizCode(t, err, consts.CodeRelationEndpoint)
		assert.Zero(t, createCalls)
	})
}

func TestRelationServiceDeleteRelation(t *testing.T) {
	initServiceTestLogger()

	t.Run("not_found", func(t *testing.T) {
		relationRepo := &fakeRelationRepository{
			deleteFn: func(_ context.Context, _ int64) error {
				return repository.ErrRecordNotFound
			},
		}
		svc := NewRelationService(&fakeClientRepository{}, relationRepo)
		requireBizCode(t, svc.DeleteRelation(context.Background(), 404), consts.CodeRelationNotFound)
	})

	t.Run("success", func(t *testing.T) {
		relationRepo := &fakeRelationRepository{
			deleteFn: func(_ context.Context, id int64) error {
				require.Equal(t, int64(100), id)
				return nil
			},
		}
		svc := NewRelationService(&fakeClientRepository{}, relationRepo)
		require.NoError(t, svc.DeleteRelation(context.Background(), 100))
	})
}

func TestRelationServiceGetClientRelationsClientMissing(t *testing.T) {
	initServiceTestLogger()

	svc := NewRelationService(&fakeClientRepository{}, &fakeRelationRepository{})

	resp, err := svc.GetClientRelations(context.Background(), "ghost", &dto.ClientRelationsRequest{})
	assert.Nil(t, resp)
	requireBizCode(t, err, consts.CodeClientNotFound)
}

func TestRelationServiceGetClientRelationsBareClient(t *testing.T) {
	initServiceTestLogger()

	clientRepo := &fakeClientRepository{
		getByUserIdFn: func(_ context.Context, userId string) (*model.Client, error) {
			return &model.Client{Id: 1, UserId: userId, Name: "张三"}, nil
		},
	}
	var listCalls int
	relationRepo := &fakeRelationRepository{
		countTouchingFn: func(_ context.Context, _ string) (int64, error) {
			return 0, nil
		},
		listTouchingFn: func(_ context.Context, _ string, _ int64, _, _ int) ([]*model.RelationWithClients, error) {
			listCalls++
			return nil, nil
		},
	}
	svc := NewRelationService(clientRepo, relationRepo)

	resp, err := svc.GetClientRelations(context.Background(), "u1", &dto.ClientRelationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.Client.UserId)
	assert.Empty(t, resp.Data)
	assert.Zero(t, resp.Count)
	// 总数为 0 时不应再发起任何关系查询
	assert.Zero(t, listCalls)
}

// TestRelationServiceGetClientRelationsTwoHop 验证两跳展开的端到端形状：
// A-B、B-C、A-D 三条边，查 A 时一跳为 A-B 与 A-D；
// A-B 节点的二跳为 B 的关系去掉 A-B 自身（只剩 B-C），
// A-D 节点的二跳为空。
func TestRelationServiceGetClientRelationsTwoHop(t *testing.T) {
	initServiceTestLogger()

	edgeAB := &model.RelationWithClients{Id: 1, FromClientId: "A", ToClientId: "B"}
	edgeBC := &model.RelationWithClients{Id: 2, FromClientId: "B", ToClientId: "C"}
	edgeAD := &model.RelationWithClients{Id: 3, FromClientId: "A", ToClientId: "D"}

	touching := map[string][]*model.RelationWithClients{
		"A": {edgeAB, edgeAD},
		"B": {edgeAB, edgeBC},
		"C": {edgeBC},
		"D": {edgeAD},
	}

	clientRepo := &fakeClientRepository{
		getByUserIdFn: func(_ context.Context, userId string) (*model.Client, error) {
			return &model.Client{UserId: userId}, nil
		},
	}
	relationRepo := &fakeRelationRepository{
		countTouchingFn: func(_ context.Context, userId string) (int64, error) {
			return int64(len(touching[userId])), nil
		},
		listTouchingFn: func(_ context.Context, userId string, excludeId int64, offset, limit int) ([]*model.RelationWithClients, error) {
			var rows []*model.RelationWithClients
			for _, row := range touching[userId] {
				if excludeId > 0 && row.Id == excludeId {
					continue
				}
				rows = append(rows, row)
			}
			if offset > 0 && offset < len(rows) {
				rows = rows[offset:]
			}
			if limit > 0 && limit < len(rows) {
				rows = rows[:limit]
			}
			return rows, nil
		},
	}
	svc := NewRelationService(clientRepo, relationRepo)

	resp, err := svc.GetClientRelations(context.Background(), "A", &dto.ClientRelationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Count)
	require.Len(t, resp.Data, 2)

	// 一跳 A-B：二跳只剩 B-C（父边 A-B 被排除）
	nodeAB := resp.Data[0]
	assert.Equal(t, int64(1), nodeAB.Id)
	require.Len(t, nodeAB.Relations, 1)
	assert.Equal(t, int64(2), nodeAB.Relations[0].Id)
	assert.Equal(t, "C", nodeAB.Relations[0].ToClientId)

	// 一跳 A-D：D 只有这一条边，二跳为空
	nodeAD := resp.Data[1]
	assert.Equal(t, int64(3), nodeAD.Id)
	assert.Empty(t, nodeAD.Relations)
}

func TestRelationServiceGetClientRelationsPagination(t *testing.T) {
	initServiceTestLogger()

	clientRepo := &fakeClientRepository{
		getByUserIdFn: func(_ context.Context, userId string) (*model.Client, error) {
			return &model.Client{UserId: userId}, nil
		},
	}
	var gotOffset, gotLimit int
	relationRepo := &fakeRelationRepository{
		countTouchingFn: func(_ context.Context, _ string) (int64, error) {
			return 50, nil
		},
		listTouchingFn: func(_ context.Context, userId string, excludeId int64, offset, limit int) ([]*model.RelationWithClients, error) {
			// 只校验一跳查询的分页参数
			if excludeId == 0 {
				gotOffset, gotLimit = offset, limit
			}
			return nil, nil
		},
	}
	svc := NewRelationService(clientRepo, relationRepo)

	resp, err := svc.GetClientRelations(context.Background(), "A", &dto.ClientRelationsRequest{Skip: 20, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(50), resp.Count)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, 10, gotLimit)
}
