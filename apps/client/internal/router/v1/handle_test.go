package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"ReachServer/apps/client/internal/dto"
	"ReachServer/apps/client/internal/utils"
	"ReachServer/consts"
	"ReachServer/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==================== 服务假实现 ====================

type fakeClientService struct {
	listClientsFn  func(context.Context, *dto.ListClientsRequest) (*dto.ListClientsResponse, error)
	createClientFn func(context.Context, *dto.CreateClientRequest) (*dto.ClientItem, error)
	getClientFn    func(context.Context, string) (*dto.ClientItem, error)
	updateClientFn func(context.Context, int64, *dto.UpdateClientRequest) error
	deleteClientFn func(context.Context, int64) error
}

func (f *fakeClientService) ListClients(ctx context.Context, req *dto.ListClientsRequest) (*dto.ListClientsResponse, error) {
	if f.listClientsFn == nil {
		return &dto.ListClientsResponse{}, nil
	}
	return f.listClientsFn(ctx, req)
}

func (f *fakeClientService) CreateClient(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientItem, error) {
	if f.createClientFn == nil {
		return &dto.ClientItem{}, nil
	}
	return f.createClientFn(ctx, req)
}

func (f *fakeClientService) GetClient(ctx context.Context, userId string) (*dto.ClientItem, error) {
	if f.getClientFn == nil {
		return &dto.ClientItem{}, nil
	}
	return f.getClientFn(ctx, userId)
}

func (f *fakeClientService) UpdateClient(ctx context.Context, clientId int64, req *dto.UpdateClientRequest) error {
	if f.updateClientFn == nil {
		return nil
	}
	return f.updateClientFn(ctx, clientId, req)
}

func (f *fakeClientService) DeleteClient(ctx context.Context, clientId int64) error {
	if f.deleteClientFn == nil {
		return nil
	}
	return f.deleteClientFn(ctx, clientId)
}

type fakeImportService struct {
	importClientsFn func(context.Context, string, io.Reader) (*dto.ImportClientsResponse, error)
}

func (f *fakeImportService) ImportClients(ctx context.Context, groupName string, file io.Reader) (*dto.ImportClientsResponse, error) {
	if f.importClientsFn == nil {
		return &dto.ImportClientsResponse{}, nil
	}
	return f.importClientsFn(ctx, groupName, file)
}

type fakeRelationService struct {
	listRelationsFn      func(context.Context, *dto.ListRelationsRequest) (*dto.ListRelationsResponse, error)
	createRelationFn     func(context.Context, *dto.CreateRelationRequest) (*dto.RelationItem, error)
	deleteRelationFn     func(context.Context, int64) error
	getClientRelationsFn func(context.Context, string, *dto.ClientRelationsRequest) (*dto.ClientRelationsResponse, error)
}

func (f *fakeRelationService) ListRelations(ctx context.Context, req *dto.ListRelationsRequest) (*dto.ListRelationsResponse, error) {
	if f.listRelationsFn == nil {
		return &dto.ListRelationsResponse{}, nil
	}
	return f.listRelationsFn(ctx, req)
}

func (f *fakeRelationService) CreateRelation(ctx context.Context, req *dto.CreateRelationRequest) (*dto.RelationItem, error) {
	if f.createRelationFn == nil {
		return &dto.RelationItem{}, nil
	}
	return f.createRelationFn(ctx, req)
}

func (f *fakeRelationService) DeleteRelation(ctx context.Context, relationId int64) error {
	if f.deleteRelationFn == nil {
		return nil
	}
	return f.deleteRelationFn(ctx, relationId)
}

func (f *fakeRelationService) GetClientRelations(ctx context.Context, userId string, req *dto.ClientRelationsRequest) (*dto.ClientRelationsResponse, error) {
	if f.getClientRelationsFn == nil {
		return &dto.ClientRelationsResponse{}, nil
	}
	return f.getClientRelationsFn(ctx, userId, req)
}

// ==================== 测试基础设施 ====================

type handlerResultBody struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

var handlerLoggerOnce sync.Once

func initHandlerLogger() {
	handlerLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
		gin.SetMode(gin.TestMode)
	})
}

func decodeHandlerBody(t *testing.T, w *httptest.ResponseRecorder) handlerResultBody {
	t.Helper()
	var body handlerResultBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newJSONRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newCSVUploadRequest(t *testing.T, target, fileName string, data []byte) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, target, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newTestEngine(clientSvc *fakeClientService, importSvc *fakeImportService, relationSvc *fakeRelationService) *gin.Engine {
	clientHandler := NewClientHandler(clientSvc, importSvc)
	relationHandler := NewRelationHandler(relationSvc)

	r := gin.New()
	api := r.Group("/api/v1")
	clients := api.Group("/clients")
	clients.GET("", clientHandler.ListClients)
	clients.POST("", clientHandler.CreateClient)
	clients.POST("/file", clientHandler.ImportClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PATCH("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)
	clients.GET("/:id/relations", relationHandler.GetClientRelations)
	relations := api.Group("/relations")
	relations.GET("", relationHandler.ListRelations)
	relations.POST("", relationHandler.CreateRelation)
	relations.DELETE("/:relationId", relationHandler.DeleteRelation)
	return r
}

// ==================== 客户接口 ====================

func TestClientHandlerGetClient(t *testing.T) {
	initHandlerLogger()

	tests := []struct {
		name     string
		getFn    func(context.Context, string) (*dto.ClientItem, error)
		wantCode int
	}{
		{
			name: "success",
			getFn: func(_ context.Context, userId string) (*dto.ClientItem, error) {
				assert.Equal(t, "u1", userId)
				return &dto.ClientItem{UserId: userId}, nil
			},
			wantCode: consts.CodeSuccess,
		},
		{
			name: "not_found_business_code",
			getFn: func(_ context.Context, _ string) (*dto.ClientItem, error) {
				return nil, utils.NewBizError(consts.CodeClientNotFound)
			},
			wantCode: consts.CodeClientNotFound,
		},
		{
			name: "internal_error_masked",
			getFn: func(_ context.Context, _ string) (*dto.ClientItem, error) {
				return nil, assert.AnError
			},
			wantCode: consts.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestEngine(&fakeClientService{getClientFn: tt.getFn}, &fakeImportService{}, &fakeRelationService{})

			w := httptest.NewRecorder()
			req, err := http.NewRequest(http.MethodGet, "/api/v1/clients/u1", nil)
			require.NoError(t, err)
			r.ServeHTTP(w, req)

			// 业务错误也走 200 + 信封错误码
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantCode, decodeHandlerBody(t, w).Code)
		})
	}
}

func TestClientHandlerCreateClient(t *testing.T) {
	initHandlerLogger()

	t.Run("success_passes_body_through", func(t *testing.T) {
		var gotReq *dto.CreateClientRequest
		clientSvc := &fakeClientService{
			createClientFn: func(_ context.Context, req *dto.CreateClientRequest) (*dto.ClientItem, error) {
				gotReq = req
				return &dto.ClientItem{UserId: req.UserId}, nil
			},
		}
		r := newTestEngine(clientSvc, &fakeImportService{}, &fakeRelationService{})

		w := httptest.NewRecorder()
		body := `{"userId":"u1","name":"张三","nickname":"zs","otherRelations":["u2"]}`
		r.ServeHTTP(w, newJSONRequest(t, http.MethodPost, "/api/v1/clients", body))

		assert.Equal(t, consts.CodeSuccess, decodeHandlerBody(t, w).Code)
		require.NotNil(t, gotReq)
		assert.Equal(t, []string{"u2"}, gotReq.OtherRelations)
	})

	t.Run("missing_required_field_rejected", func(t *testing.T) {
		var calls int
		clientSvc := &fakeClientService{
			createClientFn: func(_ context.Context, _ *dto.CreateClientRequest) (*dto.ClientItem, error) {
				calls++
				return nil, nil
			},
		}
		r := newTestEngine(clientSvc, &fakeImportService{}, &fakeRelationService{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newJSONRequest(t, http.MethodPost, "/api/v1/clients", `{"name":"张三"}`))

		assert.Equal(t, consts.CodeParamError, decodeHandlerBody(t, w).Code)
		assert.Zero(t, calls)
	})
}

func TestClientHandlerUpdateClient(t *testing.T) {
	initHandlerLogger()

	t.Run("numeric_id_required", func(t *testing.T) {
		r := newTestEngine(&fakeClientService{}, &fakeImportService{}, &fakeRelationService{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newJSONRequest(t, http.MethodPatch, "/api/v1/clients/not-a-number", `{"name":"x"}`))

		assert.Equal(t, consts.CodeParamError, decodeHandlerBody(t, w).Code)
	})

	t.Run("success", func(t *testing.T) {
		var gotId int64
		clientSvc := &fakeClientService{
			updateClientFn: func(_ context.Context, clientId int64, req *dto.UpdateClientRequest) error {
				gotId = clientId
				require.NotNil(t, req.Name)
				assert.Equal(t, "李四", *req.Name)
				return nil
			},
		}
		r := newTestEngine(clientSvc, &fakeImportService{}, &fakeRelationService{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newJSONRequest(t, http.MethodPatch, "/api/v1/clients/7", `{"name":"李四"}`))

		assert.Equal(t, consts.CodeSuccess, decodeHandlerBody(t, w).Code)
		assert.Equal(t, int64(7), gotId)
	})
}

func TestClientHandlerImportClients(t *testing.T) {
	initHandlerLogger()

	t.Run("non_csv_filename_rejected", func(t *testing.T) {
		var calls int
		importSvc := &fakeImportService{
			importClientsFn: func(_ context.Context, _ string, _ io.Reader) (*dto.ImportClientsResponse, error) {
				calls++
				return &dto.ImportClientsResponse{}, nil
			},
		}
		r := newTestEngine(&fakeClientService{}, importSvc, &fakeRelationService{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newCSVUploadRequest(t, "/api/v1/clients/file", "clients.xlsx", []byte("data")))

		assert.Equal(t, consts.CodeFileTypeNotAllowed, decodeHandlerBody(t, w).Code)
		assert.Zero(t, calls)
	})

	t.Run("group_name_and_file_forwarded", func(t *testing.T) {
		var gotGroup, gotContent string
		importSvc := &fakeImportService{
			importClientsFn: func(_ context.Context, groupName string, file io.Reader) (*dto.ImportClientsResponse, error) {
				gotGroup = groupName
				content, err := io.ReadAll(file)
				require.NoError(t, err)
				gotContent = string(content)
				return &dto.ImportClientsResponse{BatchId: "1"}, nil
			},
		}
		r := newTestEngine(&fakeClientService{}, importSvc, &fakeRelationService{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newCSVUploadRequest(t, "/api/v1/clients/file?group_name=vip", "Clients.CSV", []byte("header\n")))

		assert.Equal(t, consts.CodeSuccess, decodeHandlerBody(t, w).Code)
		assert.Equal(t, "vip", gotGroup)
		assert.Equal(t, "header\n", gotContent)
	})

	t.Run("missing_file_part", func(t *testing.T) {
		r := newTestEngine(&fakeClientService{}, &fakeImportService{}, &fakeRelationService{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, newJSONRequest(t, http.MethodPost, "/api/v1/clients/file", `{}`))

		assert.Equal(t, consts.CodeParamError, decodeHandlerBody(t, w).Code)
	})
}

// ==================== 关系接口 ====================

func TestRelationHandlerCreateRelation(t *testing.T) {
	initHandlerLogger()

	tests := []struct {
		name     string
		body     string
		createFn func(context.Context, *dto.CreateRelationRequest) (*dto.RelationItem, error)
		wantCode int
	}{
		{
			name: "success",
			body: `{"fromClientNickname":"zs","toClientNickname":"ls"}`,
			createFn: func(_ context.Context, req *dto.CreateRelationRequest) (*dto.RelationItem, error) {
				assert.Equal(t, "zs", req.FromClientNickname)
				return &dto.RelationItem{Id: 100}, nil
			},
			wantCode: consts.CodeSuccess,
		},
		{
			name:     "missing_nickname_rejected",
			body:     `{"fromClientNickname":"zs"}`,
			wantCode: consts.CodeParamError,
		},
		{
			name: "endpoint_not_found",
			body: `{"fromClientNickname":"zs","toClientNickname":"ghost"}`,
			createFn: func(_ context.Context, _ *dto.CreateRelationRequest) (*dto.RelationItem, error) {
				return nil, utils.NewBizError(consts.CodeRelationEndpoint)
			},
			wantCode: consts.CodeRelationEndpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relationSvc := &fakeRelationService{createRelationFn: tt.createFn}
			r := newTestEngine(&fakeClientService{}, &fakeImportService{}, relationSvc)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, newJSONRequest(t, http.MethodPost, "/api/v1/relations", tt.body))

			assert.Equal(t, tt.wantCode, decodeHandlerBody(t, w).Code)
		})
	}
}

func TestRelationHandlerGetClientRelations(t *testing.T) {
	initHandlerLogger()

	var gotUserId string
	var gotReq *dto.ClientRelationsRequest
	relationSvc := &fakeRelationService{
		getClientRelationsFn: func(_ context.Context, userId string, req *dto.ClientRelationsRequest) (*dto.ClientRelationsResponse, error) {
			gotUserId = userId
			gotReq = req
			return &dto.ClientRelationsResponse{
				Client: &dto.ClientItem{UserId: userId},
				Data:   []*dto.RelationNode{},
				Count:  0,
			}, nil
		},
	}
	r := newTestEngine(&fakeClientService{}, &fakeImportService{}, relationSvc)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/api/v1/clients/u1/relations?skip=5&limit=10", nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	body := decodeHandlerBody(t, w)
	assert.Equal(t, consts.CodeSuccess, body.Code)
	assert.Equal(t, "u1", gotUserId)
	require.NotNil(t, gotReq)
	assert.Equal(t, 5, gotReq.Skip)
	assert.Equal(t, 10, gotReq.Limit)
}

func TestRelationHandlerDeleteRelation(t *testing.T) {
	initHandlerLogger()

	t.Run("not_found", func(t *testing.T) {
		relationSvc := &fakeRelationService{
			deleteRelationFn: func(_ context.Context, _ int64) error {
				return utils.NewBizError(consts.CodeRelationNotFound)
			},
		}
		r := newTestEngine(&fakeClientService{}, &fakeImportService{}, relationSvc)

		w := httptest.NewRecorder()
		req, err := http.NewRequest(http.MethodDelete, "/api/v1/relations/404", nil)
		require.NoError(t, err)
		r.ServeHTTP(w, req)

		assert.Equal(t, consts.CodeRelationNotFound, decodeHandlerBody(t, w).Code)
	})

	t.Run("success", func(t *testing.T) {
		var gotId int64
		relationSvc := &fakeRelationService{
			deleteRelationFn: func(_ context.Context, relationId int64) error {
				gotId = relationId
				return nil
			},
		}
		r := newTestEngine(&fakeClientService{}, &fakeImportService{}, relationSvc)

		w := httptest.NewRecorder()
		req, err := http.NewRequest(http.MethodDelete, "/api/v1/relations/100", nil)
		require.NoError(t, err)
		r.ServeHTTP(w, req)

		assert.Equal(t, consts.CodeSuccess, decodeHandlerBody(t, w).Code)
		assert.Equal(t, int64(100), gotId)
	})
}
