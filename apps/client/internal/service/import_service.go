package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"ReachServer/apps/client/internal/dto"
	"ReachServer/apps/client/internal/repository"
	"ReachServer/apps/client/internal/utils"
	"ReachServer/consts"
	"ReachServer/model"
	"ReachServer/pkg/avatar"
	"ReachServer/pkg/logger"
	"ReachServer/pkg/util"
)

// importColumnCount CSV 每行最少列数
// 列序：avatarUrl, nickname, name, userId, openForConnections, isReached,
// howHardToReach, priority, parameterOne, parameterTwo, parameterThree, otherRelationIds
const importColumnCount = 12

// pendingRelation 第一阶段记下的待建关系：from 客户已落库，to 列表延后解析
type pendingRelation struct {
	fromUserId string
	toUserIds  []string
}

// importServiceImpl 批量导入服务实现
type importServiceImpl struct {
	clientRepo   repository.IClientRepository
	relationRepo repository.IRelationRepository
	resolver     avatar.Resolver
}

// NewImportService 创建导入服务实例
func NewImportService(
	clientRepo repository.IClientRepository,
	relationRepo repository.IRelationRepository,
	resolver avatar.Resolver,
) IImportService {
	return &importServiceImpl{
		clientRepo:   clientRepo,
		relationRepo: relationRepo,
		resolver:     resolver,
	}
}

// ImportClients 从 CSV 流批量导入客户与关系
// 业务流程：
//  1. 第一阶段逐行落客户：重复 user_id 记日志跳过；头像解析失败降级默认头像；
//     行内关系目标此时可能还没导入，先记到 pending 列表
//  2. 第二阶段统一补建关系：目标客户仍不存在的边静默丢弃
//
// 列数不足的行视为文件格式错误，中断剩余行（已提交的行保留）。
// 每个批次分配一个雪花批次号，本批所有日志都带该批次号。
func (s *importServiceImpl) ImportClients(ctx context.Context, groupName string, file io.Reader) (*dto.ImportClientsResponse, error) {
	batchId := strconv.FormatInt(util.NextId(), 10)

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // 列数自己校验，短行要报业务错误而不是 csv 解析错误

	// 表头行丢弃
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			// 空文件：没有任何数据行，按成功返回
			return &dto.ImportClientsResponse{
				BatchId: batchId,
				Message: consts.GetMessage(consts.CodeSuccess),
			}, nil
		}
		logger.Error(ctx, "CSV 表头读取失败",
			logger.String("batch_id", batchId),
			logger.ErrorField("error", err),
		)
		return nil, utils.NewBizError(consts.CodeFileReadError)
	}

	// ==================== 第一阶段：逐行落客户 ====================

	var pending []pendingRelation
	rowNum := 1 // 数据行号（表头不计）
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error(ctx, "CSV 行读取失败，中断导入",
				logger.String("batch_id", batchId),
				logger.Int("row", rowNum),
				logger.ErrorField("error", err),
			)
			return nil, utils.NewBizError(consts.CodeFileReadError)
		}
		if len(row) < importColumnCount {
			logger.Warn(ctx, "CSV 行列数不足，中断剩余行",
				logger.String("batch_id", batchId),
				logger.Int("row", rowNum),
				logger.Int("columns", len(row)),
			)
			return nil, utils.NewBizError(consts.CodeCSVColumnsTooFew)
		}

		client, toUserIds := s.parseRow(ctx, row, groupName, batchId)

		if err := s.clientRepo.Create(ctx, client); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				logger.Info(ctx, "客户已存在，跳过该行",
					logger.String("batch_id", batchId),
					logger.Int("row", rowNum),
					logger.String("user_id", client.UserId),
				)
			} else {
				logger.Error(ctx, "客户落库失败，跳过该行",
					logger.String("batch_id", batchId),
					logger.Int("row", rowNum),
					logger.String("user_id", client.UserId),
					logger.ErrorField("error", err),
				)
			}
			rowNum++
			continue
		}

		if len(toUserIds) > 0 {
			pending = append(pending, pendingRelation{
				fromUserId: client.UserId,
				toUserIds:  toUserIds,
			})
		}
		rowNum++
	}

	// ==================== 第二阶段：统一补建关系 ====================

	s.resolvePending(ctx, pending, batchId)

	return &dto.ImportClientsResponse{
		BatchId: batchId,
		Message: consts.GetMessage(consts.CodeSuccess),
	}, nil
}

// parseRow 解析单个数据行，返回客户模型与该行声明的外向关系目标列表。
// 字段解析全部 fail-soft：非法枚举置空/置否，非法数字置 0。
func (s *importServiceImpl) parseRow(ctx context.Context, row []string, groupName, batchId string) (*model.Client, []string) {
	avatarUrl := strings.TrimSpace(row[0])
	userId := strings.TrimSpace(row[3])

	avatarFile := s.resolver.Default()
	if avatarUrl != "" {
		resolved, err := s.resolver.Resolve(ctx, avatarUrl, userId)
		if err != nil {
			logger.Warn(ctx, "头像解析失败，使用默认头像",
				logger.String("batch_id", batchId),
				logger.String("user_id", userId),
				logger.String("avatar_url", avatarUrl),
				logger.ErrorField("error", err),
			)
		} else {
			avatarFile = resolved
		}
	}

	client := &model.Client{
		UserId:             userId,
		Nickname:           strings.TrimSpace(row[1]),
		Name:               strings.TrimSpace(row[2]),
		Avatar:             avatarFile,
		GroupName:          groupName,
		OpenForConnections: parseOpenness(row[4]),
		IsReached:          parseYesNo(row[5]),
		HowHardToReach:     parseIntSoft(row[6]),
		Priority:           parseIntSoft(row[7]),
		Status:             1,
		ParameterOne:       strings.TrimSpace(row[8]),
		ParameterTwo:       strings.TrimSpace(row[9]),
		ParameterThree:     strings.TrimSpace(row[10]),
	}

	var toUserIds []string
	for _, raw := range strings.Split(row[11], ",") {
		if id := strings.TrimSpace(raw); id != "" {
			toUserIds = append(toUserIds, id)
		}
	}

	return client, toUserIds
}

// resolvePending 第二阶段：逐条解析待建关系。
// 目标客户不存在的边静默丢弃（debug 级日志），单边落库失败只记日志不中断。
func (s *importServiceImpl) resolvePending(ctx context.Context, pending []pendingRelation, batchId string) {
	for _, p := range pending {
		for _, toUserId := range p.toUserIds {
			target, err := s.clientRepo.GetByUserId(ctx, toUserId)
			if err != nil {
				logger.Error(ctx, "关系目标查询失败，丢弃该边",
					logger.String("batch_id", batchId),
					logger.String("from", p.fromUserId),
					logger.String("to", toUserId),
					logger.ErrorField("error", err),
				)
				continue
			}
			if target == nil {
				logger.Debug(ctx, "关系目标客户不存在，丢弃该边",
					logger.String("batch_id", batchId),
					logger.String("from", p.fromUserId),
					logger.String("to", toUserId),
				)
				continue
			}

			relation := &model.Relation{
				FromClientId: p.fromUserId,
				ToClientId:   toUserId,
				Status:       1,
			}
			if err := s.relationRepo.Create(ctx, relation); err != nil {
				logger.Error(ctx, "关系落库失败，丢弃该边",
					logger.String("batch_id", batchId),
					logger.String("from", p.fromUserId),
					logger.String("to", toUserId),
					logger.ErrorField("error", err),
				)
			}
		}
	}
}

// parseOpenness 解析三态枚举（YES/NO/UNKNOWN，不区分大小写），非法值置空
func parseOpenness(raw string) *model.Openness {
	var v model.Openness
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "YES":
		v = model.OpennessYes
	case "NO":
		v = model.OpennessNo
	case "UNKNOWN":
		v = model.OpennessUnknown
	default:
		return nil
	}
	return &v
}

// parseYesNo 解析布尔枚举（YES/NO，不区分大小写），非法值视为否
func parseYesNo(raw string) int8 {
	if strings.EqualFold(strings.TrimSpace(raw), "YES") {
		return 1
	}
	return 0
}

// parseIntSoft 解析整数，失败置 0
func parseIntSoft(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
