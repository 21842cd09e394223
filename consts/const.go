package consts

// 通用错误码
const (
	CodeSuccess = 0 // 成功
)

// 客户端错误 (1xxxx)
const (
	CodeParamError       = 10001 // 参数验证失败
	CodeBodyError        = 10002 // 请求体格式错误
	CodeResourceNotFound = 10003 // 资源不存在
	CodeMethodNotAllowed = 10004 // 请求方法不允许
	CodeTooManyRequests  = 10005 // 请求过于频繁
	CodeBodyTooLarge     = 10006 // 请求体过大
)

// 客户模块错误 (11xxx)
const (
	CodeClientNotFound     = 11001 // 客户不存在
	CodeClientAlreadyExist = 11002 // 客户已存在
	CodeRelationTargetMiss = 11003 // 关系目标客户不存在
)

// 关系模块错误 (12xxx)
const (
	CodeRelationNotFound = 12001 // 关系不存在
	CodeRelationEndpoint = 12002 // 关系两端客户未找到
)

// 导入模块错误 (13xxx)
const (
	CodeFileTypeNotAllowed = 13001 // 文件类型不允许
	CodeCSVColumnsTooFew   = 13002 // CSV 行列数不足
	CodeFileReadError      = 13003 // 文件读取失败
)

// 服务端错误 (3xxxx)
const (
	CodeInternalError      = 30001 // 服务器内部错误
	CodeServiceUnavailable = 30002 // 服务暂不可用
)

// 错误消息映射
var CodeMessage = map[int32]string{
	CodeSuccess: "success",

	// 客户端错误
	CodeParamError:       "参数验证失败",
	CodeBodyError:        "请求体格式错误",
	CodeResourceNotFound: "资源不存在",
	CodeMethodNotAllowed: "请求方法不允许",
	CodeTooManyRequests:  "请求过于频繁",
	CodeBodyTooLarge:     "请求体过大",

	// 客户模块
	CodeClientNotFound:     "客户不存在",
	CodeClientAlreadyExist: "客户已存在",
	CodeRelationTargetMiss: "关系目标客户不存在",

	// 关系模块
	CodeRelationNotFound: "关系不存在",
	CodeRelationEndpoint: "关系两端客户未找到",

	// 导入模块
	CodeFileTypeNotAllowed: "只允许上传 .csv 文件",
	CodeCSVColumnsTooFew:   "CSV 行列数不足",
	CodeFileReadError:      "文件读取失败",

	// 服务端错误
	CodeInternalError:      "服务器内部错误",
	CodeServiceUnavailable: "服务暂不可用",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int32) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "未知错误"
}

// IsNonServerError 判断是否为业务/客户端错误（非 3xxxx 服务端错误）。
// 业务错误直接返回给调用方，不触发错误日志。
func IsNonServerError(code int32) bool {
	return code > 0 && code < CodeInternalError
}
