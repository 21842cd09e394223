package utils

import (
	"errors"
	"strconv"

	"ReachServer/consts"
)

// BizError 业务错误，携带业务错误码在 service 与 handler 之间传递。
// 非业务错误（数据库、网络等）不应包装成 BizError，由 handler 统一
// 记日志并返回 CodeInternalError。
type BizError struct {
	Code int32
}

func (e *BizError) Error() string {
	return strconv.Itoa(int(e.Code))
}

// NewBizError 创建业务错误
func NewBizError(code int32) error {
	return &BizError{Code: code}
}

// ExtractErrorCode 提取业务错误码，非 BizError 一律视为内部错误
func ExtractErrorCode(err error) int32 {
	if err == nil {
		return consts.CodeSuccess
	}

	var bizErr *BizError
	if errors.As(err, &bizErr) {
		return bizErr.Code
	}

	return consts.CodeInternalError
}
