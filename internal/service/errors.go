package service

import (
	"emperror.dev/errors"
)

// 业务错误分类，处理器据此映射HTTP状态码
const (
	ErrWalletRequired = errors.Sentinel("请先连接钱包")
	ErrNotFound       = errors.Sentinel("资源不存在")
	ErrForbidden      = errors.Sentinel("无权操作")
	ErrConflict       = errors.Sentinel("操作冲突")
	ErrInvalidInput   = errors.Sentinel("参数无效")
)

// invalidInput 带说明的参数错误
func invalidInput(message string) error {
	return errors.WithMessage(ErrInvalidInput, message)
}

// notFound 带说明的不存在错误
func notFound(message string) error {
	return errors.WithMessage(ErrNotFound, message)
}
