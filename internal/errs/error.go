package errs

import (
	"errors"
)

// 定义统一的错误类型
var (
	ErrInvalidRequest = errors.New("请求参数错误")

	ErrUnknownChannel   = errors.New("未知的通知渠道")
	ErrDuplicateChannel = errors.New("渠道重复注册")

	ErrTemplateNotFound  = errors.New("模板不存在")
	ErrTemplateDuplicate = errors.New("模板记录唯一索引冲突")

	ErrRateLimited = errors.New("已达到速率限制")
	ErrSendFailed  = errors.New("发送通知失败")
	ErrTimeout     = errors.New("发送超时")

	ErrAuditAppendFailed = errors.New("写入审计日志失败")
	ErrAuditLogNotFound  = errors.New("审计日志不存在")
)
