package domain

import "time"

// SendStatus 分发结果状态
type SendStatus string

const (
	SendStatusSucceeded SendStatus = "SUCCESS"
	SendStatusFailed    SendStatus = "FAILED"
)

func (s SendStatus) String() string {
	return string(s)
}

// AuditLog 审计日志，每次分发恰好产生一条，写入之后不再修改。
// ID 是存储层主键，NotificationID 是分发时生成的关联ID，二者独立。
type AuditLog struct {
	ID             int64
	NotificationID string // 关联ID，分发时生成
	Recipient      string
	Channel        Channel
	TemplateCode   string
	Status         SendStatus
	ErrorMessage   string // 仅失败时有值
	SentAt         time.Time
	Ctime          time.Time
}
