package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/notifyhub/internal/errs"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type AuditLogDAO interface {
	// Create 追加一条审计日志
	Create(ctx context.Context, data AuditLog) (AuditLog, error)
	// GetByNotificationID 按关联ID查询
	GetByNotificationID(ctx context.Context, notificationID string) (AuditLog, error)
	// FindByRecipient 按接收者查询，按发送时间倒序
	FindByRecipient(ctx context.Context, recipient string, offset, limit int) ([]AuditLog, error)
	// FindByStatusBetween 按状态和发送时间范围查询，按发送时间倒序
	FindByStatusBetween(ctx context.Context, status string, startTime, endTime int64, offset, limit int) ([]AuditLog, error)
}

// AuditLog 审计日志表，只追加不更新。
// notification_id 由调用方生成，每次分发唯一，这里只建普通索引，
// 重复写入同一个关联ID不会报错。
type AuditLog struct {
	ID             int64  `gorm:"primaryKey;comment:'雪花算法ID'"`
	NotificationID string `gorm:"type:VARCHAR(64);NOT NULL;index:idx_notification_id;comment:'分发关联ID'"`
	Recipient      string `gorm:"type:VARCHAR(256);NOT NULL;index:idx_recipient;comment:'接收者'"`
	Channel        string `gorm:"type:VARCHAR(32);NOT NULL;comment:'实际使用的渠道'"`
	TemplateCode   string `gorm:"type:VARCHAR(128);comment:'模板编码'"`
	Status         string `gorm:"type:ENUM('SUCCESS','FAILED');NOT NULL;index:idx_status_sent_at,priority:1;comment:'最终状态'"`
	ErrorMessage   string `gorm:"type:TEXT;comment:'失败原因'"`
	SentAt         int64  `gorm:"index:idx_status_sent_at,priority:2;comment:'发送时间'"`
	Ctime          int64
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type auditLogDAO struct {
	db *egorm.Component
}

// NewAuditLogDAO 创建审计日志DAO实例
func NewAuditLogDAO(db *egorm.Component) AuditLogDAO {
	return &auditLogDAO{db: db}
}

func (d *auditLogDAO) Create(ctx context.Context, data AuditLog) (AuditLog, error) {
	data.Ctime = time.Now().UnixMilli()
	if err := d.db.WithContext(ctx).Create(&data).Error; err != nil {
		return AuditLog{}, fmt.Errorf("%w: %w", errs.ErrAuditAppendFailed, err)
	}
	return data, nil
}

func (d *auditLogDAO) GetByNotificationID(ctx context.Context, notificationID string) (AuditLog, error) {
	var data AuditLog
	err := d.db.WithContext(ctx).
		Where("notification_id = ?", notificationID).
		First(&data).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuditLog{}, fmt.Errorf("%w: notificationID=%s", errs.ErrAuditLogNotFound, notificationID)
		}
		return AuditLog{}, err
	}
	return data, nil
}

func (d *auditLogDAO) FindByRecipient(ctx context.Context, recipient string, offset, limit int) ([]AuditLog, error) {
	var list []AuditLog
	err := d.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("sent_at DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

func (d *auditLogDAO) FindByStatusBetween(ctx context.Context, status string, startTime, endTime int64, offset, limit int) ([]AuditLog, error) {
	var list []AuditLog
	err := d.db.WithContext(ctx).
		Where("status = ? AND sent_at BETWEEN ? AND ?", status, startTime, endTime).
		Order("sent_at DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}
