package repository

import (
	"context"
	"fmt"
	"time"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/errs"
	"gitee.com/flycash/notifyhub/internal/repository/dao"
	"github.com/sony/sonyflake"
)

// AuditLogRepository 审计日志仓库，只追加
type AuditLogRepository interface {
	// Append 追加一条审计日志
	Append(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error)
	// GetByNotificationID 按分发关联ID查询
	GetByNotificationID(ctx context.Context, notificationID string) (domain.AuditLog, error)
	// FindByRecipient 按接收者查询
	FindByRecipient(ctx context.Context, recipient string, offset, limit int) ([]domain.AuditLog, error)
	// FindByStatusBetween 按状态和发送时间范围查询
	FindByStatusBetween(ctx context.Context, status domain.SendStatus, startTime, endTime time.Time, offset, limit int) ([]domain.AuditLog, error)
}

type auditLogRepository struct {
	d           dao.AuditLogDAO
	idGenerator *sonyflake.Sonyflake
}

// NewAuditLogRepository 创建审计日志仓库实例
func NewAuditLogRepository(d dao.AuditLogDAO, idGenerator *sonyflake.Sonyflake) AuditLogRepository {
	return &auditLogRepository{
		d:           d,
		idGenerator: idGenerator,
	}
}

func (r *auditLogRepository) Append(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error) {
	id, err := r.idGenerator.NextID()
	if err != nil {
		return domain.AuditLog{}, fmt.Errorf("%w: 生成ID失败: %w", errs.ErrAuditAppendFailed, err)
	}
	entry.ID = int64(id)

	data, err := r.d.Create(ctx, r.toEntity(entry))
	if err != nil {
		return domain.AuditLog{}, err
	}
	return r.toDomain(data), nil
}

func (r *auditLogRepository) GetByNotificationID(ctx context.Context, notificationID string) (domain.AuditLog, error) {
	data, err := r.d.GetByNotificationID(ctx, notificationID)
	if err != nil {
		return domain.AuditLog{}, err
	}
	return r.toDomain(data), nil
}

func (r *auditLogRepository) FindByRecipient(ctx context.Context, recipient string, offset, limit int) ([]domain.AuditLog, error) {
	list, err := r.d.FindByRecipient(ctx, recipient, offset, limit)
	if err != nil {
		return nil, err
	}
	return r.toDomainList(list), nil
}

func (r *auditLogRepository) FindByStatusBetween(ctx context.Context, status domain.SendStatus, startTime, endTime time.Time, offset, limit int) ([]domain.AuditLog, error) {
	list, err := r.d.FindByStatusBetween(ctx, status.String(), startTime.UnixMilli(), endTime.UnixMilli(), offset, limit)
	if err != nil {
		return nil, err
	}
	return r.toDomainList(list), nil
}

func (r *auditLogRepository) toDomainList(list []dao.AuditLog) []domain.AuditLog {
	entries := make([]domain.AuditLog, 0, len(list))
	for i := range list {
		entries = append(entries, r.toDomain(list[i]))
	}
	return entries
}

func (r *auditLogRepository) toDomain(data dao.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		ID:             data.ID,
		NotificationID: data.NotificationID,
		Recipient:      data.Recipient,
		Channel:        domain.Channel(data.Channel),
		TemplateCode:   data.TemplateCode,
		Status:         domain.SendStatus(data.Status),
		ErrorMessage:   data.ErrorMessage,
		SentAt:         time.UnixMilli(data.SentAt),
		Ctime:          time.UnixMilli(data.Ctime),
	}
}

func (r *auditLogRepository) toEntity(entry domain.AuditLog) dao.AuditLog {
	return dao.AuditLog{
		ID:             entry.ID,
		NotificationID: entry.NotificationID,
		Recipient:      entry.Recipient,
		Channel:        string(entry.Channel),
		TemplateCode:   entry.TemplateCode,
		Status:         entry.Status.String(),
		ErrorMessage:   entry.ErrorMessage,
		SentAt:         entry.SentAt.UnixMilli(),
	}
}
