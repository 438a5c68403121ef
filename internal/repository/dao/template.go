package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/notifyhub/internal/errs"
	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type ChannelTemplateDAO interface {
	// GetByChannelCodeLocale 按业务唯一键精确查询，只返回启用中的模板
	GetByChannelCodeLocale(ctx context.Context, channel, code, locale string) (ChannelTemplate, error)
	// FindActiveByChannel 获取渠道下所有启用中的模板
	FindActiveByChannel(ctx context.Context, channel string) ([]ChannelTemplate, error)
	// Create 创建模板
	Create(ctx context.Context, data ChannelTemplate) (ChannelTemplate, error)
	// Update 更新模板内容，刷新 utime
	Update(ctx context.Context, data ChannelTemplate) error
	// Deactivate 停用模板，不做物理删除
	Deactivate(ctx context.Context, id int64) error
}

// ChannelTemplate 渠道模板表
type ChannelTemplate struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Channel string `gorm:"type:VARCHAR(32);NOT NULL;uniqueIndex:idx_channel_code_locale,priority:1;comment:'所属渠道'"`
	Code    string `gorm:"type:VARCHAR(128);NOT NULL;uniqueIndex:idx_channel_code_locale,priority:2;comment:'模板编码'"`
	Locale  string `gorm:"type:VARCHAR(32);NOT NULL;uniqueIndex:idx_channel_code_locale,priority:3;comment:'语言'"`
	Subject string `gorm:"type:VARCHAR(512);comment:'标题模板'"`
	Body    string `gorm:"type:TEXT;NOT NULL;comment:'正文模板'"`
	Active  bool   `gorm:"NOT NULL;DEFAULT:1;comment:'是否启用'"`
	Ctime   int64
	Utime   int64
}

func (ChannelTemplate) TableName() string {
	return "channel_templates"
}

type channelTemplateDAO struct {
	db *egorm.Component
}

// NewChannelTemplateDAO 创建模板DAO实例
func NewChannelTemplateDAO(db *egorm.Component) ChannelTemplateDAO {
	return &channelTemplateDAO{db: db}
}

func (d *channelTemplateDAO) GetByChannelCodeLocale(ctx context.Context, channel, code, locale string) (ChannelTemplate, error) {
	var data ChannelTemplate
	err := d.db.WithContext(ctx).
		Where("channel = ? AND code = ? AND locale = ? AND active = ?", channel, code, locale, true).
		First(&data).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ChannelTemplate{}, fmt.Errorf("%w: channel=%s code=%s locale=%s",
				errs.ErrTemplateNotFound, channel, code, locale)
		}
		return ChannelTemplate{}, err
	}
	return data, nil
}

func (d *channelTemplateDAO) FindActiveByChannel(ctx context.Context, channel string) ([]ChannelTemplate, error) {
	var list []ChannelTemplate
	err := d.db.WithContext(ctx).
		Where("channel = ? AND active = ?", channel, true).
		Order("code, locale").
		Find(&list).Error
	return list, err
}

func (d *channelTemplateDAO) Create(ctx context.Context, data ChannelTemplate) (ChannelTemplate, error) {
	now := time.Now().UnixMilli()
	data.Ctime, data.Utime = now, now
	err := d.db.WithContext(ctx).Create(&data).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return ChannelTemplate{}, fmt.Errorf("%w: channel=%s code=%s locale=%s",
				errs.ErrTemplateDuplicate, data.Channel, data.Code, data.Locale)
		}
		return ChannelTemplate{}, err
	}
	return data, nil
}

func (d *channelTemplateDAO) Update(ctx context.Context, data ChannelTemplate) error {
	res := d.db.WithContext(ctx).Model(&ChannelTemplate{}).
		Where("id = ?", data.ID).
		Updates(map[string]any{
			"subject": data.Subject,
			"body":    data.Body,
			"active":  data.Active,
			"utime":   time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", errs.ErrTemplateNotFound, data.ID)
	}
	return nil
}

func (d *channelTemplateDAO) Deactivate(ctx context.Context, id int64) error {
	res := d.db.WithContext(ctx).Model(&ChannelTemplate{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"active": false,
			"utime":  time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", errs.ErrTemplateNotFound, id)
	}
	return nil
}

// isUniqueConstraintError 检查是否是唯一索引冲突错误
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	me := new(mysql.MySQLError)
	if ok := errors.As(err, &me); ok {
		const uniqueIndexErrNo uint16 = 1062
		return me.Number == uniqueIndexErrNo
	}
	return false
}
