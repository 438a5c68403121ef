package repository

import (
	"context"
	"errors"
	"time"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/repository/cache"
	"gitee.com/flycash/notifyhub/internal/repository/dao"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

// ChannelTemplateRepository 提供模板数据存储的仓库接口
type ChannelTemplateRepository interface {
	// GetByChannelCodeLocale 按业务唯一键查询启用中的模板
	GetByChannelCodeLocale(ctx context.Context, channel domain.Channel, code, locale string) (domain.ChannelTemplate, error)
	// FindActiveByChannel 获取渠道下所有启用中的模板
	FindActiveByChannel(ctx context.Context, channel domain.Channel) ([]domain.ChannelTemplate, error)
	// Create 创建模板
	Create(ctx context.Context, template domain.ChannelTemplate) (domain.ChannelTemplate, error)
	// Update 更新模板
	Update(ctx context.Context, template domain.ChannelTemplate) error
	// Deactivate 停用模板
	Deactivate(ctx context.Context, template domain.ChannelTemplate) error
	// WarmUp 并发预热各渠道的模板缓存
	WarmUp(ctx context.Context, channels []domain.Channel) error
}

type channelTemplateRepository struct {
	d      dao.ChannelTemplateDAO
	cache  *cache.TemplateCache
	logger *elog.Component
}

// NewChannelTemplateRepository 创建模板仓库实例
func NewChannelTemplateRepository(d dao.ChannelTemplateDAO, c *cache.TemplateCache) ChannelTemplateRepository {
	return &channelTemplateRepository{
		d:      d,
		cache:  c,
		logger: elog.DefaultLogger,
	}
}

func (r *channelTemplateRepository) GetByChannelCodeLocale(ctx context.Context, channel domain.Channel, code, locale string) (domain.ChannelTemplate, error) {
	if tmpl, err := r.cache.Get(channel, code, locale); err == nil {
		return tmpl, nil
	} else if !errors.Is(err, cache.ErrKeyNotFound) {
		r.logger.Warn("读取模板缓存失败", elog.Any("err", err))
	}

	data, err := r.d.GetByChannelCodeLocale(ctx, string(channel), code, locale)
	if err != nil {
		return domain.ChannelTemplate{}, err
	}
	tmpl := r.toDomain(data)
	r.cache.Set(tmpl)
	return tmpl, nil
}

func (r *channelTemplateRepository) FindActiveByChannel(ctx context.Context, channel domain.Channel) ([]domain.ChannelTemplate, error) {
	list, err := r.d.FindActiveByChannel(ctx, string(channel))
	if err != nil {
		return nil, err
	}
	templates := make([]domain.ChannelTemplate, 0, len(list))
	for i := range list {
		templates = append(templates, r.toDomain(list[i]))
	}
	return templates, nil
}

func (r *channelTemplateRepository) Create(ctx context.Context, template domain.ChannelTemplate) (domain.ChannelTemplate, error) {
	data, err := r.d.Create(ctx, r.toEntity(template))
	if err != nil {
		return domain.ChannelTemplate{}, err
	}
	created := r.toDomain(data)
	r.cache.Set(created)
	return created, nil
}

func (r *channelTemplateRepository) Update(ctx context.Context, template domain.ChannelTemplate) error {
	if err := r.d.Update(ctx, r.toEntity(template)); err != nil {
		return err
	}
	r.cache.Del(template.Channel, template.Code, template.Locale)
	return nil
}

func (r *channelTemplateRepository) Deactivate(ctx context.Context, template domain.ChannelTemplate) error {
	if err := r.d.Deactivate(ctx, template.ID); err != nil {
		return err
	}
	r.cache.Del(template.Channel, template.Code, template.Locale)
	return nil
}

// WarmUp 并发加载各渠道启用中的模板到本地缓存
func (r *channelTemplateRepository) WarmUp(ctx context.Context, channels []domain.Channel) error {
	var eg errgroup.Group
	for _, channel := range channels {
		channel := channel
		eg.Go(func() error {
			templates, err := r.FindActiveByChannel(ctx, channel)
			if err != nil {
				return err
			}
			for i := range templates {
				r.cache.Set(templates[i])
			}
			return nil
		})
	}
	return eg.Wait()
}

func (r *channelTemplateRepository) toDomain(data dao.ChannelTemplate) domain.ChannelTemplate {
	return domain.ChannelTemplate{
		ID:      data.ID,
		Channel: domain.Channel(data.Channel),
		Code:    data.Code,
		Locale:  data.Locale,
		Subject: data.Subject,
		Body:    data.Body,
		Active:  data.Active,
		Ctime:   time.UnixMilli(data.Ctime),
		Utime:   time.UnixMilli(data.Utime),
	}
}

func (r *channelTemplateRepository) toEntity(template domain.ChannelTemplate) dao.ChannelTemplate {
	return dao.ChannelTemplate{
		ID:      template.ID,
		Channel: string(template.Channel),
		Code:    template.Code,
		Locale:  template.Locale,
		Subject: template.Subject,
		Body:    template.Body,
		Active:  template.Active,
	}
}
