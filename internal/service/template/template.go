package template

import (
	"context"
	"errors"
	"fmt"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/errs"
	"gitee.com/flycash/notifyhub/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

// Service 模板服务接口
//
//go:generate mockgen -source=./template.go -destination=./mocks/template.mock.go -package=templatemocks -typed Service
type Service interface {
	// Resolve 按 (编码, 语言, 渠道) 解析模板。
	// 精确匹配不存在且语言不是 en 时回退到 en，仍不存在返回 ErrTemplateNotFound。
	// 只回退一级，避免不可预期的回退链。
	Resolve(ctx context.Context, code, locale string, channel domain.Channel) (domain.ChannelTemplate, error)

	// Create 创建模板
	Create(ctx context.Context, template domain.ChannelTemplate) (domain.ChannelTemplate, error)
	// Update 更新模板内容
	Update(ctx context.Context, template domain.ChannelTemplate) error
	// Deactivate 停用模板
	Deactivate(ctx context.Context, template domain.ChannelTemplate) error
	// ListActiveByChannel 获取渠道下启用中的模板列表
	ListActiveByChannel(ctx context.Context, channel domain.Channel) ([]domain.ChannelTemplate, error)
}

type templateService struct {
	repo   repository.ChannelTemplateRepository
	logger *elog.Component
}

// NewService 创建模板服务实例
func NewService(repo repository.ChannelTemplateRepository) Service {
	return &templateService{
		repo:   repo,
		logger: elog.DefaultLogger,
	}
}

func (s *templateService) Resolve(ctx context.Context, code, locale string, channel domain.Channel) (domain.ChannelTemplate, error) {
	if locale == "" {
		locale = domain.DefaultLocale
	}

	tmpl, err := s.repo.GetByChannelCodeLocale(ctx, channel, code, locale)
	if err == nil {
		return tmpl, nil
	}
	if !errors.Is(err, errs.ErrTemplateNotFound) || locale == domain.DefaultLocale {
		return domain.ChannelTemplate{}, err
	}

	s.logger.Debug("模板精确匹配失败，回退到默认语言",
		elog.String("code", code),
		elog.String("locale", locale),
		elog.String("channel", string(channel)))
	return s.repo.GetByChannelCodeLocale(ctx, channel, code, domain.DefaultLocale)
}

func (s *templateService) Create(ctx context.Context, template domain.ChannelTemplate) (domain.ChannelTemplate, error) {
	if template.Locale == "" {
		template.Locale = domain.DefaultLocale
	}
	template.Active = true
	if err := template.Validate(); err != nil {
		return domain.ChannelTemplate{}, err
	}
	return s.repo.Create(ctx, template)
}

func (s *templateService) Update(ctx context.Context, template domain.ChannelTemplate) error {
	if template.ID <= 0 {
		return fmt.Errorf("%w: ID = %d", errs.ErrInvalidRequest, template.ID)
	}
	if err := template.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, template)
}

func (s *templateService) Deactivate(ctx context.Context, template domain.ChannelTemplate) error {
	if template.ID <= 0 {
		return fmt.Errorf("%w: ID = %d", errs.ErrInvalidRequest, template.ID)
	}
	return s.repo.Deactivate(ctx, template)
}

func (s *templateService) ListActiveByChannel(ctx context.Context, channel domain.Channel) ([]domain.ChannelTemplate, error) {
	return s.repo.FindActiveByChannel(ctx, channel)
}
