package template

import (
	"context"
	"fmt"
	"testing"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTemplateRepository 用 (channel, code, locale) 作为 key 的内存仓库
type fakeTemplateRepository struct {
	templates map[string]domain.ChannelTemplate
	lookups   []string
	nextID    int64
}

func newFakeTemplateRepository(templates ...domain.ChannelTemplate) *fakeTemplateRepository {
	repo := &fakeTemplateRepository{templates: make(map[string]domain.ChannelTemplate)}
	for _, tmpl := range templates {
		repo.templates[repo.key(tmpl.Channel, tmpl.Code, tmpl.Locale)] = tmpl
	}
	return repo
}

func (f *fakeTemplateRepository) key(channel domain.Channel, code, locale string) string {
	return fmt.Sprintf("%s:%s:%s", channel, code, locale)
}

func (f *fakeTemplateRepository) GetByChannelCodeLocale(_ context.Context, channel domain.Channel, code, locale string) (domain.ChannelTemplate, error) {
	key := f.key(channel, code, locale)
	f.lookups = append(f.lookups, key)
	tmpl, ok := f.templates[key]
	if !ok {
		return domain.ChannelTemplate{}, fmt.Errorf("%w: %s", errs.ErrTemplateNotFound, key)
	}
	return tmpl, nil
}

func (f *fakeTemplateRepository) FindActiveByChannel(_ context.Context, channel domain.Channel) ([]domain.ChannelTemplate, error) {
	var res []domain.ChannelTemplate
	for _, tmpl := range f.templates {
		if tmpl.Channel == channel && tmpl.Active {
			res = append(res, tmpl)
		}
	}
	return res, nil
}

func (f *fakeTemplateRepository) Create(_ context.Context, template domain.ChannelTemplate) (domain.ChannelTemplate, error) {
	key := f.key(template.Channel, template.Code, template.Locale)
	if _, ok := f.templates[key]; ok {
		return domain.ChannelTemplate{}, fmt.Errorf("%w: %s", errs.ErrTemplateDuplicate, key)
	}
	f.nextID++
	template.ID = f.nextID
	f.templates[key] = template
	return template, nil
}

func (f *fakeTemplateRepository) Update(_ context.Context, template domain.ChannelTemplate) error {
	key := f.key(template.Channel, template.Code, template.Locale)
	if _, ok := f.templates[key]; !ok {
		return fmt.Errorf("%w: %s", errs.ErrTemplateNotFound, key)
	}
	f.templates[key] = template
	return nil
}

func (f *fakeTemplateRepository) Deactivate(_ context.Context, template domain.ChannelTemplate) error {
	for key, tmpl := range f.templates {
		if tmpl.ID == template.ID {
			tmpl.Active = false
			f.templates[key] = tmpl
			return nil
		}
	}
	return fmt.Errorf("%w: ID = %d", errs.ErrTemplateNotFound, template.ID)
}

func (f *fakeTemplateRepository) WarmUp(_ context.Context, _ []domain.Channel) error {
	return nil
}

func TestService_Resolve(t *testing.T) {
	t.Parallel()

	welcomeEN := domain.ChannelTemplate{
		ID: 1, Channel: domain.ChannelEmail, Code: "welcome", Locale: "en",
		Subject: "Welcome", Body: "Hello {{name}}", Active: true,
	}
	welcomeZH := domain.ChannelTemplate{
		ID: 2, Channel: domain.ChannelEmail, Code: "welcome", Locale: "zh-CN",
		Subject: "欢迎", Body: "你好 {{name}}", Active: true,
	}

	testCases := []struct {
		name        string
		repo        *fakeTemplateRepository
		code        string
		locale      string
		wantID      int64
		wantLookups []string
		wantErr     error
	}{
		{
			name:        "精确匹配命中",
			repo:        newFakeTemplateRepository(welcomeEN, welcomeZH),
			code:        "welcome",
			locale:      "zh-CN",
			wantID:      2,
			wantLookups: []string{"email:welcome:zh-CN"},
		},
		{
			name:        "精确匹配失败回退到en",
			repo:        newFakeTemplateRepository(welcomeEN),
			code:        "welcome",
			locale:      "fr",
			wantID:      1,
			wantLookups: []string{"email:welcome:fr", "email:welcome:en"},
		},
		{
			name:        "空语言默认en且不二次查询",
			repo:        newFakeTemplateRepository(welcomeEN),
			code:        "welcome",
			locale:      "",
			wantID:      1,
			wantLookups: []string{"email:welcome:en"},
		},
		{
			name:        "请求en不存在只查一次",
			repo:        newFakeTemplateRepository(welcomeZH),
			code:        "welcome",
			locale:      "en",
			wantLookups: []string{"email:welcome:en"},
			wantErr:     errs.ErrTemplateNotFound,
		},
		{
			name:        "回退后仍然不存在",
			repo:        newFakeTemplateRepository(),
			code:        "missing",
			locale:      "fr",
			wantLookups: []string{"email:missing:fr", "email:missing:en"},
			wantErr:     errs.ErrTemplateNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(tc.repo)
			tmpl, err := svc.Resolve(context.Background(), tc.code, tc.locale, domain.ChannelEmail)

			assert.Equal(t, tc.wantLookups, tc.repo.lookups)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, tmpl.ID)
		})
	}
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	t.Run("创建成功并强制启用", func(t *testing.T) {
		t.Parallel()
		repo := newFakeTemplateRepository()
		svc := NewService(repo)

		created, err := svc.Create(context.Background(), domain.ChannelTemplate{
			Channel: domain.ChannelSMS,
			Code:    "otp",
			Body:    "验证码 {{code}}",
			Active:  false,
		})
		require.NoError(t, err)
		assert.True(t, created.Active)
		assert.Equal(t, domain.DefaultLocale, created.Locale)
		assert.Positive(t, created.ID)
	})

	t.Run("业务键冲突", func(t *testing.T) {
		t.Parallel()
		repo := newFakeTemplateRepository(domain.ChannelTemplate{
			ID: 1, Channel: domain.ChannelSMS, Code: "otp", Locale: "en",
			Body: "验证码 {{code}}", Active: true,
		})
		svc := NewService(repo)

		_, err := svc.Create(context.Background(), domain.ChannelTemplate{
			Channel: domain.ChannelSMS,
			Code:    "otp",
			Locale:  "en",
			Body:    "another body",
		})
		require.ErrorIs(t, err, errs.ErrTemplateDuplicate)
	})

	t.Run("非法模板被拒绝", func(t *testing.T) {
		t.Parallel()
		svc := NewService(newFakeTemplateRepository())

		_, err := svc.Create(context.Background(), domain.ChannelTemplate{
			Channel: domain.ChannelSMS,
		})
		require.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestService_UpdateAndDeactivate(t *testing.T) {
	t.Parallel()

	t.Run("更新缺少ID", func(t *testing.T) {
		t.Parallel()
		svc := NewService(newFakeTemplateRepository())
		err := svc.Update(context.Background(), domain.ChannelTemplate{
			Channel: domain.ChannelEmail, Code: "welcome", Locale: "en", Body: "hi",
		})
		require.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("停用后列表不再返回", func(t *testing.T) {
		t.Parallel()
		repo := newFakeTemplateRepository(domain.ChannelTemplate{
			ID: 1, Channel: domain.ChannelEmail, Code: "welcome", Locale: "en",
			Body: "Hello", Active: true,
		})
		svc := NewService(repo)

		err := svc.Deactivate(context.Background(), domain.ChannelTemplate{ID: 1})
		require.NoError(t, err)

		list, err := svc.ListActiveByChannel(context.Background(), domain.ChannelEmail)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
