package cache

import (
	"fmt"

	"gitee.com/flycash/notifyhub/internal/domain"
	ca "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found")

// TemplateCache 模板的本地缓存，降低分发热路径上的数据库压力。
// 模板变更走管理接口，变更时同步失效。
type TemplateCache struct {
	c *ca.Cache
}

func NewTemplateCache(c *ca.Cache) *TemplateCache {
	return &TemplateCache{c: c}
}

func Key(channel domain.Channel, code, locale string) string {
	return fmt.Sprintf("template:%s:%s:%s", channel, code, locale)
}

func (t *TemplateCache) Get(channel domain.Channel, code, locale string) (domain.ChannelTemplate, error) {
	v, ok := t.c.Get(Key(channel, code, locale))
	if !ok {
		return domain.ChannelTemplate{}, ErrKeyNotFound
	}
	return v.(domain.ChannelTemplate), nil
}

func (t *TemplateCache) Set(tmpl domain.ChannelTemplate) {
	t.c.SetDefault(Key(tmpl.Channel, tmpl.Code, tmpl.Locale), tmpl)
}

func (t *TemplateCache) Del(channel domain.Channel, code, locale string) {
	t.c.Delete(Key(channel, code, locale))
}
