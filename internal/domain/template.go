package domain

import (
	"fmt"
	"strings"
	"time"

	"gitee.com/flycash/notifyhub/internal/errs"
)

// ChannelTemplate 渠道模板，业务唯一键为 (渠道, 编码, 语言)
type ChannelTemplate struct {
	ID      int64
	Channel Channel // 所属渠道
	Code    string  // 模板编码
	Locale  string  // 语言
	Subject string  // 标题模板，部分渠道可以为空
	Body    string  // 正文模板
	Active  bool    // 是否启用，停用的模板视为不存在
	Ctime   time.Time
	Utime   time.Time
}

func (t ChannelTemplate) Validate() error {
	if t.Channel == "" {
		return fmt.Errorf("%w: Channel = %q", errs.ErrInvalidRequest, t.Channel)
	}
	if strings.TrimSpace(t.Code) == "" {
		return fmt.Errorf("%w: Code = %q", errs.ErrInvalidRequest, t.Code)
	}
	if t.Locale == "" {
		return fmt.Errorf("%w: Locale = %q", errs.ErrInvalidRequest, t.Locale)
	}
	if strings.TrimSpace(t.Body) == "" {
		return fmt.Errorf("%w: Body 不能为空", errs.ErrInvalidRequest)
	}
	return nil
}
