package channel

import (
	"fmt"
	"strings"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/errs"
	"github.com/hashicorp/go-multierror"
)

// Registry 渠道注册表。启动时由 (渠道, 发送器) 列表显式构建，
// 重复注册和默认渠道缺失都是启动期错误，构建之后只读。
type Registry struct {
	senders        map[string]Sender
	defaultChannel domain.Channel
}

// NewRegistry 构建渠道注册表。所有配置错误一次性收集后返回。
func NewRegistry(defaultChannel domain.Channel, senders []Sender) (*Registry, error) {
	var errList *multierror.Error

	m := make(map[string]Sender, len(senders))
	for _, s := range senders {
		key := strings.ToLower(string(s.Channel()))
		if key == "" {
			errList = multierror.Append(errList, fmt.Errorf("%w: 发送器未声明渠道", errs.ErrInvalidRequest))
			continue
		}
		if _, ok := m[key]; ok {
			errList = multierror.Append(errList, fmt.Errorf("%w: %s", errs.ErrDuplicateChannel, key))
			continue
		}
		m[key] = s
	}

	if _, ok := m[strings.ToLower(string(defaultChannel))]; !ok {
		errList = multierror.Append(errList,
			fmt.Errorf("%w: 默认渠道 %q 未注册", errs.ErrUnknownChannel, defaultChannel))
	}

	if err := errList.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &Registry{senders: m, defaultChannel: defaultChannel}, nil
}

// DefaultChannel 配置的默认渠道，构建时已校验存在
func (r *Registry) DefaultChannel() domain.Channel {
	return r.defaultChannel
}

// Resolve 按渠道名查找发送器，忽略大小写
func (r *Registry) Resolve(name string) (Sender, error) {
	s, ok := r.senders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownChannel, name)
	}
	return s, nil
}
