package ratelimit

import "context"

//go:generate mockgen -source=./types.go -package=limitmocks -destination=./mocks/limiter.mock.go Limiter
type Limiter interface {
	// Limit 判断 key 对应的请求是否应该限流，返回 true 表示拒绝
	Limit(ctx context.Context, key string) (bool, error)
}
