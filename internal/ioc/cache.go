package ioc

import (
	"time"

	ca "github.com/patrickmn/go-cache"
)

func InitGoCache() *ca.Cache {
	const (
		defaultExpiration = 10 * time.Minute
		cleanupInterval   = 15 * time.Minute
	)
	return ca.New(defaultExpiration, cleanupInterval)
}
