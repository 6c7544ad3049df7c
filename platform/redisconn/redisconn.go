// Package redisconn builds Redis connection options from a redis:// or
// rediss:// URL for both go-redis clients and asynq.
package redisconn

import (
	"crypto/tls"
	"fmt"

	"sakkanal_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// Options parses url. tlsInsecure skips certificate verification, enabling
// TLS when the URL did not.
func Options(url string, tlsInsecure bool) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

// New creates a go-redis client for the configured Redis.
func New(cfg config.SchedulerConfig) (*redis.Client, error) {
	opt, err := Options(cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
