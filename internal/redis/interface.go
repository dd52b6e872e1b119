package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the slot repository needs. A *redis.Client
// satisfies it.
type Client interface {
	redis.Cmdable
	Close() error
}
