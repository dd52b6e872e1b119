package slots

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/battlebrain/internal/errors"
	redisclient "github.com/KirkDiggler/battlebrain/internal/redis"
)

const (
	// Key pattern: battlebrain:{namespace}:{slot}
	keyPrefix        = "battlebrain"
	defaultNamespace = "default"

	errKeyRequired = "slot key is required"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client

	// Namespace separates independent installations sharing one Redis
	Namespace string

	// TTL expires slots after the duration; zero keeps them forever
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.Field("Client", "client cannot be nil")
	}
	if c.TTL < 0 {
		vb.Field("TTL", "must not be negative")
	}

	return vb.Build()
}

type redisRepository struct {
	client    redisclient.Client
	namespace string
	ttl       time.Duration
}

// NewRedis creates a Redis-backed slot repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	return &redisRepository{
		client:    cfg.Client,
		namespace: namespace,
		ttl:       cfg.TTL,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	value, err := r.client.Get(ctx, r.buildKey(input.Key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("slot %s not found", input.Key)
		}
		return nil, errors.Wrapf(err, "failed to get slot %s from Redis", input.Key)
	}

	return &GetOutput{Value: value}, nil
}

func (r *redisRepository) Set(ctx context.Context, input *SetInput) (*SetOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	if err := r.client.Set(ctx, r.buildKey(input.Key), input.Value, r.ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store slot %s in Redis", input.Key)
	}

	return &SetOutput{}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.Key == "" {
		return nil, errors.InvalidArgument(errKeyRequired)
	}

	if err := r.client.Del(ctx, r.buildKey(input.Key)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete slot %s from Redis", input.Key)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) buildKey(slot string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, r.namespace, slot)
}
