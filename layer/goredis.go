package layer

import (
	"context"
	"time"

	"github.com/flowscan/bitwise"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Configuration for the go-redis layer
type GoRedisConfig struct {
	// The duration of the stored values, set 0 to disable expiration
	Retention time.Duration

	// Timeout of a single Get or Set call, set 0 to disable
	Timeout time.Duration

	// Client to redis, cluster and sentinel clients are supported
	Client redis.UniversalClient

	// Key prefix to be used in redis keys
	KeyPrefix string
}

// GoRedis layer stores raw values as decimal strings through a go-redis client
type GoRedis[TKey comparable] struct {
	config GoRedisConfig
}

func NewGoRedis[TKey comparable](config GoRedisConfig) *GoRedis[TKey] {
	return &GoRedis[TKey]{config: config}
}

// Unique identifier for this layer used for logging and metric purposes
func (l *GoRedis[TKey]) Identifier() string { return "goredis" }

func (l *GoRedis[TKey]) Get(keys []TKey) ([]bitwise.Raw, []error) {
	result := make([]bitwise.Raw, len(keys))
	errors := make([]error, len(keys))
	if len(keys) == 0 {
		return result, errors
	}

	ctx, cancel := l.context()
	defer cancel()

	stored, err := l.config.Client.MGet(ctx, stringifyKeys(keys, l.config.KeyPrefix)...).Result()
	if err != nil {
		fillArray(errors, err)
		return result, errors
	}
	for i, k := range keys {
		value, ok := stored[i].(string)
		if !ok {
			errors[i] = bitwise.NewErrNotFound(k)
			continue
		}
		result[i], errors[i] = parseRaw(value)
	}
	return result, errors
}

func (l *GoRedis[TKey]) Set(keys []TKey, values []bitwise.Raw) []error {
	errors := make([]error, len(keys))
	if len(keys) == 0 {
		return errors
	}

	ctx, cancel := l.context()
	defer cancel()

	keysString := stringifyKeys(keys, l.config.KeyPrefix)
	_, err := l.config.Client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keysString {
			pipe.Set(ctx, key, formatRaw(values[i]), l.config.Retention)
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("layer", l.Identifier()).Msg("failed to store raw values")
		fillArray(errors, err)
	}
	return errors
}

func (l *GoRedis[TKey]) context() (context.Context, context.CancelFunc) {
	if l.config.Timeout > 0 {
		return context.WithTimeout(context.Background(), l.config.Timeout)
	}
	return context.WithCancel(context.Background())
}
