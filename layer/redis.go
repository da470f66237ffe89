package layer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/flowscan/bitwise"
	"github.com/mediocregopher/radix/v3"
	"github.com/rs/zerolog/log"
)

// Configuration for the redis layer
type RedisConfig struct {
	// The duration of the stored values, set 0 to disable expiration
	Retention time.Duration

	// Connection to redis
	Connection radix.Client

	// Key prefix to be used in redis keys
	KeyPrefix string
}

// Redis layer stores raw values as decimal strings through a radix client
type Redis[TKey comparable] struct {
	config RedisConfig
}

// Create a new radix backed redis layer
func NewRedis[TKey comparable](config RedisConfig) *Redis[TKey] {
	return &Redis[TKey]{config: config}
}

// Unique identifier for this layer used for logging and metric purposes
func (l *Redis[TKey]) Identifier() string { return "redis" }

// The function that will be used to resolve a set of keys
func (l *Redis[TKey]) Get(keys []TKey) ([]bitwise.Raw, []error) {
	keysCount := len(keys)
	result := make([]bitwise.Raw, keysCount)
	errors := make([]error, keysCount)
	if keysCount == 0 {
		return result, errors
	}

	cacheBuffer := make([][]byte, keysCount)
	if err := l.config.Connection.Do(radix.Cmd(&cacheBuffer, "MGET", stringifyKeys(keys, l.config.KeyPrefix)...)); err != nil {
		fillArray(errors, err)
		return result, errors
	}
	for i, k := range keys {
		if cacheBuffer[i] == nil {
			errors[i] = bitwise.NewErrNotFound(k)
			continue
		}
		result[i], errors[i] = parseRaw(string(cacheBuffer[i]))
	}
	return result, errors
}

// The function that will be called to store values, MSET and PEXPIRE run in a single pipeline
func (l *Redis[TKey]) Set(keys []TKey, values []bitwise.Raw) []error {
	count := len(keys)
	errors := make([]error, count)
	if count == 0 {
		return errors
	}

	keysString := stringifyKeys(keys, l.config.KeyPrefix)
	cacheArguments := make([]string, 0, 2*count)
	for i, key := range keysString {
		cacheArguments = append(cacheArguments, key, formatRaw(values[i]))
	}
	commands := []radix.CmdAction{radix.Cmd(nil, "MSET", cacheArguments...)}

	if l.config.Retention > 0 {
		// an expiry of 0 deletes the key, keep at least one millisecond
		milliseconds := strconv.FormatInt(max(l.config.Retention.Milliseconds(), 1), 10)
		for _, key := range keysString {
			commands = append(commands, radix.Cmd(nil, "PEXPIRE", key, milliseconds))
		}
	}
	if err := l.config.Connection.Do(radix.Pipeline(commands...)); err != nil {
		log.Err(err).Str("layer", l.Identifier()).Msg("failed to store raw values")
		fillArray(errors, err)
	}
	return errors
}

func stringifyKeys[TKey comparable](keys []TKey, prefix string) []string {
	return mapFn(keys, func(input TKey) string {
		return fmt.Sprintf("%s%v", prefix, input)
	})
}

func formatRaw(value bitwise.Raw) string {
	return strconv.FormatUint(uint64(value), 10)
}

func parseRaw(value string) (bitwise.Raw, error) {
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", bitwise.ErrInvalidValue, value)
	}
	return bitwise.Raw(v), nil
}

func mapFn[T1 any, T2 any](arr []T1, fn func(input T1) T2) []T2 {
	newArr := make([]T2, len(arr))
	for i, v := range arr {
		newArr[i] = fn(v)
	}
	return newArr
}

func fillArray[T any](arr []T, value T) []T {
	for i := range arr {
		arr[i] = value
	}
	return arr
}
