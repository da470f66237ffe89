package extension

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowscan/bitwise"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is an extension that logs raw value loads, sets and attribute mutations for debugging.
// An instance serves a single repository.
type Logger[TKey comparable] struct {
	attached         atomic.Bool
	logger           *zerolog.Logger
	identifier       string
	layerIdentifiers []string
	layerLoadStartAt map[layerTrace]time.Time
	layerSetStartAt  map[layerTrace]time.Time
	mu               sync.Mutex
}

// a trace on a single layer, set operations run on every layer with the same trace ID
type layerTrace struct {
	traceID    uint64
	layerIndex int
}

// Create a new logger extension, the global zerolog logger is used when logger is nil
func NewLogger[TKey comparable](logger *zerolog.Logger) *Logger[TKey] {
	return &Logger[TKey]{
		logger:           logger,
		layerLoadStartAt: make(map[layerTrace]time.Time),
		layerSetStartAt:  make(map[layerTrace]time.Time),
	}
}

func (e *Logger[TKey]) Name() string    { return "Logger" }
func (e *Logger[TKey]) Version() string { return "1.0.0" }

func (e *Logger[TKey]) log() *zerolog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return &log.Logger
}

func (e *Logger[TKey]) InitializationHook(identifier string, layers []bitwise.Layer[TKey]) error {
	if !e.attached.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", ErrAttached, identifier)
	}
	e.identifier = identifier
	e.layerIdentifiers = make([]string, len(layers))
	for i, layer := range layers {
		e.layerIdentifiers[i] = layer.Identifier()
	}
	e.log().Debug().Str("store", identifier).Strs("layers", e.layerIdentifiers).Msg("repository initialized")
	return nil
}

func (e *Logger[TKey]) PreLoadHook(traceID uint64, keys []TKey) {
	e.log().Debug().Str("store", e.identifier).Uint64("trace", traceID).Msgf("loading start: %v", keys)
}

func (e *Logger[TKey]) PostLoadHook(traceID uint64, keys []TKey, values []bitwise.Raw, errors []error) {
	e.log().Debug().Str("store", e.identifier).Uint64("trace", traceID).Msgf("loading finish: %v (errors: %v)", values, errors)
}

func (e *Logger[TKey]) LayerPreLoadHook(traceID uint64, layerIndex int, keys []TKey) {
	e.mu.Lock()
	e.layerLoadStartAt[layerTrace{traceID, layerIndex}] = time.Now()
	e.mu.Unlock()
	e.log().Debug().Str("store", e.identifier).Uint64("trace", traceID).Msgf("loading start at layer %v: %v", e.layerIdentifiers[layerIndex], keys)
}

func (e *Logger[TKey]) LayerPostLoadHook(traceID uint64, layerIndex int, keys []TKey, values []bitwise.Raw, errors []error) {
	e.mu.Lock()
	startAt := e.layerLoadStartAt[layerTrace{traceID, layerIndex}]
	delete(e.layerLoadStartAt, layerTrace{traceID, layerIndex})
	e.mu.Unlock()
	e.log().Debug().
		Str("store", e.identifier).
		Uint64("trace", traceID).
		Dur("time", time.Since(startAt)).
		Msgf("loading finish from layer %v: %v (errors: %v)", e.layerIdentifiers[layerIndex], values, errors)
}

func (e *Logger[TKey]) LayerPreSetHook(traceID uint64, layerIndex int, keys []TKey, values []bitwise.Raw) {
	e.mu.Lock()
	e.layerSetStartAt[layerTrace{traceID, layerIndex}] = time.Now()
	e.mu.Unlock()
	e.log().Debug().Str("store", e.identifier).Uint64("trace", traceID).Msgf("setting start at layer %v: keys: %v values: %v", e.layerIdentifiers[layerIndex], keys, values)
}

func (e *Logger[TKey]) LayerPostSetHook(traceID uint64, layerIndex int, keys []TKey, values []bitwise.Raw, errors []error) {
	e.mu.Lock()
	startAt := e.layerSetStartAt[layerTrace{traceID, layerIndex}]
	delete(e.layerSetStartAt, layerTrace{traceID, layerIndex})
	e.mu.Unlock()
	e.log().Debug().
		Str("store", e.identifier).
		Uint64("trace", traceID).
		Dur("time", time.Since(startAt)).
		Msgf("setting finish at layer %v: keys: %v values: %v errors: %v", e.layerIdentifiers[layerIndex], keys, values, errors)
}

func (e *Logger[TKey]) MutationHook(mutation bitwise.Mutation) {
	var event *zerolog.Event
	if mutation.Err != nil {
		event = e.log().Warn().Err(mutation.Err)
	} else {
		event = e.log().Debug()
	}
	event.
		Str("group", mutation.Group).
		Str("op", mutation.Op).
		Uint64("before", uint64(mutation.Before)).
		Uint64("after", uint64(mutation.After)).
		Msg("flag group mutated")
}
