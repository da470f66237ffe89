package bitwise

import "sync/atomic"

// Repository stores the raw values of one flag group, keyed by record
type Repository[TKey comparable] struct {
	// identifier for this repository
	identifier string

	// raw value layers in this repository
	layers []Layer[TKey]

	// trace counter for trace ID assignment
	traceCounter uint64

	// default flags
	defaultLoadFlags LoadFlag
	defaultSetFlags  SetFlag

	// hooks
	initializationHooks []InitializationHookExtension[TKey]
	preLoadHooks        []PreLoadHookExtension[TKey]
	postLoadHooks       []PostLoadHookExtension[TKey]
	layerPreLoadHooks   []LayerPreLoadHookExtension[TKey]
	layerPostLoadHooks  []LayerPostLoadHookExtension[TKey]
	preSetHooks         []PreSetHookExtension[TKey]
	postSetHooks        []PostSetHookExtension[TKey]
	layerPreSetHooks    []LayerPreSetHookExtension[TKey]
	layerPostSetHooks   []LayerPostSetHookExtension[TKey]
}

func (r *Repository[TKey]) getTraceID() uint64 {
	return atomic.AddUint64(&r.traceCounter, 1)
}

// Create a new raw value repository with the given configuration
func New[TKey comparable](config Config[TKey]) (*Repository[TKey], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := &Repository[TKey]{
		identifier:       config.Identifier,
		layers:           config.Layers,
		defaultLoadFlags: config.DefaultLoadFlags,
		defaultSetFlags:  config.DefaultSetFlags,
	}

	r.registerExtensions(config.Extensions)

	// execute initialization hooks
	for _, hook := range r.initializationHooks {
		err := hook.InitializationHook(r.identifier, r.layers)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Identifier of this repository
func (r *Repository[TKey]) Identifier() string { return r.identifier }

// Record returns the raw value store of a single record
func (r *Repository[TKey]) Record(key TKey) RawStore {
	return &record[TKey]{repository: r, key: key}
}

func (r *Repository[TKey]) registerExtensions(extensions []Extension) {
	for _, ext := range extensions {
		if ext, ok := ext.(InitializationHookExtension[TKey]); ok {
			r.initializationHooks = append(r.initializationHooks, ext)
		}
		if ext, ok := ext.(PreLoadHookExtension[TKey]); ok {
			r.preLoadHooks = append(r.preLoadHooks, ext)
		}
		if ext, ok := ext.(PostLoadHookExtension[TKey]); ok {
			r.postLoadHooks = append(r.postLoadHooks, ext)
		}
		if ext, ok := ext.(LayerPreLoadHookExtension[TKey]); ok {
			r.layerPreLoadHooks = append(r.layerPreLoadHooks, ext)
		}
		if ext, ok := ext.(LayerPostLoadHookExtension[TKey]); ok {
			r.layerPostLoadHooks = append(r.layerPostLoadHooks, ext)
		}
		if ext, ok := ext.(PreSetHookExtension[TKey]); ok {
			r.preSetHooks = append(r.preSetHooks, ext)
		}
		if ext, ok := ext.(PostSetHookExtension[TKey]); ok {
			r.postSetHooks = append(r.postSetHooks, ext)
		}
		if ext, ok := ext.(LayerPreSetHookExtension[TKey]); ok {
			r.layerPreSetHooks = append(r.layerPreSetHooks, ext)
		}
		if ext, ok := ext.(LayerPostSetHookExtension[TKey]); ok {
			r.layerPostSetHooks = append(r.layerPostSetHooks, ext)
		}
	}
}
