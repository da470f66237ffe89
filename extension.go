package bitwise

// Extension interface is the base interface used for extensions
type Extension interface {
	Name() string    // The extension name
	Version() string // The extension version
}

// Extensions that hook on repository initialization
type InitializationHookExtension[TKey comparable] interface {
	InitializationHook(identifier string, layers []Layer[TKey]) error
}

// Extensions that hook before a batched raw value load
type PreLoadHookExtension[TKey comparable] interface {
	PreLoadHook(traceID uint64, keys []TKey)
}

// Extensions that hook after a batched raw value load
type PostLoadHookExtension[TKey comparable] interface {
	PostLoadHook(traceID uint64, keys []TKey, values []Raw, errors []error)
}

// Extensions that hook before a batched load from a layer
type LayerPreLoadHookExtension[TKey comparable] interface {
	LayerPreLoadHook(traceID uint64, layerIndex int, keys []TKey)
}

// Extensions that hook after a batched load from a layer
type LayerPostLoadHookExtension[TKey comparable] interface {
	LayerPostLoadHook(traceID uint64, layerIndex int, keys []TKey, values []Raw, errors []error)
}

// Extensions that hook before a set operation
type PreSetHookExtension[TKey comparable] interface {
	PreSetHook(traceID uint64, keys []TKey, values []Raw)
}

// Extensions that hook after a set operation
type PostSetHookExtension[TKey comparable] interface {
	PostSetHook(traceID uint64, keys []TKey, values []Raw, errors [][]error)
}

// Extensions that hook before a set operation on a layer
type LayerPreSetHookExtension[TKey comparable] interface {
	LayerPreSetHook(traceID uint64, layerIndex int, keys []TKey, values []Raw)
}

// Extensions that hook after a set operation on a layer
type LayerPostSetHookExtension[TKey comparable] interface {
	LayerPostSetHook(traceID uint64, layerIndex int, keys []TKey, values []Raw, errors []error)
}

// Mutation describes a change of a flag group raw value made through an Attribute
type Mutation struct {
	Group  string
	Op     string
	Before Raw
	After  Raw
	Err    error
}

const (
	OpAssign = "assign"
	OpAdd    = "add"
	OpRemove = "remove"
)

// Extensions that hook after an attribute mutation
type MutationHookExtension interface {
	MutationHook(mutation Mutation)
}
