package bitwise

// Configuration for a raw value repository
type Config[TKey comparable] struct {
	// Identifier for this repository, usually the flag group column
	Identifier string

	// The raw value layers for this repository, executed from the first to the last
	Layers []Layer[TKey]

	// Default load flags
	DefaultLoadFlags LoadFlag

	// Default set flags
	DefaultSetFlags SetFlag

	// Array of extensions to be used
	Extensions []Extension
}

func (c Config[TKey]) Validate() error {
	if len(c.Layers) == 0 {
		return newValidationError(c.Identifier, "a repository needs at least one layer")
	}
	return nil
}

// ConfigFor returns the repository configuration of a flag group, identified by its column name
func ConfigFor[TKey comparable](def Definition, layers ...Layer[TKey]) Config[TKey] {
	return Config[TKey]{
		Identifier: def.ColumnName(),
		Layers:     layers,
	}
}
