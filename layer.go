package bitwise

// Layer is an interface for raw value layers, they take the record keys and return the stored raw values.
// If a layer returns an error for a particular key, the key will be given to the next layer to be resolved
type Layer[TKey comparable] interface {
	// Unique identifier for this layer used for logging and metric purposes
	Identifier() string

	// The function that will be called to load raw values from the given set of keys
	Get(keys []TKey) ([]Raw, []error)

	// The function that will be called to store raw values, or to prime values resolved by the layers after this
	Set(keys []TKey, values []Raw) []error
}
