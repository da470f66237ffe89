package bitwise

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

type registryKey struct {
	host  string
	group string
}

type registryItem struct {
	definition Definition
	mapping    *Mapping
}

// Registry caches the mapping of every flag group, keyed by host type and group name.
// Each key is written once, mappings are immutable so lookups can be shared freely.
type Registry struct {
	mu     sync.RWMutex
	items  map[registryKey]registryItem
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{
		items: make(map[registryKey]registryItem),
	}
}

// Define builds and stores the mapping of a flag group owned by the given host type
func (r *Registry) Define(host string, def Definition) (*Mapping, error) {
	key := registryKey{host: host, group: def.Name}

	// building happens outside of the lock, only the insert is serialized
	r.mu.RLock()
	_, exists := r.items[key]
	frozen := r.frozen
	r.mu.RUnlock()
	if frozen {
		return nil, ErrFrozen
	}
	if exists {
		return nil, fmt.Errorf("%w: %s.%s", ErrAlreadyDefined, host, def.Name)
	}

	mapping, err := def.Build()
	if err != nil {
		return nil, err
	}
	if err := r.insert(map[registryKey]registryItem{key: {definition: def, mapping: mapping}}); err != nil {
		return nil, err
	}
	return mapping, nil
}

// Load defines every flag group of a YAML definitions document.
// Either all of the groups are defined or none of them.
func (r *Registry) Load(reader io.Reader) error {
	hosts, err := ParseDefinitions(reader)
	if err != nil {
		return err
	}

	items := make(map[registryKey]registryItem)
	for _, host := range sortedKeys(hosts) {
		for _, def := range hosts[host] {
			key := registryKey{host: host, group: def.Name}
			if _, ok := items[key]; ok {
				return fmt.Errorf("%w: %s.%s", ErrAlreadyDefined, host, def.Name)
			}
			mapping, err := def.Build()
			if err != nil {
				return err
			}
			items[key] = registryItem{definition: def, mapping: mapping}
		}
	}
	return r.insert(items)
}

// insert stores all of the items under a single lock, nothing is stored if any key is taken
func (r *Registry) insert(items map[registryKey]registryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrFrozen
	}
	for key := range items {
		if _, ok := r.items[key]; ok {
			return fmt.Errorf("%w: %s.%s", ErrAlreadyDefined, key.host, key.group)
		}
	}
	for key, item := range items {
		r.items[key] = item
	}
	return nil
}

// Lookup returns the mapping of a flag group, or false if it was never defined
func (r *Registry) Lookup(host string, group string) (*Mapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[registryKey{host: host, group: group}]
	return item.mapping, ok
}

// Definition returns the definition a flag group was built from
func (r *Registry) Definition(host string, group string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[registryKey{host: host, group: group}]
	return item.definition, ok
}

// Groups returns the sorted names of the flag groups defined for a host type
func (r *Registry) Groups(host string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]string, 0)
	for key := range r.items {
		if key.host == host {
			result = append(result, key.group)
		}
	}
	sort.Strings(result)
	return result
}

// Freeze prevents further definitions
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
