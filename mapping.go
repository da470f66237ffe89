package bitwise

import (
	"fmt"
	"sort"
	"strings"
)

// Symbol is the name of a single flag inside a flag group
type Symbol string

// Raw is the integer bitmask that encodes the flags of a group
type Raw uint64

// Empty is the sentinel symbol bound to zero that every mapping carries as its last entry
const Empty Symbol = "empty"

// MaxFlags is the number of distinct bits a Raw value can hold
const MaxFlags = 64

// Entry binds a symbol to its bit value
type Entry struct {
	Symbol Symbol
	Value  Raw
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %d", e.Symbol, e.Value)
}

// Mapping is the immutable, ordered symbol to bit table of a flag group
type Mapping struct {
	name    string
	entries []Entry
	index   map[Symbol]int
	reverse map[Raw]Symbol
	mask    Raw
}

// Build creates an auto-numbered mapping, the i-th symbol is assigned 1<<i.
// A repeated symbol keeps the position of its first occurrence and the value of its last one.
func Build(name string, symbols []Symbol) (*Mapping, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if len(symbols) > MaxFlags {
		return nil, newValidationError(name, fmt.Sprintf("at most %d flags are supported, got %d", MaxFlags, len(symbols)))
	}

	entries := make([]Entry, 0, len(symbols)+1)
	positions := make(map[Symbol]int, len(symbols))
	for i, symbol := range symbols {
		if err := checkSymbol(name, symbol); err != nil {
			return nil, err
		}
		value := Raw(1) << uint(i)
		if pos, ok := positions[symbol]; ok {
			entries[pos].Value = value
			continue
		}
		positions[symbol] = len(entries)
		entries = append(entries, Entry{Symbol: symbol, Value: value})
	}

	return newMapping(name, entries), nil
}

// BuildExplicit creates a mapping from user supplied values, each of them must be a power of two.
// Entries are sorted ascending by value, the Empty sentinel stays last.
func BuildExplicit(name string, entries []Entry) (*Mapping, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	seen := make(map[Symbol]struct{}, len(entries))
	invalid := make([]Entry, 0)
	for _, entry := range entries {
		if err := checkSymbol(name, entry.Symbol); err != nil {
			return nil, err
		}
		if _, ok := seen[entry.Symbol]; ok {
			return nil, newValidationError(name, "symbol listed more than once", entry)
		}
		seen[entry.Symbol] = struct{}{}
		if !isPowerOfTwo(entry.Value) {
			invalid = append(invalid, entry)
		}
	}
	if len(invalid) > 0 {
		return nil, newValidationError(name, "value should be a power of two number", invalid...)
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})

	return newMapping(name, sorted), nil
}

func checkName(name string) error {
	if name == "" {
		return newValidationError(name, "flag group name cannot be empty")
	}
	return nil
}

func checkSymbol(group string, symbol Symbol) error {
	if symbol == "" {
		return newValidationError(group, "flag symbol cannot be empty")
	}
	if symbol == Empty {
		return newValidationError(group, fmt.Sprintf("%q is reserved", string(Empty)))
	}
	return nil
}

func isPowerOfTwo(v Raw) bool {
	return v > 0 && v&(v-1) == 0
}

// freeze the given entries into a mapping and append the sentinel
func newMapping(name string, entries []Entry) *Mapping {
	entries = append(entries, Entry{Symbol: Empty, Value: 0})
	m := &Mapping{
		name:    name,
		entries: entries,
		index:   make(map[Symbol]int, len(entries)),
		reverse: make(map[Raw]Symbol, len(entries)),
	}
	for i, entry := range entries {
		m.index[entry.Symbol] = i
		// first symbol in mapping order wins when values collide
		if _, ok := m.reverse[entry.Value]; !ok {
			m.reverse[entry.Value] = entry.Symbol
		}
		m.mask |= entry.Value
	}
	return m
}

// Name of the flag group
func (m *Mapping) Name() string { return m.name }

// Len returns the number of entries, including the Empty sentinel
func (m *Mapping) Len() int { return len(m.entries) }

// Entries returns a copy of the mapping entries in mapping order
func (m *Mapping) Entries() []Entry {
	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

func (m *Mapping) Symbols() []Symbol {
	result := make([]Symbol, len(m.entries))
	for i, entry := range m.entries {
		result[i] = entry.Symbol
	}
	return result
}

func (m *Mapping) Values() []Raw {
	result := make([]Raw, len(m.entries))
	for i, entry := range m.entries {
		result[i] = entry.Value
	}
	return result
}

// Value returns the bit value bound to the symbol
func (m *Mapping) Value(symbol Symbol) (Raw, bool) {
	i, ok := m.index[symbol]
	if !ok {
		return 0, false
	}
	return m.entries[i].Value, true
}

// Symbol returns the symbol bound to the exact value
func (m *Mapping) Symbol(value Raw) (Symbol, bool) {
	symbol, ok := m.reverse[value]
	return symbol, ok
}

// Mask returns all the bits used by the mapping
func (m *Mapping) Mask() Raw { return m.mask }

func (m *Mapping) String() string {
	parts := make([]string, len(m.entries))
	for i, entry := range m.entries {
		parts[i] = entry.String()
	}
	return fmt.Sprintf("%s{%s}", m.name, strings.Join(parts, ", "))
}
