package bitwise

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Definition describes a flag group, set exactly one of Symbols or Values
type Definition struct {
	// Name of the flag group, e.g. payment_types
	Name string

	// Name of the host field holding the raw value, defaults to <Name>_value
	Column string

	// Auto-numbered symbols, the i-th symbol is assigned 1<<i
	Symbols []Symbol

	// Explicit symbol values, each must be a power of two
	Values []Entry
}

// ColumnName returns the configured column or the default one
func (d Definition) ColumnName() string {
	if d.Column != "" {
		return d.Column
	}
	return d.Name + "_value"
}

func (d Definition) Validate() error {
	if d.Name == "" {
		return newValidationError(d.Name, "flag group name cannot be empty")
	}
	if (d.Symbols == nil) == (d.Values == nil) {
		return newValidationError(d.Name, "exactly one of symbols or values must be given")
	}
	return nil
}

// Build the mapping described by this definition
func (d Definition) Build() (*Mapping, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Values != nil {
		return BuildExplicit(d.Name, d.Values)
	}
	return Build(d.Name, d.Symbols)
}

// ParseDefinitions reads flag group definitions from YAML, grouped by host type:
//
//	payment:
//	  payment_types:
//	    column: payment_types_value
//	    mapping: [slots, credits]
//	  fruits:
//	    mapping: {banana: 2, kiwi: 4, apple: 1}
func ParseDefinitions(r io.Reader) (map[string][]Definition, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return map[string][]Definition{}, nil
		}
		return nil, err
	}
	if len(root.Content) == 0 {
		return map[string][]Definition{}, nil
	}

	hosts := root.Content[0]
	if hosts.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of host types", hosts.Line)
	}

	result := make(map[string][]Definition, len(hosts.Content)/2)
	for i := 0; i < len(hosts.Content); i += 2 {
		host := hosts.Content[i].Value
		groups := hosts.Content[i+1]
		if groups.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: expected a mapping of flag groups for %s", groups.Line, host)
		}
		for j := 0; j < len(groups.Content); j += 2 {
			def, err := parseDefinition(groups.Content[j].Value, groups.Content[j+1])
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", host, groups.Content[j].Value, err)
			}
			result[host] = append(result[host], def)
		}
	}
	return result, nil
}

type definitionDocument struct {
	Column  string    `yaml:"column"`
	Mapping yaml.Node `yaml:"mapping"`
}

func parseDefinition(name string, node *yaml.Node) (Definition, error) {
	var doc definitionDocument
	if err := node.Decode(&doc); err != nil {
		return Definition{}, err
	}

	def := Definition{Name: name, Column: doc.Column}
	switch doc.Mapping.Kind {
	case yaml.SequenceNode:
		def.Symbols = make([]Symbol, len(doc.Mapping.Content))
		for i, item := range doc.Mapping.Content {
			def.Symbols[i] = Symbol(item.Value)
		}
	case yaml.MappingNode:
		// keep the table in document order
		def.Values = make([]Entry, 0, len(doc.Mapping.Content)/2)
		for i := 0; i < len(doc.Mapping.Content); i += 2 {
			var value uint64
			if err := doc.Mapping.Content[i+1].Decode(&value); err != nil {
				return Definition{}, fmt.Errorf("line %d: %w", doc.Mapping.Content[i+1].Line, err)
			}
			def.Values = append(def.Values, Entry{
				Symbol: Symbol(doc.Mapping.Content[i].Value),
				Value:  Raw(value),
			})
		}
	default:
		return Definition{}, fmt.Errorf("line %d: mapping must be a list or a table", node.Line)
	}
	return def, nil
}
