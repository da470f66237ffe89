package bitwise

import "fmt"

// Pair is a single key/value item of a Table input
type Pair struct {
	Key   string
	Value any
}

// Table is an ordered key/value input, only the values take part in normalization
type Table []Pair

// Normalized is the result of normalizing an input, either a single value or a list of values
type Normalized struct {
	Scalar bool
	Values []Raw
}

// Value returns the single value for scalar inputs and the OR of all values otherwise
func (n Normalized) Value() Raw {
	var result Raw
	for _, v := range n.Values {
		result |= v
	}
	return result
}

// Normalize converts a symbol, integer, sequence or Table into raw values
func (c *Codec) Normalize(input any) (Normalized, error) {
	if isSequence(input) {
		values, err := c.Values(input)
		if err != nil {
			return Normalized{}, err
		}
		return Normalized{Values: values}, nil
	}
	v, err := c.Value(input)
	if err != nil {
		return Normalized{}, err
	}
	return Normalized{Scalar: true, Values: []Raw{v}}, nil
}

// Value converts a single symbol or integer into its raw value
func (c *Codec) Value(input any) (Raw, error) {
	switch v := input.(type) {
	case Symbol:
		return c.lookup(v)
	case string:
		return c.lookup(Symbol(v))
	case Raw:
		return v, nil
	case uint:
		return Raw(v), nil
	case uint8:
		return Raw(v), nil
	case uint16:
		return Raw(v), nil
	case uint32:
		return Raw(v), nil
	case uint64:
		return Raw(v), nil
	case int:
		return fromSigned(int64(v))
	case int8:
		return fromSigned(int64(v))
	case int16:
		return fromSigned(int64(v))
	case int32:
		return fromSigned(int64(v))
	case int64:
		return fromSigned(v)
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
}

// Values converts every element of a sequence, or every value of a Table, in order
func (c *Codec) Values(input any) ([]Raw, error) {
	switch v := input.(type) {
	case []Symbol:
		return convertAll(v, func(s Symbol) (Raw, error) { return c.lookup(s) })
	case FlagSet:
		return convertAll(v, func(s Symbol) (Raw, error) { return c.lookup(s) })
	case []string:
		return convertAll(v, func(s string) (Raw, error) { return c.lookup(Symbol(s)) })
	case []Raw:
		result := make([]Raw, len(v))
		copy(result, v)
		return result, nil
	case []uint64:
		return convertAll(v, func(i uint64) (Raw, error) { return Raw(i), nil })
	case []int:
		return convertAll(v, func(i int) (Raw, error) { return fromSigned(int64(i)) })
	case []any:
		return convertAll(v, c.Value)
	case Table:
		return convertAll(v, func(p Pair) (Raw, error) { return c.Value(p.Value) })
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
}

// flatten normalizes each input and concatenates the results
func (c *Codec) flatten(inputs []any) ([]Raw, error) {
	result := make([]Raw, 0, len(inputs))
	for _, input := range inputs {
		n, err := c.Normalize(input)
		if err != nil {
			return nil, err
		}
		result = append(result, n.Values...)
	}
	return result, nil
}

func (c *Codec) lookup(symbol Symbol) (Raw, error) {
	v, ok := c.mapping.Value(symbol)
	if !ok {
		return 0, &UnknownSymbolError{Group: c.mapping.Name(), Symbol: symbol}
	}
	return v, nil
}

func fromSigned(v int64) (Raw, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidValue, v)
	}
	return Raw(v), nil
}

func isSequence(input any) bool {
	switch input.(type) {
	case []Symbol, FlagSet, []string, []Raw, []uint64, []int, []any, Table:
		return true
	}
	return false
}

func convertAll[T any](source []T, fn func(T) (Raw, error)) ([]Raw, error) {
	result := make([]Raw, len(source))
	for i, v := range source {
		raw, err := fn(v)
		if err != nil {
			return nil, err
		}
		result[i] = raw
	}
	return result, nil
}
