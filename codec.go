package bitwise

// Codec performs the bitwise operations of a single flag group
type Codec struct {
	mapping *Mapping
}

func NewCodec(mapping *Mapping) *Codec {
	return &Codec{mapping: mapping}
}

func (c *Codec) Mapping() *Mapping { return c.mapping }

// Decode returns the symbols set in raw, in mapping order
func (c *Codec) Decode(raw Raw) FlagSet {
	result := make(FlagSet, 0)
	for _, entry := range c.mapping.entries {
		if raw&entry.Value == 0 {
			continue
		}
		if symbol, ok := c.mapping.Symbol(entry.Value); ok {
			result = append(result, symbol)
		}
	}
	return result
}

// Encode returns the OR of all the given inputs, sequences are flattened
func (c *Codec) Encode(inputs ...any) (Raw, error) {
	values, err := c.flatten(inputs)
	if err != nil {
		return 0, err
	}
	var result Raw
	for _, v := range values {
		result |= v
	}
	return result, nil
}

// Has checks if any bit of the normalized input is set in raw
func (c *Codec) Has(raw Raw, input any) (bool, error) {
	v, err := c.Encode(input)
	if err != nil {
		return false, err
	}
	return IsSet(raw, v), nil
}

func (c *Codec) Add(raw Raw, input any) (Raw, error) {
	v, err := c.Encode(input)
	if err != nil {
		return raw, err
	}
	return AddFlag(raw, v), nil
}

func (c *Codec) Remove(raw Raw, input any) (Raw, error) {
	v, err := c.Encode(input)
	if err != nil {
		return raw, err
	}
	return RemoveFlag(raw, v), nil
}

// IsSet checks if any bit of value is set in raw
func IsSet(raw Raw, value Raw) bool {
	return raw&value != 0
}

func AddFlag(raw Raw, value Raw) Raw {
	return raw | value
}

func RemoveFlag(raw Raw, value Raw) Raw {
	return raw &^ value
}
