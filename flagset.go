package bitwise

import "strings"

// FlagSet is the ordered list of symbols decoded from a raw value
type FlagSet []Symbol

// Is reports whether the set holds exactly the given symbol and nothing else
func (s FlagSet) Is(symbol Symbol) bool {
	return len(s) == 1 && s[0] == symbol
}

func (s FlagSet) Equal(other FlagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s FlagSet) Contains(symbol Symbol) bool {
	for _, v := range s {
		if v == symbol {
			return true
		}
	}
	return false
}

func (s FlagSet) Strings() []string {
	result := make([]string, len(s))
	for i, v := range s {
		result[i] = string(v)
	}
	return result
}

func (s FlagSet) String() string {
	return "[" + strings.Join(s.Strings(), " ") + "]"
}
