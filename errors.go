package bitwise

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation       = errors.New("invalid flag mapping")
	ErrUnknownSymbol    = errors.New("unknown flag symbol")
	ErrInvalidValue     = errors.New("invalid flag value")
	ErrUnsupportedInput = errors.New("unsupported flag input")
	ErrAlreadyDefined   = errors.New("flag group already defined")
	ErrFrozen           = errors.New("registry frozen")
)

// ValidationError is returned when a flag group can't be built from its definition
type ValidationError struct {
	Group   string
	Reason  string
	Entries []Entry
}

func (e *ValidationError) Error() string {
	if len(e.Entries) == 0 {
		return fmt.Sprintf("%s: %s", e.Group, e.Reason)
	}
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = entry.String()
	}
	return fmt.Sprintf("%s: %s (%s)", e.Group, e.Reason, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(group string, reason string, entries ...Entry) *ValidationError {
	return &ValidationError{
		Group:   group,
		Reason:  reason,
		Entries: entries,
	}
}

// UnknownSymbolError indicates that a symbol is not part of the mapping it was looked up in
type UnknownSymbolError struct {
	Group  string
	Symbol Symbol
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("%s: unknown flag symbol %q", e.Group, string(e.Symbol))
}

func (e *UnknownSymbolError) Unwrap() error { return ErrUnknownSymbol }

// Indicates that the given key is not able to be resolved
type ErrNotFound[TKey any] struct {
	key TKey
}

func (m ErrNotFound[TKey]) Error() string {
	return fmt.Sprintf("not found: (%v)", m.key)
}

func (m ErrNotFound[TKey]) Key() TKey { return m.key }

func NewErrNotFound[TKey any](key TKey) ErrNotFound[TKey] {
	return ErrNotFound[TKey]{
		key: key,
	}
}

// IsNotFound reports whether err is a not found error for the key type TKey
func IsNotFound[TKey any](err error) bool {
	var target ErrNotFound[TKey]
	return errors.As(err, &target)
}
