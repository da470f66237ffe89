package bitwise_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flowscan/bitwise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAutoNumbered(t *testing.T) {
	m, err := bitwise.Build("letters", []bitwise.Symbol{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, []bitwise.Entry{
		{Symbol: "a", Value: 1},
		{Symbol: "b", Value: 2},
		{Symbol: "c", Value: 4},
		{Symbol: bitwise.Empty, Value: 0},
	}, m.Entries())
	assert.Equal(t, "letters", m.Name())
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, bitwise.Raw(7), m.Mask())
	assert.Equal(t, "letters{a: 1, b: 2, c: 4, empty: 0}", m.String())
}

func TestBuildDuplicateSymbolKeepsFirstPositionLastValue(t *testing.T) {
	m, err := bitwise.Build("letters", []bitwise.Symbol{"a", "b", "a"})
	require.NoError(t, err)

	assert.Equal(t, []bitwise.Symbol{"a", "b", bitwise.Empty}, m.Symbols())
	assert.Equal(t, []bitwise.Raw{4, 2, 0}, m.Values())
}

func TestBuildExplicitSortsByValue(t *testing.T) {
	m, err := bitwise.BuildExplicit("fruits", []bitwise.Entry{
		{Symbol: "banana", Value: 2},
		{Symbol: "kiwi", Value: 4},
		{Symbol: "apple", Value: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []bitwise.Symbol{"apple", "banana", "kiwi", bitwise.Empty}, m.Symbols())
	assert.Equal(t, []bitwise.Raw{1, 2, 4, 0}, m.Values())
}

func TestBuildExplicitRejectsNonPowerOfTwo(t *testing.T) {
	_, err := bitwise.BuildExplicit("letters", []bitwise.Entry{
		{Symbol: "a", Value: 1},
		{Symbol: "b", Value: 3},
		{Symbol: "c", Value: 0},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bitwise.ErrValidation))

	var validationErr *bitwise.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "letters", validationErr.Group)
	assert.Equal(t, []bitwise.Entry{{Symbol: "b", Value: 3}, {Symbol: "c", Value: 0}}, validationErr.Entries)
	assert.Contains(t, err.Error(), "b: 3")
}

func TestBuildRejectsInvalidSymbols(t *testing.T) {
	cases := map[string]func() error{
		"empty name": func() error {
			_, err := bitwise.Build("g", []bitwise.Symbol{"a", ""})
			return err
		},
		"reserved auto": func() error {
			_, err := bitwise.Build("g", []bitwise.Symbol{bitwise.Empty})
			return err
		},
		"reserved explicit": func() error {
			_, err := bitwise.BuildExplicit("g", []bitwise.Entry{{Symbol: bitwise.Empty, Value: 4}})
			return err
		},
		"duplicate explicit": func() error {
			_, err := bitwise.BuildExplicit("g", []bitwise.Entry{{Symbol: "a", Value: 1}, {Symbol: "a", Value: 2}})
			return err
		},
		"too many flags": func() error {
			symbols := make([]bitwise.Symbol, bitwise.MaxFlags+1)
			for i := range symbols {
				symbols[i] = bitwise.Symbol(fmt.Sprintf("f%d", i))
			}
			_, err := bitwise.Build("g", symbols)
			return err
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, build(), bitwise.ErrValidation)
		})
	}
}

func TestBuildRejectsEmptyName(t *testing.T) {
	_, err := bitwise.Build("", []bitwise.Symbol{"slots"})
	assert.ErrorIs(t, err, bitwise.ErrValidation)

	_, err = bitwise.BuildExplicit("", []bitwise.Entry{{Symbol: "slots", Value: 1}})
	assert.ErrorIs(t, err, bitwise.ErrValidation)
}

func TestBuildUsesEveryBit(t *testing.T) {
	symbols := make([]bitwise.Symbol, bitwise.MaxFlags)
	for i := range symbols {
		symbols[i] = bitwise.Symbol(fmt.Sprintf("f%d", i))
	}
	m, err := bitwise.Build("wide", symbols)
	require.NoError(t, err)

	v, ok := m.Value("f63")
	assert.True(t, ok)
	assert.Equal(t, bitwise.Raw(1)<<63, v)
	assert.Equal(t, ^bitwise.Raw(0), m.Mask())
}

func TestReverseLookupFirstSymbolWins(t *testing.T) {
	m, err := bitwise.BuildExplicit("aliases", []bitwise.Entry{
		{Symbol: "first", Value: 2},
		{Symbol: "second", Value: 2},
		{Symbol: "one", Value: 1},
	})
	require.NoError(t, err)

	symbol, ok := m.Symbol(2)
	assert.True(t, ok)
	assert.Equal(t, bitwise.Symbol("first"), symbol)

	symbol, ok = m.Symbol(0)
	assert.True(t, ok)
	assert.Equal(t, bitwise.Empty, symbol)

	_, ok = m.Symbol(8)
	assert.False(t, ok)
}

func TestMappingEntriesIsACopy(t *testing.T) {
	m, err := bitwise.Build("letters", []bitwise.Symbol{"a"})
	require.NoError(t, err)

	entries := m.Entries()
	entries[0].Value = 64

	v, _ := m.Value("a")
	assert.Equal(t, bitwise.Raw(1), v)
}
