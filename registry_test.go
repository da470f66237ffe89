package bitwise_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/flowscan/bitwise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefine(t *testing.T) {
	r := bitwise.NewRegistry()

	m, err := r.Define("payment", bitwise.Definition{Name: "payment_types", Symbols: []bitwise.Symbol{"slots", "credits"}})
	require.NoError(t, err)

	found, ok := r.Lookup("payment", "payment_types")
	assert.True(t, ok)
	assert.Same(t, m, found)

	def, ok := r.Definition("payment", "payment_types")
	assert.True(t, ok)
	assert.Equal(t, "payment_types_value", def.ColumnName())

	_, ok = r.Lookup("account", "payment_types")
	assert.False(t, ok)

	_, err = r.Define("payment", bitwise.Definition{Name: "payment_types", Symbols: []bitwise.Symbol{"paypal"}})
	assert.ErrorIs(t, err, bitwise.ErrAlreadyDefined)

	// same group name on another host type is a different flag group
	_, err = r.Define("account", bitwise.Definition{Name: "payment_types", Symbols: []bitwise.Symbol{"paypal"}})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count())
}

func TestRegistryInvalidDefinitionIsNotStored(t *testing.T) {
	r := bitwise.NewRegistry()
	_, err := r.Define("payment", bitwise.Definition{Name: "bad", Values: []bitwise.Entry{{Symbol: "a", Value: 3}}})
	assert.ErrorIs(t, err, bitwise.ErrValidation)
	_, ok := r.Lookup("payment", "bad")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())
}

func TestRegistryFreeze(t *testing.T) {
	r := bitwise.NewRegistry()
	r.Freeze()
	_, err := r.Define("payment", bitwise.Definition{Name: "payment_types", Symbols: []bitwise.Symbol{"slots"}})
	assert.ErrorIs(t, err, bitwise.ErrFrozen)
}

func TestRegistryLoad(t *testing.T) {
	r := bitwise.NewRegistry()
	require.NoError(t, r.Load(strings.NewReader(definitionsYAML)))

	assert.Equal(t, 3, r.Count())
	assert.Equal(t, []string{"fruits", "payment_types"}, r.Groups("payment"))
	assert.Equal(t, []string{"roles"}, r.Groups("account"))

	fruits, ok := r.Lookup("payment", "fruits")
	require.True(t, ok)
	assert.Equal(t, []bitwise.Symbol{"apple", "banana", "kiwi", bitwise.Empty}, fruits.Symbols())

	err := r.Load(strings.NewReader(definitionsYAML))
	assert.ErrorIs(t, err, bitwise.ErrAlreadyDefined)
}

func TestRegistryConcurrentDefineOnce(t *testing.T) {
	r := bitwise.NewRegistry()
	n := 64
	wg := sync.WaitGroup{}
	wg.Add(n)
	results := make([]*bitwise.Mapping, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		capturedIndex := i
		go func() {
			defer wg.Done()
			results[capturedIndex], errs[capturedIndex] = r.Define("payment", bitwise.Definition{
				Name:    "payment_types",
				Symbols: []bitwise.Symbol{"slots", "credits"},
			})
		}()
	}
	wg.Wait()

	defined := 0
	for i := range results {
		if errs[i] == nil {
			defined++
			found, _ := r.Lookup("payment", "payment_types")
			assert.Same(t, results[i], found)
		} else {
			assert.ErrorIs(t, errs[i], bitwise.ErrAlreadyDefined)
		}
	}
	assert.Equal(t, 1, defined)
}

func TestRegistryFailedLoadDefinesNothing(t *testing.T) {
	r := bitwise.NewRegistry()
	invalid := `
account:
  roles:
    mapping: [admin]
payment:
  fruits:
    mapping: {apple: 3}
`
	err := r.Load(strings.NewReader(invalid))
	assert.ErrorIs(t, err, bitwise.ErrValidation)
	assert.Equal(t, 0, r.Count())
	_, ok := r.Lookup("account", "roles")
	assert.False(t, ok)

	fixed := strings.Replace(invalid, "apple: 3", "apple: 4", 1)
	require.NoError(t, r.Load(strings.NewReader(fixed)))
	assert.Equal(t, 2, r.Count())
}

func TestRegistryLoadCollisionDefinesNothing(t *testing.T) {
	r := bitwise.NewRegistry()
	_, err := r.Define("payment", bitwise.Definition{Name: "fruits", Symbols: []bitwise.Symbol{"apple"}})
	require.NoError(t, err)

	err = r.Load(strings.NewReader(definitionsYAML))
	assert.ErrorIs(t, err, bitwise.ErrAlreadyDefined)
	assert.Equal(t, 1, r.Count())
	_, ok := r.Lookup("account", "roles")
	assert.False(t, ok)
}
