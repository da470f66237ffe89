package bitwise_test

import (
	"testing"

	"github.com/flowscan/bitwise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentCodec(t *testing.T) *bitwise.Codec {
	m, err := bitwise.Build("payment_types", []bitwise.Symbol{"slots", "credits"})
	require.NoError(t, err)
	return bitwise.NewCodec(m)
}

func newFruitCodec(t *testing.T) *bitwise.Codec {
	m, err := bitwise.BuildExplicit("fruits", []bitwise.Entry{
		{Symbol: "banana", Value: 2},
		{Symbol: "kiwi", Value: 4},
		{Symbol: "apple", Value: 1},
	})
	require.NoError(t, err)
	return bitwise.NewCodec(m)
}

func TestDecode(t *testing.T) {
	c := newPaymentCodec(t)

	assert.Equal(t, bitwise.FlagSet{"slots", "credits"}, c.Decode(3))
	assert.Equal(t, bitwise.FlagSet{"credits"}, c.Decode(2))
	assert.Equal(t, bitwise.FlagSet{}, c.Decode(0))
	// bits outside of the mapping are ignored
	assert.Equal(t, bitwise.FlagSet{"slots"}, c.Decode(9))
}

func TestDecodeFollowsMappingOrder(t *testing.T) {
	c := newFruitCodec(t)
	assert.Equal(t, bitwise.FlagSet{"apple", "banana"}, c.Decode(3))
	assert.Equal(t, bitwise.FlagSet{"apple", "banana", "kiwi"}, c.Decode(7))
}

func TestEncode(t *testing.T) {
	c := newPaymentCodec(t)

	v, err := c.Encode()
	require.NoError(t, err)
	assert.Equal(t, bitwise.Raw(0), v)

	v, err = c.Encode(bitwise.Symbol("slots"), "credits")
	require.NoError(t, err)
	assert.Equal(t, bitwise.Raw(3), v)

	v, err = c.Encode([]bitwise.Symbol{"credits"}, 1)
	require.NoError(t, err)
	assert.Equal(t, bitwise.Raw(3), v)

	v, err = c.Encode(bitwise.FlagSet{"slots", "slots"})
	require.NoError(t, err)
	assert.Equal(t, bitwise.Raw(1), v)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, c := range []*bitwise.Codec{newPaymentCodec(t), newFruitCodec(t)} {
		for r := bitwise.Raw(0); r <= c.Mapping().Mask(); r++ {
			v, err := c.Encode(c.Decode(r))
			require.NoError(t, err)
			assert.Equal(t, r, v, "mapping %s raw %d", c.Mapping().Name(), r)
		}
	}
}

func TestNormalize(t *testing.T) {
	c := newPaymentCodec(t)

	n, err := c.Normalize(bitwise.Table{{Key: "a", Value: bitwise.Symbol("credits")}, {Key: "b", Value: "slots"}})
	require.NoError(t, err)
	assert.False(t, n.Scalar)
	assert.Equal(t, []bitwise.Raw{2, 1}, n.Values)

	n, err = c.Normalize([]string{"credits", "slots"})
	require.NoError(t, err)
	assert.Equal(t, []bitwise.Raw{2, 1}, n.Values)
	assert.Equal(t, bitwise.Raw(3), n.Value())

	n, err = c.Normalize(1)
	require.NoError(t, err)
	assert.True(t, n.Scalar)
	assert.Equal(t, bitwise.Raw(1), n.Value())

	n, err = c.Normalize([]any{uint8(2), bitwise.Symbol("slots"), bitwise.Raw(8)})
	require.NoError(t, err)
	assert.Equal(t, []bitwise.Raw{2, 1, 8}, n.Values)
}

func TestNormalizeIsStrict(t *testing.T) {
	c := newPaymentCodec(t)

	_, err := c.Value(bitwise.Symbol("paypal"))
	assert.ErrorIs(t, err, bitwise.ErrUnknownSymbol)
	var unknown *bitwise.UnknownSymbolError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, bitwise.Symbol("paypal"), unknown.Symbol)
	assert.Equal(t, "payment_types", unknown.Group)

	_, err = c.Value(-1)
	assert.ErrorIs(t, err, bitwise.ErrInvalidValue)

	_, err = c.Value(1.5)
	assert.ErrorIs(t, err, bitwise.ErrUnsupportedInput)

	_, err = c.Values(1)
	assert.ErrorIs(t, err, bitwise.ErrUnsupportedInput)

	_, err = c.Encode([]string{"slots", "paypal"})
	assert.ErrorIs(t, err, bitwise.ErrUnknownSymbol)

	_, err = c.Normalize(map[string]int{"a": 1})
	assert.ErrorIs(t, err, bitwise.ErrUnsupportedInput)
}

func TestEmptySymbolNormalizesToZero(t *testing.T) {
	c := newPaymentCodec(t)
	v, err := c.Value(bitwise.Empty)
	require.NoError(t, err)
	assert.Equal(t, bitwise.Raw(0), v)
}

func TestFlagOperations(t *testing.T) {
	assert.True(t, bitwise.IsSet(3, 1))
	assert.False(t, bitwise.IsSet(2, 1))
	assert.False(t, bitwise.IsSet(0, 0))

	assert.Equal(t, bitwise.Raw(3), bitwise.AddFlag(2, 1))
	assert.Equal(t, bitwise.Raw(2), bitwise.RemoveFlag(3, 1))
	assert.Equal(t, bitwise.Raw(2), bitwise.RemoveFlag(2, 1))

	for r := bitwise.Raw(0); r < 16; r++ {
		for v := bitwise.Raw(1); v < 16; v <<= 1 {
			assert.Equal(t, bitwise.AddFlag(r, v), bitwise.AddFlag(bitwise.AddFlag(r, v), v))
			assert.Equal(t, bitwise.RemoveFlag(r, v), bitwise.RemoveFlag(bitwise.RemoveFlag(r, v), v))
			assert.Equal(t, bitwise.Raw(0), bitwise.RemoveFlag(bitwise.AddFlag(0, v), v))
		}
	}
}

func TestCodecFlagOperations(t *testing.T) {
	c := newPaymentCodec(t)

	has, err := c.Has(3, "slots")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = c.Has(0, "slots")
	require.NoError(t, err)
	assert.False(t, has)

	v, err := c.Add(2, "slots")
	require.NoError(t, err)
	assert.Equal(t, bitwise.Raw(3), v)

	v, err = c.Remove(3, bitwise.Symbol("credits"))
	require.NoError(t, err)
	assert.Equal(t, bitwise.Raw(1), v)

	v, err = c.Add(2, "paypal")
	assert.ErrorIs(t, err, bitwise.ErrUnknownSymbol)
	assert.Equal(t, bitwise.Raw(2), v)
}
