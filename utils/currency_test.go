package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueToSatoshis(t *testing.T) {
	assert.Equal(t, int64(100000000), ValueToSatoshis(decimal.NewFromInt(1)))
	assert.Equal(t, int64(50000000), ValueToSatoshis(decimal.RequireFromString("0.5")))
	assert.Equal(t, int64(5430), ValueToSatoshis(decimal.RequireFromString("0.00005430")))
	assert.Equal(t, int64(0), ValueToSatoshis(decimal.Zero))
}

func TestSatoshisToValue(t *testing.T) {
	assert.True(t, SatoshisToValue(100000000).Equal(decimal.NewFromInt(1)))
	assert.True(t, SatoshisToValue(5430).Equal(decimal.RequireFromString("0.0000543")))
}

func TestSatoshiRoundTrip(t *testing.T) {
	for _, s := range []string{"0.0001", "0.00005430", "1234.5678", "0"} {
		value := decimal.RequireFromString(s)
		assert.True(t, SatoshisToValue(ValueToSatoshis(value)).Equal(value), s)
	}
}

func TestRoundBalance(t *testing.T) {
	assert.True(t, RoundBalance(decimal.RequireFromString("0.123456789")).Equal(decimal.RequireFromString("0.12345679")))
	assert.True(t, RoundBalance(decimal.RequireFromString("0.1")).Equal(decimal.RequireFromString("0.1")))
	assert.True(t, RoundBalance(decimal.RequireFromString("-0.000000001")).Equal(decimal.Zero))
}

func TestParseQuantity(t *testing.T) {
	fromDecimal, err := ParseQuantity(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.True(t, fromDecimal.Equal(decimal.RequireFromString("1.5")))

	fromFloat, err := ParseQuantity(0.25)
	require.NoError(t, err)
	assert.True(t, fromFloat.Equal(decimal.RequireFromString("0.25")))

	fromInt, err := ParseQuantity(42)
	require.NoError(t, err)
	assert.True(t, fromInt.Equal(decimal.NewFromInt(42)))

	fromString, err := ParseQuantity("0.0001")
	require.NoError(t, err)
	assert.True(t, fromString.Equal(decimal.RequireFromString("0.0001")))

	fromNil, err := ParseQuantity(nil)
	require.NoError(t, err)
	assert.True(t, fromNil.IsZero())

	_, err = ParseQuantity("not a number")
	assert.Error(t, err)

	_, err = ParseQuantity([]string{"nope"})
	assert.Error(t, err)
}
