package pricefomatter

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x-xyz/marketapi/domain"
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return v
}

func TestFormatEther(t *testing.T) {
	tests := []struct {
		value *big.Int
		want  string
	}{
		{big.NewInt(0), "0.0"},
		{mustBig("1000000000000000000"), "1.0"},
		{mustBig("1500000000000000000"), "1.5"},
		{mustBig("10000000000000000"), "0.01"},
		{big.NewInt(1), "0.000000000000000001"},
		{mustBig("123000000000000000000"), "123.0"},
		{mustBig("123456789012345678901"), "123.456789012345678901"},
	}
	for _, tt := range tests {
		got, err := FormatEther(tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.value.String())
	}
}

func TestFormatUnits(t *testing.T) {
	got, err := FormatUnits(big.NewInt(1234567), 6)
	require.NoError(t, err)
	assert.Equal(t, "1.234567", got)

	got, err = FormatUnits(big.NewInt(42), 0)
	require.NoError(t, err)
	assert.Equal(t, "42.0", got)

	_, err = FormatUnits(nil, 18)
	assert.ErrorIs(t, err, domain.ErrInvalidNumberFormat)
}
