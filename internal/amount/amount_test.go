package amount

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"10", true},
		{" 0.5 ", true},
		{"", false},
		{"abc", false},
		{"1.2.3", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, ok := Parse(tc.in)
			assert.Equal(t, tc.ok, ok)
		})
	}
	assert.False(t, IsPositive("0"))
	assert.False(t, IsPositive("-1"))
	assert.True(t, IsPositive("0.000001"))
}

func TestScaledConversion(t *testing.T) {
	v, err := ToScaled("1.5", 6)
	require.NoError(t, err)
	assert.Equal(t, "1500000", v.String())

	v, err = ToScaled("0.1234567", 6)
	require.NoError(t, err)
	assert.Equal(t, "123456", v.String())

	_, err = ToScaled("x", 18)
	assert.Error(t, err)

	assert.Equal(t, "1.500000", FromScaled(big.NewInt(1500000), 6))
	assert.Equal(t, "-0.01", FromScaled(big.NewInt(-1), 2))
	assert.Equal(t, "42", FromScaled(big.NewInt(42), 0))
	assert.Equal(t, "0", FromScaled(nil, 18))
}

func TestFixedAndMulDiv(t *testing.T) {
	assert.Equal(t, "1.234567", Fixed(big.NewInt(1234567890), 9, 6))
	assert.Equal(t, "0.000000", Fixed(nil, 18, 6))

	got := MulDiv(big.NewInt(10), big.NewInt(3), big.NewInt(4))
	assert.Equal(t, "7", got.String())
	assert.Equal(t, "0", MulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(0)).String())

	assert.Equal(t, "0.300000", FromFloat(0.3, 6))
}
