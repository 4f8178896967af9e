package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		name     string
		v        float64
		decimals int
		compact  bool
		want     string
	}{
		{"grouping", 1234.5, 2, false, "1,234.50"},
		{"small", 0.25, 2, false, "0.25"},
		{"billions", 2_500_000_000, 2, true, "2.50B"},
		{"millions", 12_340_000, 1, true, "12.3M"},
		{"thousands", 1600, 0, true, "2K"},
		{"compact below threshold", 999, 2, true, "999.00"},
		{"negative compact", -3_000_000, 2, true, "-3.00M"},
		{"nan", math.NaN(), 2, false, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Number(tc.v, tc.decimals, tc.compact))
		})
	}
}

func TestNumberDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		assert.Equal(t, Currency(12_345_678.9, 2, true), Currency(12_345_678.9, 2, true))
	}
	assert.Equal(t, "$12.35M", Currency(12_345_678.9, 2, true))
	assert.Equal(t, "0", NumberString("abc", 2, false))
	assert.Equal(t, "1.50K", NumberString("1500", 2, true))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "+1.25%", Percentage(1.25, 2))
	assert.Equal(t, "-3.5%", Percentage(-3.5, 1))
	assert.Equal(t, "+0.00%", Percentage(0, 2))
	assert.Equal(t, "0%", Percentage(math.NaN(), 2))
}

func TestTokenAmount(t *testing.T) {
	assert.Equal(t, "1.5", TokenAmount("1500000", 6, 6))
	assert.Equal(t, "< 0.000001", TokenAmount("1", 18, 6))
	assert.Equal(t, "< 0.000001", TokenAmount("0", 18, 6))
	assert.Equal(t, "0", TokenAmount("garbage", 18, 6))
}

func TestShortenAndTruncate(t *testing.T) {
	addr := "0x1234567890abcdef1234567890abcdef12345678"
	assert.Equal(t, "0x1234...5678", ShortenAddress(addr, 4))
	assert.Equal(t, "0x12", ShortenAddress("0x12", 4))
	assert.Equal(t, "", ShortenAddress("", 4))

	assert.Equal(t, "hello", TruncateText("hello", 10))
	assert.Equal(t, "hello w...", TruncateText("hello world!", 10))
}

func TestSeverityAndTier(t *testing.T) {
	assert.Equal(t, SeverityLow, ImpactSeverity(0.5))
	assert.Equal(t, SeverityMedium, ImpactSeverity(1))
	assert.Equal(t, SeverityHigh, ImpactSeverity(4.99))
	assert.Equal(t, SeveritySevere, ImpactSeverity(5))

	assert.Equal(t, AprExceptional, AprTierOf(500))
	assert.Equal(t, AprHigh, AprTierOf(50))
	assert.Equal(t, AprGood, AprTierOf(20))
	assert.Equal(t, AprNormal, AprTierOf(19.9))
}
