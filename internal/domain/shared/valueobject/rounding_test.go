package valueobject

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		decimals int32
		want     string
	}{
		{"rounds up at half", "2.345", 2, "2.35"},
		{"rounds down below half", "2.344", 2, "2.34"},
		{"binary-unfriendly half", "1.005", 2, "1.01"},
		{"negative half moves away from zero", "-2.345", 2, "-2.35"},
		{"integer rounding", "2.5", 0, "3"},
		{"already rounded", "230.00", 2, "230"},
		{"zero", "0", 2, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundHalfUp(decimal.RequireFromString(tt.value), tt.decimals)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestRoundHalfUp_Idempotent(t *testing.T) {
	values := []string{"0.005", "-0.005", "12.3449", "99999.995", "1.115", "3.14159", "-7.125"}
	for _, v := range values {
		once := RoundMoney(decimal.RequireFromString(v))
		twice := RoundMoney(once)
		assert.True(t, once.Equal(twice), "value %s: %s != %s", v, once, twice)
	}

	floats := []float64{0.1 + 0.2, 1.005, 2.675, -1.555, 1e6 + 0.125}
	for _, f := range floats {
		once := RoundHalfUpFloat(f, 2)
		assert.Equal(t, once, RoundHalfUpFloat(once, 2))
	}
}

func TestRoundHalfUpFloat(t *testing.T) {
	assert.Equal(t, 2.68, RoundHalfUpFloat(2.675, 2))
	assert.Equal(t, 0.3, RoundHalfUpFloat(0.1+0.2, 2))
	assert.True(t, math.IsNaN(RoundHalfUpFloat(math.NaN(), 2)))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"2.349", "2.34"},
		{"2.3", "2.3"},
		{"-2.341", "-2.35"},
		{"10", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := Truncate(decimal.RequireFromString(tt.value), 2)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestFixedString(t *testing.T) {
	v := decimal.RequireFromString("15")
	assert.Equal(t, "15.00", FixedString(&v, 2))
	assert.Equal(t, "0.00", FixedString(nil, 2))

	assert.Equal(t, "0.00", FixedStringFloat(math.NaN(), 2))
	assert.Equal(t, "0.00", FixedStringFloat(math.Inf(1), 2))
	assert.Equal(t, "7.50", FixedStringFloat(7.5, 2))
}

func TestPercentOf(t *testing.T) {
	got := PercentOf(decimal.NewFromInt(200), decimal.NewFromInt(15))
	assert.True(t, got.Equal(decimal.NewFromInt(30)))
}
