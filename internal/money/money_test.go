package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFits(t *testing.T) {
	cases := map[string]bool{
		"0":           true,
		"0.01":        true,
		"99999999.99": true,
		"100000000":   false,
		"1.001":       false,
		"-5.50":       true,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Fits(decimal.RequireFromString(in)))
		})
	}
}

func TestValidAmount(t *testing.T) {
	assert.True(t, ValidAmount(decimal.RequireFromString("300")))
	assert.False(t, ValidAmount(decimal.Zero))
	assert.False(t, ValidAmount(decimal.RequireFromString("-1")))
	assert.False(t, ValidAmount(decimal.RequireFromString("0.005")))
}

func TestValidBalance(t *testing.T) {
	assert.True(t, ValidBalance(decimal.Zero))
	assert.False(t, ValidBalance(decimal.RequireFromString("-0.01")))
}

func TestParse(t *testing.T) {
	d, ok := Parse("12.34")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.34")))

	_, ok = Parse("abc")
	assert.False(t, ok)
	_, ok = Parse("1.234")
	assert.False(t, ok)
}
