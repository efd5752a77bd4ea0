package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberifyGroupsThousands(t *testing.T) {
	assert.Equal(t, "1,234,567", Numberify(1234567))
	assert.Equal(t, "42", Numberify(42))
}

func TestDecimalifyTwoFractionDigits(t *testing.T) {
	half, err := decimal.NewFromString("2.5")
	require.NoError(t, err)

	assert.Equal(t, "2.50", Decimalify(half))
	assert.Equal(t, "0.00", Decimalify(decimal.Zero))
}

func TestPercentifyOneFractionDigit(t *testing.T) {
	assert.Equal(t, "12.5%", Percentify(0.125))
	assert.Equal(t, "0.0%", Percentify(0))
}
