package currency

import (
	"testing"

	"holiday-planner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	for _, x := range []float64{0, 0.01, 1, 950, 1234.56, 1e9} {
		usd, err := Convert(x, "USD")
		require.NoError(t, err)
		assert.Equal(t, x, usd, "USD conversion must be the identity")

		gbp, err := Convert(x, "GBP")
		require.NoError(t, err)
		assert.Equal(t, x*0.79, gbp)
	}
}

func TestConvert_CaseAndDefault(t *testing.T) {
	got, err := Convert(100, "gbp")
	require.NoError(t, err)
	assert.Equal(t, 100*0.79, got)

	got, err = Convert(100, "")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)
}

func TestConvert_UnknownCurrency(t *testing.T) {
	_, err := Convert(100, "EUR")
	assert.ErrorIs(t, err, models.ErrUnknownCurrency)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{950, "USD", "$950.00"},
		{1234.5, "USD", "$1,234.50"},
		{1000, "GBP", "£790.00"},
		{0, "GBP", "£0.00"},
	}
	for _, tt := range tests {
		got, err := Format(tt.amount, tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Format(1, "JPY")
	assert.ErrorIs(t, err, models.ErrUnknownCurrency)
}

func TestSupported(t *testing.T) {
	assert.Equal(t, []string{"GBP", "USD"}, Supported())
}
