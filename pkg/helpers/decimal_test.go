package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
		invalid bool
	}{
		{in: "150", want: "150"},
		{in: " 0.01 ", want: "0.01"},
		{in: "1.5e3", want: "1500"},
		{in: "0.00000001", want: "0.00000001"},
		{in: "0.000000001", wantErr: ErrDecimalRange},
		{in: "1e999999", wantErr: ErrDecimalRange},
		{in: "1e-999999", wantErr: ErrDecimalRange},
		{in: "1e2000000000", wantErr: ErrDecimalRange},
		{in: "1234567890123456789012345678901", wantErr: ErrDecimalRange},
		{in: "abc", invalid: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDecimal(tc.in)
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.invalid:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
				assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), got.String())
			}
		})
	}
}

func TestDecimalInRange(t *testing.T) {
	assert.True(t, DecimalInRange(decimal.NewFromInt(170)))
	assert.False(t, DecimalInRange(decimal.New(1, 19)))
	assert.False(t, DecimalInRange(decimal.New(1, -9)))
}
