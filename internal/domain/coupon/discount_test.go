package coupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		rule       Rule
		subtotal   int64
		wantAmount int64
		wantErr    error
	}{
		{
			name:       "ten percent off",
			rule:       Rule{DiscountType: DiscountPercentage, Value: decimal.NewFromInt(10)},
			subtotal:   2700,
			wantAmount: 270,
		},
		{
			name:       "percentage rounds to whole cents",
			rule:       Rule{DiscountType: DiscountPercentage, Value: decimal.NewFromInt(15)},
			subtotal:   873,
			wantAmount: 131, // round(130.95)
		},
		{
			name:       "fixed amount",
			rule:       Rule{DiscountType: DiscountFixed, Value: decimal.NewFromInt(500)},
			subtotal:   2700,
			wantAmount: 500,
		},
		{
			name:       "fixed capped at subtotal",
			rule:       Rule{DiscountType: DiscountFixed, Value: decimal.NewFromInt(5000)},
			subtotal:   900,
			wantAmount: 900,
		},
		{
			name: "max discount cap applies",
			rule: Rule{
				DiscountType:     DiscountPercentage,
				Value:            decimal.NewFromInt(50),
				MaxDiscountCents: 1000,
			},
			subtotal:   9000,
			wantAmount: 1000,
		},
		{
			name: "below minimum purchase",
			rule: Rule{
				DiscountType:     DiscountPercentage,
				Value:            decimal.NewFromInt(10),
				MinPurchaseCents: 3000,
			},
			subtotal: 2700,
			wantErr:  ErrMinPurchaseNotMet,
		},
		{
			name: "minimum purchase met exactly",
			rule: Rule{
				DiscountType:     DiscountPercentage,
				Value:            decimal.NewFromInt(10),
				MinPurchaseCents: 2700,
			},
			subtotal:   2700,
			wantAmount: 270,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(&tt.rule, tt.subtotal)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, got.AmountCents)
			assert.GreaterOrEqual(t, got.AmountCents, int64(0))
			assert.LessOrEqual(t, got.AmountCents, tt.subtotal)
		})
	}
}

func TestApply_UnknownTypeErrors(t *testing.T) {
	rule := Rule{DiscountType: "bogus", Value: decimal.NewFromInt(10)}

	_, err := Apply(&rule, 2700)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported discount type")
}
