package coupon

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Apply calculates the discount for the given rule against a VAT-inclusive
// cart subtotal in cents. It returns ErrMinPurchaseNotMet when the subtotal
// is below the rule's minimum purchase amount.
func Apply(rule *Rule, subtotalCents int64) (Discount, error) {
	if subtotalCents < rule.MinPurchaseCents {
		return Discount{}, ErrMinPurchaseNotMet
	}

	var amount int64
	switch rule.DiscountType {
	case DiscountPercentage:
		amount = percentageOf(subtotalCents, rule.Value)
	case DiscountFixed:
		amount = rule.Value.Round(0).IntPart()
	default:
		return Discount{}, errors.Errorf("unsupported discount type: %q", rule.DiscountType)
	}

	// A discount never exceeds the subtotal, the configured cap, or zero
	// from below.
	amount = min(amount, subtotalCents)
	if rule.MaxDiscountCents > 0 {
		amount = min(amount, rule.MaxDiscountCents)
	}
	amount = max(amount, 0)

	return Discount{
		AmountCents: amount,
		Description: rule.Description,
	}, nil
}

// percentageOf returns value% of the cents amount, rounded to whole cents.
func percentageOf(cents int64, value decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(value).Div(hundred).Round(0).IntPart()
}
