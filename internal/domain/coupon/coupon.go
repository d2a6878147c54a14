package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage-based discount to the cart
	// subtotal. Rule.Value is the percentage (10 means 10% off).
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a flat discount capped at the subtotal.
	// Rule.Value is the amount in cents.
	DiscountFixed DiscountType = "fixed"
)

var (
	// ErrInvalidCoupon is returned when a coupon code is not found or inactive.
	ErrInvalidCoupon = errors.New("invalid coupon code")
	// ErrCouponExpired is returned when a coupon is outside its valid time window.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrCouponUsageLimitReached is returned when a coupon has exhausted its allowed uses.
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")
	// ErrMinPurchaseNotMet is returned when the cart subtotal is below the
	// coupon's minimum purchase amount.
	ErrMinPurchaseNotMet = errors.New("minimum purchase amount not met")
)

// Rule defines a coupon's discount behaviour and eligibility constraints.
type Rule struct {
	Code             string
	DiscountType     DiscountType
	Value            decimal.Decimal
	MinPurchaseCents int64
	MaxDiscountCents int64
	Description      string
	ValidFrom        *time.Time
	ValidUntil       *time.Time
	MaxUses          int
	Uses             int
}

// Discount holds the computed discount in cents and a human-readable
// description. The pricing engine consumes AmountCents as an opaque
// pre-validated reduction.
type Discount struct {
	AmountCents int64
	Description string
}

// Repository provides lookup and mutation of coupon rules.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	IncrementUses(ctx context.Context, code string) error
}
