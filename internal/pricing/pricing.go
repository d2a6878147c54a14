// Package pricing implements the storefront's pack-based discount pricing,
// subscription pricing, free-shipping thresholds, VAT extraction, and
// cart-level aggregation. All monetary values are integer cents; intermediate
// discount arithmetic uses decimal to avoid float rounding drift, with a
// single rounding step on the final cents value.
//
// The engine is pure and stateless: every method derives its result from the
// inputs and the immutable Config, so it is safe for unsynchronized
// concurrent use.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Config holds the catalog pricing constants. It is fixed at construction
// time; tests inject alternate tables instead of mutating shared globals.
type Config struct {
	// BasePriceCents is the single-unit catalog price used when a cart line
	// does not carry its own price override.
	BasePriceCents int64

	// PackSizes lists the purchasable pack sizes in display order.
	PackSizes []int

	// PackDiscounts maps a pack size to its discount ratio in [0,1).
	// Sizes absent from the table price without a discount.
	PackDiscounts map[int]decimal.Decimal

	// SubscriptionDiscount is the flat discount ratio for subscription
	// lines, independent of the pack-size tiers.
	SubscriptionDiscount decimal.Decimal

	// SubscriptionPackSize is the fixed pack size subscriptions ship at.
	SubscriptionPackSize int

	// ShippingCents is the standard per-cart shipping charge.
	ShippingCents int64

	// FreeShippingPackSize waives shipping for any line at or above this
	// pack size.
	FreeShippingPackSize int

	// FreeShippingUnits waives shipping for carts with at least this many
	// physical units.
	FreeShippingUnits int

	// FreeShippingAmountCents waives shipping for carts at or above this
	// pre-coupon subtotal.
	FreeShippingAmountCents int64

	// VATRate is the tax rate already included in all catalog prices.
	VATRate decimal.Decimal
}

// DefaultConfig returns the production catalog configuration: a 9.00 base
// price, pack tiers of 3/5/10 percent off for 3/4/6-packs, 15 percent off
// subscriptions, and free shipping from 4 units or a 35.00 subtotal.
func DefaultConfig() Config {
	return Config{
		BasePriceCents: 900,
		PackSizes:      []int{1, 3, 4, 6},
		PackDiscounts: map[int]decimal.Decimal{
			1: decimal.Zero,
			3: decimal.NewFromFloat(0.03),
			4: decimal.NewFromFloat(0.05),
			6: decimal.NewFromFloat(0.10),
		},
		SubscriptionDiscount:    decimal.NewFromFloat(0.15),
		SubscriptionPackSize:    6,
		ShippingCents:           500,
		FreeShippingPackSize:    4,
		FreeShippingUnits:       4,
		FreeShippingAmountCents: 3500,
		VATRate:                 decimal.NewFromFloat(0.10),
	}
}

// Engine computes prices and cart totals against a fixed Config.
type Engine struct {
	cfg Config

	// vatDivisor caches 1+VATRate for tax extraction.
	vatDivisor decimal.Decimal
}

// NewEngine creates an Engine closed over the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		vatDivisor: one.Add(cfg.VATRate),
	}
}

// Config returns the engine's pricing configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// PackDiscount returns the discount ratio for the given pack size.
// Unrecognized sizes fall back to no discount rather than erroring; callers
// that need strict membership must check the size against Config.PackSizes.
func (e *Engine) PackDiscount(packSize int) decimal.Decimal {
	if d, ok := e.cfg.PackDiscounts[packSize]; ok {
		return d
	}
	return decimal.Zero
}

// PackUnitPrice returns the per-unit price in cents for the given pack size:
// round(base × (1 − discount)), rounded once on the final cents value.
func (e *Engine) PackUnitPrice(packSize int) int64 {
	return discountedUnitPrice(e.cfg.BasePriceCents, e.PackDiscount(packSize))
}

// SubscriptionUnitPrice returns the per-unit subscription price in cents,
// independent of pack size.
func (e *Engine) SubscriptionUnitPrice() int64 {
	return discountedUnitPrice(e.cfg.BasePriceCents, e.cfg.SubscriptionDiscount)
}

// discountedUnitPrice applies a discount ratio to a cents price and rounds
// half away from zero to whole cents.
func discountedUnitPrice(baseCents int64, discount decimal.Decimal) int64 {
	return decimal.NewFromInt(baseCents).Mul(one.Sub(discount)).Round(0).IntPart()
}
