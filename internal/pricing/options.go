package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PackOption describes one purchasable pack size for catalog display.
type PackOption struct {
	Size               int
	UnitPriceCents     int64
	DiscountPercentage int
	FreeShipping       bool
	Label              string
}

// SubscriptionInfo describes the fixed subscription offer. The pack size is
// a catalog decision, not user-selectable.
type SubscriptionInfo struct {
	PackSize            int
	DiscountPercentage  int
	UnitPriceCents      int64
	TotalPriceCents     int64
	MonthlySavingsCents int64
}

// PackOptions enumerates the catalog pack sizes in display order with their
// resolved unit prices, integer discount percentages, and free-shipping
// eligibility.
func (e *Engine) PackOptions() []PackOption {
	opts := make([]PackOption, 0, len(e.cfg.PackSizes))
	for _, size := range e.cfg.PackSizes {
		opts = append(opts, PackOption{
			Size:               size,
			UnitPriceCents:     e.PackUnitPrice(size),
			DiscountPercentage: ratioToPercent(e.PackDiscount(size)),
			FreeShipping:       size >= e.cfg.FreeShippingPackSize,
			Label:              packLabel(size),
		})
	}
	return opts
}

// SubscriptionInfo returns the subscription offer: the fixed pack size at the
// subscription unit price, with the monthly savings versus buying the same
// units at base price.
func (e *Engine) SubscriptionInfo() SubscriptionInfo {
	unit := e.SubscriptionUnitPrice()
	size := e.cfg.SubscriptionPackSize
	return SubscriptionInfo{
		PackSize:            size,
		DiscountPercentage:  ratioToPercent(e.cfg.SubscriptionDiscount),
		UnitPriceCents:      unit,
		TotalPriceCents:     unit * int64(size),
		MonthlySavingsCents: (e.cfg.BasePriceCents - unit) * int64(size),
	}
}

func ratioToPercent(d decimal.Decimal) int {
	return int(d.Mul(hundred).Round(0).IntPart())
}

func packLabel(size int) string {
	if size == 1 {
		return "Single pouch"
	}
	return strconv.Itoa(size) + "-pack"
}
