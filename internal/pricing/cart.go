package pricing

import "github.com/shopspring/decimal"

// CartTotals is the aggregated pricing for a full cart.
type CartTotals struct {
	// ItemCount is the total number of physical units (quantity × pack size
	// summed across lines).
	ItemCount int

	// SubtotalCents is the pre-coupon sum of line subtotals.
	SubtotalCents int64

	// DiscountCents is the sum of per-line pack/subscription discounts plus
	// the coupon discount.
	DiscountCents int64

	// ShippingCents is the single cart-level shipping charge, zero when the
	// cart qualifies for free shipping.
	ShippingCents int64

	// TaxCents is the VAT portion backed out of the VAT-inclusive subtotal.
	// It is informational: already contained in SubtotalCents, never added
	// to the total.
	TaxCents int64

	// TotalCents is subtotal − coupon discount + shipping, floored at zero.
	TotalCents int64

	FreeShipping bool

	CouponCode          string
	CouponDiscountCents int64

	// Items holds the per-line pricing in input order, for re-matching
	// against order line items downstream.
	Items []LinePrice
}

// Line re-matches a priced line by its (product, pack size, subscription)
// composite key. It returns the first match in input order.
func (t *CartTotals) Line(productID string, packSize int, isSubscription bool) (LinePrice, bool) {
	for _, item := range t.Items {
		if item.Matches(productID, packSize, isSubscription) {
			return item, true
		}
	}
	return LinePrice{}, false
}

// CartTotals aggregates the given lines into cart-level totals.
//
// couponDiscountCents is a pre-validated flat reduction supplied by the
// coupon collaborator; it is applied as-is against the subtotal and is not
// re-validated here. Negative values are treated as zero.
//
// Free shipping is a cart-level OR across four independent conditions: the
// unit-count threshold, the subtotal threshold, any subscription line, or any
// line at the free-shipping pack size. Satisfying any one waives shipping for
// the entire cart.
//
// Tax is extracted from the VAT-inclusive subtotal before the coupon is
// subtracted: it reflects the goods value, not the post-discount price.
//
// An empty cart yields all-zero totals with an empty Items slice, not an
// error.
func (e *Engine) CartTotals(lines []CartLine, couponDiscountCents int64, couponCode string) CartTotals {
	totals := CartTotals{Items: make([]LinePrice, 0, len(lines))}
	if len(lines) == 0 {
		return totals
	}

	free := false
	for _, line := range lines {
		lp := e.LinePrice(line)
		totals.Items = append(totals.Items, lp)

		if line.Quantity > 0 && line.PackSize > 0 {
			totals.ItemCount += line.Quantity * line.PackSize
		}
		totals.SubtotalCents += lp.SubtotalCents
		totals.DiscountCents += lp.DiscountCents
		free = free || lp.FreeShipping
	}

	if totals.ItemCount >= e.cfg.FreeShippingUnits || totals.SubtotalCents >= e.cfg.FreeShippingAmountCents {
		free = true
	}
	totals.FreeShipping = free
	if !free {
		totals.ShippingCents = e.cfg.ShippingCents
	}

	totals.TaxCents = e.extractVAT(totals.SubtotalCents)

	coupon := max(0, couponDiscountCents)
	totals.CouponCode = couponCode
	totals.CouponDiscountCents = coupon
	totals.DiscountCents += coupon

	totals.TotalCents = max(0, totals.SubtotalCents-coupon+totals.ShippingCents)
	return totals
}

// extractVAT backs the tax amount out of a VAT-inclusive cents value:
// tax = round(gross − gross / (1 + rate)), rounded once on the remainder.
func (e *Engine) extractVAT(grossCents int64) int64 {
	gross := decimal.NewFromInt(grossCents)
	net := gross.Div(e.vatDivisor)
	return gross.Sub(net).Round(0).IntPart()
}
