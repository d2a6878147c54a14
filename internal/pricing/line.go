package pricing

// CartLine describes one cart entry as supplied by the caller. The engine
// never mutates it and performs no product lookup; ProductID is carried
// through opaquely.
type CartLine struct {
	ProductID string

	// Quantity is the number of packs (or subscription deliveries) ordered.
	Quantity int

	// PackSize determines both the discount tier and the physical unit
	// count. Sizes outside the catalog table still drive the unit count but
	// price without a discount.
	PackSize int

	// IsSubscription switches the line to subscription pricing, overriding
	// the pack-discount tier. PackSize still determines the unit count.
	IsSubscription bool

	// PriceCents optionally overrides the catalog base price for this line.
	// Zero means "use the configured base price".
	PriceCents int64
}

// LinePrice is the resolved pricing for a single cart line. It is recomputed
// on every call and never cached.
type LinePrice struct {
	ProductID      string
	Quantity       int
	PackSize       int
	IsSubscription bool

	UnitPriceCents int64
	SubtotalCents  int64
	DiscountCents  int64
	FreeShipping   bool
	ShippingCents  int64
}

// Matches reports whether this line corresponds to the given composite key.
// The (product, pack size, subscription) triple is the contract callers use
// to re-match lines after aggregation.
func (p LinePrice) Matches(productID string, packSize int, isSubscription bool) bool {
	return p.ProductID == productID && p.PackSize == packSize && p.IsSubscription == isSubscription
}

// LinePrice resolves the pricing for a single cart line.
//
// A non-positive quantity or pack size yields an all-zero result rather than
// an error: the engine is total over representable inputs, and boundary
// validation belongs to the request handlers (see checkout.Service).
func (e *Engine) LinePrice(line CartLine) LinePrice {
	lp := LinePrice{
		ProductID:      line.ProductID,
		Quantity:       line.Quantity,
		PackSize:       line.PackSize,
		IsSubscription: line.IsSubscription,
	}
	if line.Quantity <= 0 || line.PackSize <= 0 {
		return lp
	}

	base := line.PriceCents
	if base <= 0 {
		base = e.cfg.BasePriceCents
	}

	discount := e.PackDiscount(line.PackSize)
	if line.IsSubscription {
		discount = e.cfg.SubscriptionDiscount
	}

	unit := discountedUnitPrice(base, discount)
	units := int64(line.PackSize) * int64(line.Quantity)

	lp.UnitPriceCents = unit
	lp.SubtotalCents = unit * units
	lp.DiscountCents = max(0, (base-unit)*units)
	lp.FreeShipping = line.IsSubscription || line.PackSize >= e.cfg.FreeShippingPackSize
	if !lp.FreeShipping {
		lp.ShippingCents = e.cfg.ShippingCents
	}
	return lp
}
