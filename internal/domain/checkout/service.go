package checkout

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/granola-store/internal/domain/catalog"
	"github.com/xenking/granola-store/internal/domain/coupon"
	"github.com/xenking/granola-store/internal/pricing"
)

// ErrEmptyLines is returned when a cart request carries no lines.
var ErrEmptyLines = errors.New("cart lines required")

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// InvalidPackSizeError indicates a line has a non-positive pack size.
type InvalidPackSizeError struct {
	ProductID string
}

func (e *InvalidPackSizeError) Error() string {
	return fmt.Sprintf("pack size must be greater than 0 for product %s", e.ProductID)
}

// CartRequest holds the input for quoting or placing an order.
type CartRequest struct {
	Lines      []pricing.CartLine
	CouponCode string
}

// QuoteResult holds a priced cart without persistence side effects.
type QuoteResult struct {
	Totals   pricing.CartTotals
	Products []catalog.Product
}

// PlaceOrderResult holds the output of a successfully placed order.
type PlaceOrderResult struct {
	Order    *Order
	Totals   pricing.CartTotals
	Products []catalog.Product
}

// Service encapsulates cart quoting and order placement. It validates input
// at the boundary (the pricing engine itself is total and clamps), resolves
// per-line base prices from the catalog, applies coupons against the
// pre-coupon subtotal, and persists placed orders.
type Service struct {
	products catalog.Repository
	coupons  coupon.Validator
	orders   Repository
	engine   *pricing.Engine
}

// NewService creates a checkout Service with the required dependencies.
func NewService(
	products catalog.Repository,
	coupons coupon.Validator,
	orders Repository,
	engine *pricing.Engine,
) *Service {
	return &Service{
		products: products,
		coupons:  coupons,
		orders:   orders,
		engine:   engine,
	}
}

// Quote prices a cart without persisting anything. Coupon validity is
// checked but no use is consumed.
func (s *Service) Quote(ctx context.Context, req CartRequest) (*QuoteResult, error) {
	lines, products, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	couponCents, err := s.couponDiscount(ctx, req.CouponCode, lines, false)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{
		Totals:   s.engine.CartTotals(lines, couponCents, req.CouponCode),
		Products: products,
	}, nil
}

// PlaceOrder validates the cart, applies the coupon (consuming a use),
// aggregates totals, and persists the order with per-line pricing records.
func (s *Service) PlaceOrder(ctx context.Context, req CartRequest) (*PlaceOrderResult, error) {
	lines, products, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	couponCents, err := s.couponDiscount(ctx, req.CouponCode, lines, true)
	if err != nil {
		return nil, err
	}

	totals := s.engine.CartTotals(lines, couponCents, req.CouponCode)

	o := &Order{
		ID:            uuid.New().String(),
		CouponCode:    req.CouponCode,
		ItemCount:     totals.ItemCount,
		SubtotalCents: totals.SubtotalCents,
		DiscountCents: totals.DiscountCents,
		ShippingCents: totals.ShippingCents,
		TaxCents:      totals.TaxCents,
		TotalCents:    totals.TotalCents,
		FreeShipping:  totals.FreeShipping,
		Items:         orderItems(totals.Items),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return &PlaceOrderResult{
		Order:    o,
		Totals:   totals,
		Products: products,
	}, nil
}

// resolveLines validates quantities and pack sizes, batch-fetches the
// referenced products, and fills in the catalog base price for lines without
// an explicit override.
func (s *Service) resolveLines(ctx context.Context, lines []pricing.CartLine) ([]pricing.CartLine, []catalog.Product, error) {
	if len(lines) == 0 {
		return nil, nil, ErrEmptyLines
	}

	ids := make([]string, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, nil, &InvalidQuantityError{ProductID: line.ProductID}
		}
		if line.PackSize <= 0 {
			return nil, nil, &InvalidPackSizeError{ProductID: line.ProductID}
		}
		ids[i] = line.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, errors.Wrap(err, "get products")
	}

	productMap := make(map[string]catalog.Product, len(fetched))
	for _, p := range fetched {
		productMap[p.ID] = p
	}

	resolved := make([]pricing.CartLine, len(lines))
	products := make([]catalog.Product, 0, len(lines))
	for i, line := range lines {
		p, ok := productMap[line.ProductID]
		if !ok {
			return nil, nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		products = append(products, p)

		// Default-resolution order: line override, then catalog price.
		if line.PriceCents <= 0 {
			line.PriceCents = p.PriceCents
		}
		resolved[i] = line
	}

	return resolved, products, nil
}

// couponDiscount validates the coupon against the pre-coupon subtotal and
// returns the discount cents. consume controls whether a use is burned.
func (s *Service) couponDiscount(ctx context.Context, code string, lines []pricing.CartLine, consume bool) (int64, error) {
	if code == "" {
		return 0, nil
	}

	subtotal := s.engine.CartTotals(lines, 0, "").SubtotalCents

	var (
		d   *coupon.Discount
		err error
	)
	if consume {
		d, err = s.coupons.Validate(ctx, code, subtotal)
	} else {
		d, err = s.coupons.Preview(ctx, code, subtotal)
	}
	if err != nil {
		return 0, errors.Wrap(err, "validate coupon")
	}
	return d.AmountCents, nil
}

// orderItems converts resolved line prices into persistable order lines,
// preserving the composite matching key.
func orderItems(items []pricing.LinePrice) []OrderItem {
	out := make([]OrderItem, len(items))
	for i, item := range items {
		out[i] = OrderItem{
			ProductID:      item.ProductID,
			PackSize:       item.PackSize,
			IsSubscription: item.IsSubscription,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
			DiscountCents:  item.DiscountCents,
		}
	}
	return out
}
