package checkout

import (
	"context"
	"time"
)

// Order represents a completed customer order with the full cart-level
// pricing breakdown. All monetary fields are cents.
type Order struct {
	ID            string
	CouponCode    string
	ItemCount     int
	SubtotalCents int64
	DiscountCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
	FreeShipping  bool
	Items         []OrderItem
	CreatedAt     time.Time
}

// OrderItem is one persisted order line. The (ProductID, PackSize,
// IsSubscription) triple is the composite key used to match the line back to
// its cart input and to payment-session line items downstream.
type OrderItem struct {
	ProductID      string
	PackSize       int
	IsSubscription bool
	Quantity       int
	UnitPriceCents int64
	SubtotalCents  int64
	DiscountCents  int64
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
}
