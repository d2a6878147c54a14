package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/granola-store/internal/domain/checkout"
)

const (
	createOrderSQL = `INSERT INTO orders (id, coupon_code, item_count,
		subtotal_cents, discount_cents, shipping_cents, tax_cents, total_cents,
		free_shipping)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	createOrderItemSQL = `INSERT INTO order_items (order_id, position,
		product_id, pack_size, is_subscription, quantity,
		unit_price_cents, subtotal_cents, discount_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

var _ checkout.Repository = (*OrderRepository)(nil)

// OrderRepository implements checkout.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists an order and its line items in a single transaction.
// Item position preserves cart input order so lines re-match downstream.
func (r *OrderRepository) Create(ctx context.Context, o *checkout.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin order transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, createOrderSQL,
		o.ID, o.CouponCode, o.ItemCount,
		o.SubtotalCents, o.DiscountCents, o.ShippingCents, o.TaxCents, o.TotalCents,
		o.FreeShipping,
	)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}

	for i, item := range o.Items {
		_, err = tx.Exec(ctx, createOrderItemSQL,
			o.ID, i,
			item.ProductID, item.PackSize, item.IsSubscription, item.Quantity,
			item.UnitPriceCents, item.SubtotalCents, item.DiscountCents,
		)
		if err != nil {
			return errors.Wrapf(err, "create order item %d for order %q", i, o.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrapf(err, "commit order %q", o.ID)
	}
	return nil
}
