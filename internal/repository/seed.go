package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/granola-store/internal/domain/catalog"
	"github.com/xenking/granola-store/internal/domain/coupon"
)

const upsertProductSQL = `INSERT INTO products
	(id, name, description, price_cents, category,
	 image_thumbnail, image_mobile, image_tablet, image_desktop)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		price_cents = EXCLUDED.price_cents,
		category = EXCLUDED.category,
		image_thumbnail = EXCLUDED.image_thumbnail,
		image_mobile = EXCLUDED.image_mobile,
		image_tablet = EXCLUDED.image_tablet,
		image_desktop = EXCLUDED.image_desktop`

const upsertCouponSQL = `INSERT INTO coupons
	(code, discount_type, value, min_purchase_cents, max_discount_cents,
	 description, valid_from, valid_until, max_uses, active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
	ON CONFLICT (code) DO UPDATE SET
		discount_type = EXCLUDED.discount_type,
		value = EXCLUDED.value,
		min_purchase_cents = EXCLUDED.min_purchase_cents,
		max_discount_cents = EXCLUDED.max_discount_cents,
		description = EXCLUDED.description,
		valid_from = EXCLUDED.valid_from,
		valid_until = EXCLUDED.valid_until,
		max_uses = EXCLUDED.max_uses,
		active = TRUE`

const upsertAPIKeySQL = `INSERT INTO api_keys (key_hash, name, scopes, active)
	VALUES ($1, $2, $3, TRUE)
	ON CONFLICT (key_hash) DO UPDATE SET
		name = EXCLUDED.name,
		scopes = EXCLUDED.scopes,
		active = TRUE`

// Seeder writes catalog and promo fixtures. Used by the seed-db and
// promo-import commands, not by the API server.
type Seeder struct {
	pool *pgxpool.Pool
}

// NewSeeder returns a Seeder backed by the given pool.
func NewSeeder(pool *pgxpool.Pool) *Seeder {
	return &Seeder{pool: pool}
}

// UpsertProduct inserts or refreshes one catalog product.
func (s *Seeder) UpsertProduct(ctx context.Context, p catalog.Product) error {
	_, err := s.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Description, p.PriceCents, p.Category,
		p.Image.Thumbnail, p.Image.Mobile, p.Image.Tablet, p.Image.Desktop,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert product %s", p.ID)
	}
	return nil
}

// UpsertCoupon inserts or refreshes one coupon rule and reactivates it.
func (s *Seeder) UpsertCoupon(ctx context.Context, r coupon.Rule) error {
	_, err := s.pool.Exec(ctx, upsertCouponSQL,
		r.Code, string(r.DiscountType), r.Value,
		r.MinPurchaseCents, r.MaxDiscountCents, r.Description,
		r.ValidFrom, r.ValidUntil, r.MaxUses,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert coupon %s", r.Code)
	}
	return nil
}

// UpsertAPIKey inserts or refreshes an API key by its hash.
func (s *Seeder) UpsertAPIKey(ctx context.Context, keyHash, name string, scopes []string) error {
	_, err := s.pool.Exec(ctx, upsertAPIKeySQL, keyHash, name, scopes)
	if err != nil {
		return errors.Wrap(err, "upsert api key")
	}
	return nil
}
