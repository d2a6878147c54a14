package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Validator validates a coupon code against a cart subtotal and returns the
// computed discount. Validate consumes a use; Preview does not, and is meant
// for cart quotes that must not burn the coupon.
type Validator interface {
	Validate(ctx context.Context, code string, subtotalCents int64) (*Discount, error)
	Preview(ctx context.Context, code string, subtotalCents int64) (*Discount, error)
}

// RepoValidator implements Validator by looking up coupon rules from a
// Repository and applying them via Apply.
type RepoValidator struct {
	repo Repository
	now  func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given Repository.
func NewRepoValidator(repo Repository) *RepoValidator {
	return &RepoValidator{repo: repo, now: time.Now}
}

// Validate looks up the coupon rule for the given code, checks temporal
// validity and usage limits, applies it to the subtotal, and increments the
// usage counter on success.
func (v *RepoValidator) Validate(ctx context.Context, code string, subtotalCents int64) (*Discount, error) {
	d, err := v.check(ctx, code, subtotalCents)
	if err != nil {
		return nil, err
	}

	if err := v.repo.IncrementUses(ctx, code); err != nil {
		return nil, errors.Wrap(err, "increment coupon uses")
	}

	return d, nil
}

// Preview is Validate without the usage increment.
func (v *RepoValidator) Preview(ctx context.Context, code string, subtotalCents int64) (*Discount, error) {
	return v.check(ctx, code, subtotalCents)
}

func (v *RepoValidator) check(ctx context.Context, code string, subtotalCents int64) (*Discount, error) {
	rule, err := v.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	now := v.now()

	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return nil, ErrCouponExpired
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return nil, ErrCouponExpired
	}

	if rule.MaxUses > 0 && rule.Uses >= rule.MaxUses {
		return nil, ErrCouponUsageLimitReached
	}

	d, err := Apply(rule, subtotalCents)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
