package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/granola-store/internal/domain/catalog"
	"github.com/xenking/granola-store/internal/domain/coupon"
	"github.com/xenking/granola-store/internal/pricing"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID   map[string]catalog.Product
	getErr error
}

func (m *mockProductRepo) List(_ context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockCouponValidator struct {
	discount  *coupon.Discount
	err       error
	validated int
	previewed int
}

func (m *mockCouponValidator) Validate(_ context.Context, _ string, _ int64) (*coupon.Discount, error) {
	m.validated++
	return m.discount, m.err
}

func (m *mockCouponValidator) Preview(_ context.Context, _ string, _ int64) (*coupon.Discount, error) {
	m.previewed++
	return m.discount, m.err
}

type mockOrderRepo struct {
	lastOrder *Order
	err       error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	m.lastOrder = o
	return m.err
}

// --- Helpers ---

func newProductRepo(products ...catalog.Product) *mockProductRepo {
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &mockProductRepo{byID: byID}
}

func newTestService(products *mockProductRepo, coupons *mockCouponValidator, orders *mockOrderRepo) *Service {
	return NewService(products, coupons, orders, pricing.NewEngine(pricing.DefaultConfig()))
}

func granola(id, name string) catalog.Product {
	return catalog.Product{ID: id, Name: name, PriceCents: 900, Category: "granola"}
}

// --- Tests ---

func TestPlaceOrder_EmptyLines(t *testing.T) {
	svc := newTestService(newProductRepo(), &mockCouponValidator{}, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), CartRequest{})
	require.ErrorIs(t, err, ErrEmptyLines)
}

func TestPlaceOrder_InvalidQuantity(t *testing.T) {
	svc := newTestService(newProductRepo(granola("g1", "Maple")), &mockCouponValidator{}, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), CartRequest{
		Lines: []pricing.CartLine{{ProductID: "g1", Quantity: 0, PackSize: 3}},
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, "g1", iqErr.ProductID)
}

func TestPlaceOrder_InvalidPackSize(t *testing.T) {
	svc := newTestService(newProductRepo(granola("g1", "Maple")), &mockCouponValidator{}, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), CartRequest{
		Lines: []pricing.CartLine{{ProductID: "g1", Quantity: 1, PackSize: -1}},
	})

	var psErr *InvalidPackSizeError
	require.ErrorAs(t, err, &psErr)
	assert.Equal(t, "g1", psErr.ProductID)
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	svc := newTestService(newProductRepo(), &mockCouponValidator{}, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), CartRequest{
		Lines: []pricing.CartLine{{ProductID: "missing", Quantity: 1, PackSize: 1}},
	})

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, "missing", pnfErr.ProductID)
}

func TestPlaceOrder_NoCoupon(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := newTestService(
		newProductRepo(granola("g1", "Maple"), granola("g2", "Cocoa")),
		&mockCouponValidator{},
		orders,
	)

	result, err := svc.PlaceOrder(context.Background(), CartRequest{
		Lines: []pricing.CartLine{
			{ProductID: "g1", Quantity: 2, PackSize: 3},
			{ProductID: "g2", Quantity: 1, PackSize: 1},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, orders.lastOrder)

	o := result.Order
	assert.Equal(t, 7, o.ItemCount)
	assert.Equal(t, int64(873*6+900), o.SubtotalCents)
	assert.Equal(t, int64(27*6), o.DiscountCents)
	assert.True(t, o.FreeShipping)
	assert.Zero(t, o.ShippingCents)
	assert.Equal(t, o.SubtotalCents, o.TotalCents)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(873), o.Items[0].UnitPriceCents)
	assert.Len(t, result.Products, 2)
}

func TestPlaceOrder_WithCoupon(t *testing.T) {
	cv := &mockCouponValidator{
		discount: &coupon.Discount{AmountCents: 300, Description: "3.00 off"},
	}
	svc := newTestService(newProductRepo(granola("g1", "Maple")), cv, &mockOrderRepo{})

	result, err := svc.PlaceOrder(context.Background(), CartRequest{
		Lines:      []pricing.CartLine{{ProductID: "g1", Quantity: 3, PackSize: 1}},
		CouponCode: "SAVE3",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, cv.validated)
	assert.Zero(t, cv.previewed)

	o := result.Order
	assert.Equal(t, int64(2700), o.SubtotalCents)
	assert.Equal(t, int64(300), o.DiscountCents)
	// 3 units, 2700 subtotal: shipping still applies.
	assert.Equal(t, int64(2700-300+500), o.TotalCents)
	assert.Equal(t, "SAVE3", o.CouponCode)
}

func TestPlaceOrder_InvalidCoupon(t *testing.T) {
	cv := &mockCouponValidator{err: coupon.ErrInvalidCoupon}
	svc := newTestService(newProductRepo(granola("g1", "Maple")), cv, &mockOrderRepo{})

	_, err := svc.PlaceOrder(context.Background(), CartRequest{
		Lines:      []pricing.CartLine{{ProductID: "g1", Quantity: 1, PackSize: 1}},
		CouponCode: "BOGUS",
	})

	require.ErrorIs(t, err, coupon.ErrInvalidCoupon)
}

func TestPlaceOrder_LineOverrideFallsBackToCatalogPrice(t *testing.T) {
	product := granola("g1", "Maple")
	product.PriceCents = 1100
	svc := newTestService(newProductRepo(product), &mockCouponValidator{}, &mockOrderRepo{})

	result, err := svc.PlaceOrder(context.Background(), CartRequest{
		Lines: []pricing.CartLine{{ProductID: "g1", Quantity: 1, PackSize: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1100), result.Order.SubtotalCents)
}

func TestPlaceOrder_CreateError(t *testing.T) {
	svc := newTestService(
		newProductRepo(granola("g1", "Maple")),
		&mockCouponValidator{},
		&mockOrderRepo{err: errors.New("db write failed")},
	)

	_, err := svc.PlaceOrder(context.Background(), CartRequest{
		Lines: []pricing.CartLine{{ProductID: "g1", Quantity: 1, PackSize: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create order")
}

func TestQuote_DoesNotPersistOrConsume(t *testing.T) {
	cv := &mockCouponValidator{
		discount: &coupon.Discount{AmountCents: 200},
	}
	orders := &mockOrderRepo{}
	svc := newTestService(newProductRepo(granola("g1", "Maple")), cv, orders)

	result, err := svc.Quote(context.Background(), CartRequest{
		Lines:      []pricing.CartLine{{ProductID: "g1", Quantity: 4, PackSize: 1}},
		CouponCode: "SAVE2",
	})

	require.NoError(t, err)
	assert.Nil(t, orders.lastOrder)
	assert.Zero(t, cv.validated)
	assert.Equal(t, 1, cv.previewed)

	assert.Equal(t, int64(3600), result.Totals.SubtotalCents)
	assert.True(t, result.Totals.FreeShipping)
	assert.Equal(t, int64(3400), result.Totals.TotalCents)
}
