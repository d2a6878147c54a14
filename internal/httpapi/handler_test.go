package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/granola-store/internal/domain/auth"
	"github.com/xenking/granola-store/internal/domain/catalog"
	"github.com/xenking/granola-store/internal/domain/checkout"
	"github.com/xenking/granola-store/internal/domain/coupon"
	"github.com/xenking/granola-store/internal/pricing"
)

type stubProductRepo struct {
	products []catalog.Product
	err      error
}

func (s *stubProductRepo) List(context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *stubProductRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range s.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type stubCouponValidator struct {
	discount *coupon.Discount
	err      error
}

func (s *stubCouponValidator) Validate(context.Context, string, int64) (*coupon.Discount, error) {
	return s.discount, s.err
}

func (s *stubCouponValidator) Preview(context.Context, string, int64) (*coupon.Discount, error) {
	return s.discount, s.err
}

type stubOrderRepo struct {
	created *checkout.Order
	err     error
}

func (s *stubOrderRepo) Create(_ context.Context, o *checkout.Order) error {
	if s.err != nil {
		return s.err
	}
	s.created = o
	return nil
}

type stubAPIKeyRepo struct {
	key *auth.APIKey
	err error
}

func (s *stubAPIKeyRepo) FindByHash(context.Context, string) (*auth.APIKey, error) {
	return s.key, s.err
}

func testCatalog() []catalog.Product {
	return []catalog.Product{
		{
			ID:         "granola-classic",
			Name:       "Classic Oat & Honey",
			PriceCents: 900,
			Category:   "granola",
			Image:      catalog.Image{Thumbnail: "/images/classic-thumbnail.jpg"},
		},
		{
			ID:         "granola-berry-almond",
			Name:       "Berry Almond",
			PriceCents: 900,
			Category:   "granola",
			Image:      catalog.Image{Thumbnail: "/images/berry-almond-thumbnail.jpg"},
		},
	}
}

func newTestHandler(t *testing.T, products *stubProductRepo, coupons *stubCouponValidator, orders *stubOrderRepo) *Handler {
	t.Helper()

	engine := pricing.NewEngine(pricing.DefaultConfig())
	svc := checkout.NewService(products, coupons, orders, engine)
	return NewHandler(
		Config{ImageBaseURL: "https://cdn.example.com"},
		products, svc, engine,
	)
}

func noAuth(next http.Handler) http.Handler { return next }

func doRequest(t *testing.T, h *Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.Routes(noAuth).ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListProducts(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()}, &stubCouponValidator{}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "granola-classic", out[0]["id"])
	assert.Equal(t, float64(900), out[0]["priceCents"])

	image := out[0]["image"].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/images/classic-thumbnail.jpg", image["thumbnail"])
}

func TestGetProduct(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()}, &stubCouponValidator{}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/products/granola-berry-almond", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "granola-berry-almond", decodeBody(t, rec)["id"])
}

func TestGetProduct_NotFound(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()}, &stubCouponValidator{}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/products/granola-unknown", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(http.StatusNotFound), body["code"])
	assert.Equal(t, "product not found", body["message"])
}

func TestPackOptions(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{}, &stubCouponValidator{}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/pack-options", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 4)

	assert.Equal(t, float64(6), out[3]["size"])
	assert.Equal(t, float64(810), out[3]["unitPriceCents"])
	assert.Equal(t, float64(10), out[3]["discountPercentage"])
	assert.Equal(t, true, out[3]["freeShipping"])
}

func TestSubscriptionInfo(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{}, &stubCouponValidator{}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodGet, "/subscription", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(6), body["packSize"])
	assert.Equal(t, float64(15), body["discountPercentage"])
	assert.Equal(t, float64(765), body["unitPriceCents"])
	assert.Equal(t, float64(4590), body["totalPriceCents"])
}

func TestQuoteCart(t *testing.T) {
	orders := &stubOrderRepo{}
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()}, &stubCouponValidator{}, orders)

	rec := doRequest(t, h, http.MethodPost, "/cart/quote", map[string]any{
		"lines": []map[string]any{
			{"productId": "granola-classic", "quantity": 4, "packSize": 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(4), body["itemCount"])
	assert.Equal(t, float64(3600), body["subtotalCents"])
	assert.Equal(t, float64(0), body["shippingCents"])
	assert.Equal(t, true, body["freeShipping"])
	assert.Equal(t, float64(327), body["taxCents"])
	assert.Equal(t, float64(3600), body["totalCents"])
	assert.NotContains(t, body, "couponCode")

	assert.Nil(t, orders.created, "quote must not persist an order")
}

func TestQuoteCart_BadBody(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()}, &stubCouponValidator{}, &stubOrderRepo{})

	req := httptest.NewRequest(http.MethodPost, "/cart/quote", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Routes(noAuth).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteCart_MissingLines(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()}, &stubCouponValidator{}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodPost, "/cart/quote", map[string]any{"lines": []map[string]any{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteCart_UnknownProduct(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()}, &stubCouponValidator{}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodPost, "/cart/quote", map[string]any{
		"lines": []map[string]any{
			{"productId": "granola-unknown", "quantity": 1, "packSize": 1},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteCart_InvalidQuantity(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()}, &stubCouponValidator{}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodPost, "/cart/quote", map[string]any{
		"lines": []map[string]any{
			{"productId": "granola-classic", "quantity": 0, "packSize": 1},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteCart_InvalidCoupon(t *testing.T) {
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()},
		&stubCouponValidator{err: coupon.ErrInvalidCoupon}, &stubOrderRepo{})

	rec := doRequest(t, h, http.MethodPost, "/cart/quote", map[string]any{
		"lines": []map[string]any{
			{"productId": "granola-classic", "quantity": 1, "packSize": 1},
		},
		"couponCode": "BOGUS",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid coupon code", decodeBody(t, rec)["message"])
}

func TestPlaceOrder(t *testing.T) {
	orders := &stubOrderRepo{}
	h := newTestHandler(t, &stubProductRepo{products: testCatalog()},
		&stubCouponValidator{discount: &coupon.Discount{AmountCents: 300}}, orders)

	rec := doRequest(t, h, http.MethodPost, "/orders", map[string]any{
		"lines": []map[string]any{
			{"productId": "granola-classic", "quantity": 3, "packSize": 1},
		},
		"couponCode": "SAVE300",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "SAVE300", body["couponCode"])
	assert.Equal(t, float64(2700), body["subtotalCents"])
	// 2700 - 300 coupon + 500 shipping.
	assert.Equal(t, float64(2900), body["totalCents"])

	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "granola-classic", items[0].(map[string]any)["productId"])

	require.NotNil(t, orders.created)
	assert.Equal(t, body["id"], orders.created.ID)
}

func TestRequireAPIKey(t *testing.T) {
	pepper := []byte("pepper")
	rawKey := "apikey_test_123"
	hash := HashAPIKey(pepper, rawKey)

	tests := []struct {
		name     string
		header   string
		repo     *stubAPIKeyRepo
		wantCode int
	}{
		{
			name:     "missing key",
			repo:     &stubAPIKeyRepo{err: auth.ErrNotFound},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown key",
			header:   "apikey_other",
			repo:     &stubAPIKeyRepo{err: auth.ErrNotFound},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "stored hash mismatch",
			header:   rawKey,
			repo:     &stubAPIKeyRepo{key: &auth.APIKey{KeyHash: HashAPIKey(pepper, "different")}},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "valid key",
			header:   rawKey,
			repo:     &stubAPIKeyRepo{key: &auth.APIKey{KeyHash: hash}},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/orders", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			RequireAPIKey(tt.repo, pepper)(next).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
