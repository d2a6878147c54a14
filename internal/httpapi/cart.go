package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/granola-store/internal/domain/checkout"
	"github.com/xenking/granola-store/internal/domain/coupon"
	"github.com/xenking/granola-store/internal/pricing"
)

// cartLineRequest is one line of a cart request body. Quantity and pack size
// signs are validated by the checkout service so malformed lines map to
// specific error messages rather than a generic validation failure.
type cartLineRequest struct {
	ProductID      string `json:"productId" validate:"required"`
	Quantity       int    `json:"quantity"`
	PackSize       int    `json:"packSize"`
	IsSubscription bool   `json:"isSubscription"`
	PriceCents     int64  `json:"priceCents" validate:"gte=0"`
}

type cartRequest struct {
	Lines      []cartLineRequest `json:"lines" validate:"required,min=1,dive"`
	CouponCode string            `json:"couponCode"`
}

// decodeCartRequest parses and structurally validates a cart body, then maps
// it onto the domain request type.
func (h *Handler) decodeCartRequest(r *http.Request) (checkout.CartRequest, error) {
	var body cartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return checkout.CartRequest{}, errors.Wrap(err, "decode body")
	}
	if err := h.validate.Struct(body); err != nil {
		return checkout.CartRequest{}, errors.Wrap(err, "validate body")
	}

	lines := make([]pricing.CartLine, len(body.Lines))
	for i, l := range body.Lines {
		lines[i] = pricing.CartLine{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			PackSize:       l.PackSize,
			IsSubscription: l.IsSubscription,
			PriceCents:     l.PriceCents,
		}
	}

	return checkout.CartRequest{
		Lines:      lines,
		CouponCode: body.CouponCode,
	}, nil
}

// QuoteCart handles POST /cart/quote. It prices the cart without persisting
// an order or consuming a coupon use.
func (h *Handler) QuoteCart(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCartRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.checkout.Quote(r.Context(), req)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			encodeTotalsFields(e, quote.Totals)
		})
	})
}

// writeCheckoutError maps checkout and coupon domain errors onto HTTP
// responses. Unknown errors are logged and reported as 500.
func (h *Handler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound    *checkout.ProductNotFoundError
		badQuantity *checkout.InvalidQuantityError
		badPackSize *checkout.InvalidPackSizeError
	)

	switch {
	case errors.Is(err, checkout.ErrEmptyLines):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusUnprocessableEntity, notFound.Error())
	case errors.As(err, &badQuantity):
		writeError(w, http.StatusUnprocessableEntity, badQuantity.Error())
	case errors.As(err, &badPackSize):
		writeError(w, http.StatusUnprocessableEntity, badPackSize.Error())
	case errors.Is(err, coupon.ErrInvalidCoupon),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponUsageLimitReached),
		errors.Is(err, coupon.ErrMinPurchaseNotMet):
		writeError(w, http.StatusUnprocessableEntity, "invalid coupon code")
	default:
		zctx.From(r.Context()).Error("checkout", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
