package httpapi

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/granola-store/internal/domain/catalog"
	"github.com/xenking/granola-store/internal/pricing"
)

// writeJSON encodes a response body with jx and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a {"code":..,"message":..} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

func (h *Handler) encodeProduct(e *jx.Encoder, p catalog.Product) {
	base := h.imageBaseURL
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("priceCents", func(e *jx.Encoder) { e.Int64(p.PriceCents) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("image", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("thumbnail", func(e *jx.Encoder) { e.Str(base + p.Image.Thumbnail) })
				e.Field("mobile", func(e *jx.Encoder) { e.Str(base + p.Image.Mobile) })
				e.Field("tablet", func(e *jx.Encoder) { e.Str(base + p.Image.Tablet) })
				e.Field("desktop", func(e *jx.Encoder) { e.Str(base + p.Image.Desktop) })
			})
		})
	})
}

func encodeLinePrice(e *jx.Encoder, lp pricing.LinePrice) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("productId", func(e *jx.Encoder) { e.Str(lp.ProductID) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(lp.Quantity) })
		e.Field("packSize", func(e *jx.Encoder) { e.Int(lp.PackSize) })
		e.Field("isSubscription", func(e *jx.Encoder) { e.Bool(lp.IsSubscription) })
		e.Field("unitPriceCents", func(e *jx.Encoder) { e.Int64(lp.UnitPriceCents) })
		e.Field("subtotalCents", func(e *jx.Encoder) { e.Int64(lp.SubtotalCents) })
		e.Field("discountCents", func(e *jx.Encoder) { e.Int64(lp.DiscountCents) })
		e.Field("freeShipping", func(e *jx.Encoder) { e.Bool(lp.FreeShipping) })
	})
}

func encodeTotalsFields(e *jx.Encoder, t pricing.CartTotals) {
	e.Field("itemCount", func(e *jx.Encoder) { e.Int(t.ItemCount) })
	e.Field("subtotalCents", func(e *jx.Encoder) { e.Int64(t.SubtotalCents) })
	e.Field("discountCents", func(e *jx.Encoder) { e.Int64(t.DiscountCents) })
	e.Field("shippingCents", func(e *jx.Encoder) { e.Int64(t.ShippingCents) })
	e.Field("taxCents", func(e *jx.Encoder) { e.Int64(t.TaxCents) })
	e.Field("totalCents", func(e *jx.Encoder) { e.Int64(t.TotalCents) })
	e.Field("freeShipping", func(e *jx.Encoder) { e.Bool(t.FreeShipping) })
	if t.CouponCode != "" {
		e.Field("couponCode", func(e *jx.Encoder) { e.Str(t.CouponCode) })
		e.Field("couponDiscountCents", func(e *jx.Encoder) { e.Int64(t.CouponDiscountCents) })
	}
	e.Field("items", func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, item := range t.Items {
				encodeLinePrice(e, item)
			}
		})
	})
}
