package httpapi

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/granola-store/internal/domain/catalog"
	"github.com/xenking/granola-store/internal/domain/checkout"
)

// PlaceOrder handles POST /orders. The response embeds the cart totals, the
// persisted order id, and the resolved products so clients can render a
// confirmation without extra round trips.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCartRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checkout.PlaceOrder(r.Context(), req)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		h.encodeOrder(e, result.Order, dedupeProducts(result.Products))
	})
}

func (h *Handler) encodeOrder(e *jx.Encoder, o *checkout.Order, products []catalog.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		if o.CouponCode != "" {
			e.Field("couponCode", func(e *jx.Encoder) { e.Str(o.CouponCode) })
		}
		e.Field("itemCount", func(e *jx.Encoder) { e.Int(o.ItemCount) })
		e.Field("subtotalCents", func(e *jx.Encoder) { e.Int64(o.SubtotalCents) })
		e.Field("discountCents", func(e *jx.Encoder) { e.Int64(o.DiscountCents) })
		e.Field("shippingCents", func(e *jx.Encoder) { e.Int64(o.ShippingCents) })
		e.Field("taxCents", func(e *jx.Encoder) { e.Int64(o.TaxCents) })
		e.Field("totalCents", func(e *jx.Encoder) { e.Int64(o.TotalCents) })
		e.Field("freeShipping", func(e *jx.Encoder) { e.Bool(o.FreeShipping) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range o.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("productId", func(e *jx.Encoder) { e.Str(item.ProductID) })
						e.Field("packSize", func(e *jx.Encoder) { e.Int(item.PackSize) })
						e.Field("isSubscription", func(e *jx.Encoder) { e.Bool(item.IsSubscription) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
						e.Field("unitPriceCents", func(e *jx.Encoder) { e.Int64(item.UnitPriceCents) })
						e.Field("subtotalCents", func(e *jx.Encoder) { e.Int64(item.SubtotalCents) })
						e.Field("discountCents", func(e *jx.Encoder) { e.Int64(item.DiscountCents) })
					})
				}
			})
		})
		e.Field("products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range products {
					h.encodeProduct(e, p)
				}
			})
		})
	})
}

// dedupeProducts drops duplicate products while preserving first-seen order.
// A cart may reference the same product on several lines.
func dedupeProducts(products []catalog.Product) []catalog.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
