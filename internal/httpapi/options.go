package httpapi

import (
	"net/http"

	"github.com/go-faster/jx"
)

// PackOptions handles GET /pack-options. The response mirrors the storefront
// pack selector: one entry per configured pack size with its discounted unit
// price.
func (h *Handler) PackOptions(w http.ResponseWriter, r *http.Request) {
	opts := h.engine.PackOptions()

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, opt := range opts {
				e.Obj(func(e *jx.Encoder) {
					e.Field("size", func(e *jx.Encoder) { e.Int(opt.Size) })
					e.Field("unitPriceCents", func(e *jx.Encoder) { e.Int64(opt.UnitPriceCents) })
					e.Field("discountPercentage", func(e *jx.Encoder) { e.Int(opt.DiscountPercentage) })
					e.Field("freeShipping", func(e *jx.Encoder) { e.Bool(opt.FreeShipping) })
					e.Field("label", func(e *jx.Encoder) { e.Str(opt.Label) })
				})
			}
		})
	})
}

// SubscriptionInfo handles GET /subscription.
func (h *Handler) SubscriptionInfo(w http.ResponseWriter, r *http.Request) {
	info := h.engine.SubscriptionInfo()

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("packSize", func(e *jx.Encoder) { e.Int(info.PackSize) })
			e.Field("discountPercentage", func(e *jx.Encoder) { e.Int(info.DiscountPercentage) })
			e.Field("unitPriceCents", func(e *jx.Encoder) { e.Int64(info.UnitPriceCents) })
			e.Field("totalPriceCents", func(e *jx.Encoder) { e.Int64(info.TotalPriceCents) })
			e.Field("monthlySavingsCents", func(e *jx.Encoder) { e.Int64(info.MonthlySavingsCents) })
		})
	})
}
