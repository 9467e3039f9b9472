package payment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/haythammda/Gift-Storm/internal/catalog"
	"github.com/haythammda/Gift-Storm/internal/telemetry"
)

type Handler struct {
	provider        Provider
	catalog         *catalog.Catalog
	logger          *log.Logger
	events          telemetry.Recorder
	granteeResolver func(*http.Request) (Grantee, error)
}

func NewHandler(p Provider, cat *catalog.Catalog, logger *log.Logger, events telemetry.Recorder) *Handler {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{provider: p, catalog: cat, logger: logger, events: events}
}

func (h *Handler) SetGranteeResolver(fn func(*http.Request) (Grantee, error)) {
	h.granteeResolver = fn
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// GET /api/shop-products
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Products)
}

// POST /api/create-checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeErr(w, http.StatusBadRequest, "product id is required")
		return
	}
	sess, err := h.provider.CreateCheckout(r.Context(), req)
	switch {
	case errors.Is(err, ErrUnknownProduct):
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrNotConfigured):
		writeErr(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		h.logger.Printf("[payment] checkout failed: %v", err)
		writeErr(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// POST /api/purchase/complete?donation=success&type=...
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	out, ok := ParseOutcome(r.URL.Query())
	if !ok {
		writeErr(w, http.StatusBadRequest, "missing checkout result")
		return
	}
	if h.granteeResolver == nil {
		writeErr(w, http.StatusInternalServerError, "profile store unavailable")
		return
	}
	g, err := h.granteeResolver(r)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "profile store unavailable")
		return
	}
	applied := out.Apply(g)
	if applied {
		telemetry.Record(h.events, telemetry.EventPurchaseApplied, telemetry.EventMetadata{
			"type":      string(out.Kind),
			"skinId":    out.SkinID,
			"productId": out.ProductID,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"applied": applied, "outcome": out})
}
