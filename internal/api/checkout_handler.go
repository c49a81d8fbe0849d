package api

import (
	"net/http"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/transport"
	"storefront-be/internal/utils"
	"storefront-be/internal/validation"

	"go.uber.org/zap"
)

const msgCreateOrderFailed = "Failed to create order"

type CheckoutHandler struct {
	orders order.Service
	carts  *cart.Service
	now    func() time.Time
}

func NewCheckoutHandler(orders order.Service, carts *cart.Service) *CheckoutHandler {
	return &CheckoutHandler{orders: orders, carts: carts, now: time.Now}
}

type validateResponse struct {
	Valid  bool              `json:"valid"`
	Errors validation.Errors `json:"errors,omitempty"`
}

// Validate masks and checks the checkout form without placing an order.
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var form validation.CheckoutForm
	if err := decodeJSON(w, r, &form); err != nil {
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	errs := validation.ValidateCheckout(form.Formatted(), h.now())
	if !errs.Valid() {
		respondJSON(w, http.StatusUnprocessableEntity, validateResponse{Valid: false, Errors: errs})
		return
	}
	respondJSON(w, http.StatusOK, validateResponse{Valid: true})
}

// Checkout places the order. Any 200, approved or not, empties the session cart.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	var req order.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Warn("malformed checkout body", zap.Error(err))
		utils.WriteJSONError(w, msgCreateOrderFailed, http.StatusInternalServerError)
		return
	}

	res, err := h.orders.Checkout(ctx, req)
	if err != nil {
		utils.WriteJSONError(w, msgCreateOrderFailed, http.StatusInternalServerError)
		return
	}

	if sid := transport.SessionIDFrom(ctx); sid != "" && h.carts != nil {
		if err := h.carts.Session(sid).Clear(ctx); err != nil {
			log.Warn("order placed but cart not cleared", zap.String("order_number", res.OrderNumber), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, res)
}
