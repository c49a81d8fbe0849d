package api

import (
	"errors"
	"net/http"

	"storefront-be/internal/order"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Get looks an order up by number. Anyone holding the number can read it.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByNumber(r.Context(), chi.URLParam(r, "orderNumber"))
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONMessage(w, "Order not found", http.StatusNotFound)
	case err != nil:
		utils.WriteJSONMessage(w, "Internal Server Error", http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, o)
	}
}
