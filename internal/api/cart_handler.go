package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/transport"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts *cart.Service
}

func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartResponse struct {
	Items    []cart.Entry    `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Count    int             `json:"count"`
}

type addItemRequest struct {
	Item     cart.Item `json:"item"`
	Quantity int       `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func newCartResponse(entries []cart.Entry) cartResponse {
	if entries == nil {
		entries = []cart.Entry{}
	}
	return cartResponse{Items: entries, Subtotal: cart.Subtotal(entries), Count: cart.Count(entries)}
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	sid := transport.SessionIDFrom(r.Context())
	if sid == "" {
		utils.WriteJSONError(w, cart.ErrMissingSession.Error(), http.StatusBadRequest)
		return nil, false
	}
	return h.carts.Session(sid), true
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(store.Get(r.Context())))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	entries, err := store.Add(r.Context(), req.Item, req.Quantity)
	h.respondMutation(w, entries, err)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	entries, err := store.SetQuantity(r.Context(), chi.URLParam(r, "key"), req.Quantity)
	h.respondMutation(w, entries, err)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	entries, err := store.Remove(r.Context(), chi.URLParam(r, "key"))
	h.respondMutation(w, entries, err)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	err := store.Clear(r.Context())
	h.respondMutation(w, []cart.Entry{}, err)
}

func (h *CartHandler) respondMutation(w http.ResponseWriter, entries []cart.Entry, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidItem):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		utils.WriteJSONError(w, "Failed to update cart", http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, newCartResponse(entries))
	}
}

// Events streams the session's item count as server-sent events, starting
// with the current count.
func (h *CartHandler) Events(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteJSONError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	changes, unsubscribe := h.carts.Notifier().Subscribe(store.SessionID())
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeCountEvent(w, cart.Count(store.Get(ctx))); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case c, open := <-changes:
			if !open {
				return
			}
			if err := writeCountEvent(w, c.Count); err != nil {
				logger.FromCtx(ctx).Debug("cart stream closed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeCountEvent(w http.ResponseWriter, count int) error {
	data, err := json.Marshal(map[string]int{"count": count})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: cart\ndata: %s\n\n", data)
	return err
}
