package api

import (
	"net/http"
	"strconv"

	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

type productListResponse struct {
	Products []product.Product `json:"products"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := product.ListOptions{
		Limit: atoiOr(q.Get("limit"), product.DefaultLimit),
		Skip:  atoiOr(q.Get("skip"), 0),
	}

	respondJSON(w, http.StatusOK, productListResponse{Products: h.products.ListProducts(r.Context(), opts)})
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products := h.products.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, productListResponse{Products: products})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := h.products.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if p == nil {
		utils.WriteJSONMessage(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
