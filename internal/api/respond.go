package api

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

func init() {
	// prices and totals travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	utils.WriteJSON(w, code, v)
}
