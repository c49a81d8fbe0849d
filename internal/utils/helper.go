package utils

import (
	"encoding/json"
	"net/http"
	"strings"
)

// NullIfEmpty maps "" to nil so optional text columns store NULL.
func NullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{"error": message})
}

func WriteJSONMessage(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{"message": message})
}
