package utils

import (
	"io"
	"net/http"

	"storefront-backend/internal/domain"

	"github.com/goccy/go-json"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteSuccess wraps data in the standard envelope.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}, meta interface{}) {
	WriteJSON(w, status, domain.Response{Success: true, Data: data, Meta: meta})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, domain.Response{Success: false, Error: message})
}

// WriteErrorDetail adds the underlying error text next to the user-facing message.
func WriteErrorDetail(w http.ResponseWriter, status int, message, detail string) {
	WriteJSON(w, status, domain.Response{Success: false, Error: message, Detail: detail})
}

// DecodeJSON reads a request body of at most maxBytes into v.
func DecodeJSON(r *http.Request, v interface{}, maxBytes int64) error {
	body := io.LimitReader(r.Body, maxBytes)
	return json.NewDecoder(body).Decode(v)
}
