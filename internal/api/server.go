package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/kantoku/kantoku/internal/logger"
	"github.com/kantoku/kantoku/internal/services"
)

// Server holds the HTTP layer's dependencies.
type Server struct {
	SessionService services.SessionService
	QuizService    services.QuizService
	DB             *sql.DB
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads the request body into v. An empty body is an error.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
