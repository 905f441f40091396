package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hookforge/hookforge/internal/domain"
	"github.com/hookforge/hookforge/pkg/logger"
)

// WriteJSONError writes the error envelope {"success": false, "error": msg}
// with the given status code.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeData writes the success envelope {"success": true, "data": v} with the
// given status code.
func writeData(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    v,
	})
}

// writeServiceError maps a service error to its HTTP status: 400 for input
// validation, 403 for ownership, 404 for missing entities, 500 otherwise.
// Unexpected errors are logged and masked.
func writeServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	var validationErr domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteJSONError(w, validationErr.Error(), http.StatusBadRequest)
		return
	}

	var ownershipErr *domain.ErrOwnership
	if errors.As(err, &ownershipErr) {
		WriteJSONError(w, "Webhook does not belong to the authenticated user", http.StatusForbidden)
		return
	}

	var notFoundErr *domain.ErrNotFound
	if errors.As(err, &notFoundErr) {
		WriteJSONError(w, notFoundErr.Error(), http.StatusNotFound)
		return
	}

	log.WithField("error", err.Error()).Error("Request failed")
	WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
}

// authenticatedUser pulls the caller's user id set by the auth middleware.
// A missing id means a route was registered without RequireAuth.
func authenticatedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := domain.UserFromContext(r.Context())
	if !ok || userID == "" {
		WriteJSONError(w, "Authentication required", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}
