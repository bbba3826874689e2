package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeFieldErrors reports request-shape problems the way the original API
// did: a 400 with an array of field errors.
func writeFieldErrors(w http.ResponseWriter, errs []services.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

// handleServiceError maps a service error onto the response taxonomy.
// notFoundMsg names the missing resource for 404s.
func handleServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeMessage(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrAccessDenied):
		writeMessage(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFoundMsg)
	default:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: Unhandled service error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong!")
	}
}

// NotFound echoes the unmatched path and method, matching the original
// catch-all route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"message": "Route not found",
		"path":    r.URL.Path,
		"method":  r.Method,
	})
}

// Health reports service liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "Task Management API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
