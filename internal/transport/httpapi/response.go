package httpapi

import (
	"encoding/json"
	"net/http"
)

const (
	ResultUpdated = "successfully updated"
	ResultDeleted = "successfully deleted"

	messageInternal       = "internal server error"
	messageInvalidBody    = "invalid request body"
	messageNotFound       = "not found"
	messageMethodNotAllow = "method not allowed"
)

// ResultResponse answers a successful PUT or DELETE.
type ResultResponse struct {
	Result string `json:"result"`
	ID     string `json:"_id"`
}

// ErrorResponse carries a failure message. ID is echoed when the request
// named an issue.
type ErrorResponse struct {
	Error string `json:"error"`
	ID    string `json:"_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
