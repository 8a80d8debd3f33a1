package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Stable error codes returned in the "error" field of a 4xx body.
const (
	CodeInvalidBody              = "invalid_body"
	CodeSessionIDRequired        = "session_id_required"
	CodeRouteWindowInvalid       = "route_window_invalid"
	CodeOriginNodeIDInvalid      = "origin_node_id_invalid"
	CodeProviderOverridesInvalid = "provider_overrides_invalid"
	CodeUISlotsInvalid           = "ui_slots_invalid"
	CodeFieldInvalid             = "field_invalid"
	CodeUnauthorized             = "unauthorized"
	CodeInternal                 = "internal"
)

// RequestError is a client error detected before the engine runs.
type RequestError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func requestErrorf(code, format string, args ...any) *RequestError {
	return &RequestError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func writeError(w http.ResponseWriter, status int, e *RequestError) {
	writeJSON(w, status, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
