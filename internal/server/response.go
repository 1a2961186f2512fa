package server

import (
	"encoding/json"
	"errors"
	"net/http"

	libmonado "github.com/technobaboo/libmonado-go"
)

// SuccessResponse wraps every successful reply.
type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse wraps every failed reply.
type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

// ErrorPayload describes a failure. Result carries the native result name
// when the runtime refused the request.
type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Result    string `json:"result,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessResponse{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Status: "error", Error: ErrorPayload{
		Code:      code,
		Message:   message,
		RequestID: requestIDFromContext(r.Context()),
	}})
}

// mapError picks the HTTP status and error code for a wrapper error.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, libmonado.ErrClosed):
		return http.StatusServiceUnavailable, "closed"
	case errors.Is(err, libmonado.ErrUnsupported):
		return http.StatusNotImplemented, "unsupported"
	}

	var result libmonado.Result
	if !errors.As(err, &result) {
		return http.StatusInternalServerError, "internal_error"
	}
	switch result {
	case libmonado.ErrorInvalidValue:
		return http.StatusBadRequest, "invalid_value"
	case libmonado.ErrorInvalidProperty:
		return http.StatusBadRequest, "invalid_property"
	case libmonado.ErrorRecenteringNotSupported:
		return http.StatusNotImplemented, "recentering_not_supported"
	default:
		return http.StatusBadGateway, "runtime_error"
	}
}

func (s *Server) writeRuntimeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := mapError(err)
	fields := []any{
		"operation", op,
		"status_code", status,
		"error_code", code,
		"request_id", requestIDFromContext(r.Context()),
		"error", err.Error(),
	}
	if status >= 500 {
		s.logger.ErrorContext(r.Context(), "request failed", fields...)
	} else {
		s.logger.WarnContext(r.Context(), "request failed", fields...)
	}

	payload := ErrorPayload{
		Code:      code,
		Message:   err.Error(),
		RequestID: requestIDFromContext(r.Context()),
	}
	var result libmonado.Result
	if errors.As(err, &result) {
		payload.Result = result.String()
	}
	writeJSON(w, status, ErrorResponse{Status: "error", Error: payload})
}
