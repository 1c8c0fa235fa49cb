package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

const (
	codeBadRequest        = "bad_request"
	codeValidation        = "validation_error"
	codeInvalidTransition = "invalid_transition"
	codeNotFound          = "not_found"
	codeTooLarge          = "payload_too_large"
	codeStoreUnavailable  = "store_unavailable"
	codeStoreError        = "store_error"
	codeInternal          = "internal_error"
)

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// writeError maps err onto a status code and error body.
//
//	ErrValidation        422
//	ErrInvalidTransition 409
//	ErrNotFound          404
//	retryable StoreError 503
//	other StoreError     502
//	anything else        500
//
// notFound is the message used for ErrNotFound, because the handler is the
// layer that knows what was being looked up.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		status int
		body   ErrorResponse
		se     *domain.StoreError
	)
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, body = http.StatusUnprocessableEntity, errorBody(codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrInvalidTransition):
		status, body = http.StatusConflict, errorBody(codeInvalidTransition, unwrapMessage(err, domain.ErrInvalidTransition))
	case errors.Is(err, domain.ErrNotFound):
		status, body = http.StatusNotFound, errorBody(codeNotFound, notFound)
	case errors.As(err, &se) && se.Retryable:
		status, body = http.StatusServiceUnavailable, errorBody(codeStoreUnavailable, "failed to "+se.Op)
	case errors.As(err, &se):
		status, body = http.StatusBadGateway, errorBody(codeStoreError, "failed to "+se.Op)
	default:
		status, body = http.StatusInternalServerError, errorBody(codeInternal, "internal server error")
	}
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

// unwrapMessage extracts the human-readable part that follows sentinel in a
// wrapped error.
// e.g. "service.DispatchService.CreateTrip: validation error: client is required" → "client is required"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// decodeBody reads a single JSON object from r into v. It writes the error
// response itself and reports whether the caller may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(codeTooLarge, "request body too large"))
	case errors.Is(err, io.EOF):
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "request body is required"))
	default:
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeValidation, fmt.Sprintf("%s has the wrong type", typeErr.Field)))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "request body is not valid JSON"))
	}
	return false
}
