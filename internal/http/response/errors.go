package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/vistamar/club-reservations/internal/domain"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errResp := ErrorResponse{
		Error: message,
		Code:  code,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}

// Common error codes
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeInvalidRange      = "INVALID_RANGE"
	CodeCheckInTooEarly   = "CHECK_IN_TOO_EARLY"
	CodeMaxStayExceeded   = "MAX_STAY_EXCEEDED"
	CodeRateNotFound      = "RATE_NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAlreadyFinalized  = "ALREADY_FINALIZED"
	CodeMissingReason     = "MISSING_REASON"
)

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

// DomainError maps the core's sentinel errors to HTTP. Validation and
// lifecycle failures keep their exact message so the UI can show the
// specific rule that failed rather than a generic error.
func DomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), CodeInvalidRange)
	case errors.Is(err, domain.ErrTooEarlyCheckIn):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), CodeCheckInTooEarly)
	case errors.Is(err, domain.ErrMaxStayExceeded):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), CodeMaxStayExceeded)
	case errors.Is(err, domain.ErrRateNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), CodeRateNotFound)
	case errors.Is(err, domain.ErrInvalidTransition):
		WriteError(w, http.StatusConflict, err.Error(), CodeInvalidTransition)
	case errors.Is(err, domain.ErrAlreadyFinalized):
		WriteError(w, http.StatusConflict, err.Error(), CodeAlreadyFinalized)
	case errors.Is(err, domain.ErrMissingReason):
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), CodeMissingReason)
	case errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrBillingRecordNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), CodeNotFound)
	default:
		InternalError(w, "internal error")
	}
}
