// Package httpx holds the JSON response helpers shared by the handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/go-demenagement/internal/finance"
	"github.com/diewo77/go-demenagement/internal/store"
	"github.com/diewo77/go-demenagement/validation"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// ValidationError is returned by services when input fails validation.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation failed" }

// Invalid wraps violations as an error, or returns nil when there are none.
func Invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// Status maps a service error to its HTTP status and error code. action names
// the failed operation ("create_invoice") for remote errors.
func Status(err error, action string) (int, string, any) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, "validation_failed", ve.Violations
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found", nil
	case errors.Is(err, store.ErrClientInUse):
		return http.StatusConflict, "client_in_use", nil
	case errors.Is(err, finance.ErrNegativeAmount):
		return http.StatusUnprocessableEntity, "validation_failed", validation.Violations{"amount_excl_tax": "must_not_be_negative"}
	case errors.Is(err, finance.ErrTaxRateRange):
		return http.StatusUnprocessableEntity, "validation_failed", validation.Violations{"tax_rate": "out_of_range"}
	}
	return http.StatusInternalServerError, action + "_failed", nil
}

// Error writes the response for err.
func Error(w http.ResponseWriter, err error, action string) {
	status, code, details := Status(err, action)
	JSONError(w, status, code, details)
}

// DecodeJSON reads a JSON body into dst, rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
