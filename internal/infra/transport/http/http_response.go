package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mkrupp/homecase-accounts/internal/domain"
)

// MaxRequestBodySize limits JSON request bodies.
const MaxRequestBodySize = 1 << 20

// WriteJSON encodes body as the JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// WriteError writes an ErrorResponse with the given status code.
func WriteError(w http.ResponseWriter, status int, message, field string) error {
	return WriteJSON(w, status, domain.ErrorResponse{Error: message, Field: field})
}

// DecodeJSON decodes a single JSON object from the request body into dst.
// Unknown fields are ignored. Malformed bodies yield a *domain.ValidationError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))

	if err := dec.Decode(dst); err != nil {
		var (
			syntaxErr *json.SyntaxError
			typeErr   *json.UnmarshalTypeError
			sizeErr   *http.MaxBytesError
		)

		switch {
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("", "request body is empty")
		case errors.As(err, &typeErr):
			return domain.NewValidationError(typeErr.Field, "must be a "+typeErr.Type.String())
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return domain.NewValidationError("", "request body is not valid JSON")
		case errors.As(err, &sizeErr):
			return domain.NewValidationError("", "request body is too large")
		default:
			return fmt.Errorf("decode request: %w", err)
		}
	}

	return nil
}
