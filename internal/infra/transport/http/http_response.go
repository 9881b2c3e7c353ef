package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/mkrupp/weatherapp/internal/domain"
)

// WriteJSON writes v as the JSON body of a response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// ErrorStatus maps an error to its response status and message.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrNoAuthToken),
		errors.Is(err, domain.ErrInvalidAuthToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.ErrUnauthorized.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()
	default:
		return http.StatusBadRequest, err.Error()
	}
}

// headerWriter is implemented by response writers that know whether the header went out.
type headerWriter interface {
	HeaderWritten() bool
}

// headerWritten reports whether w, or a writer it wraps, has sent the response header.
func headerWritten(w http.ResponseWriter) bool {
	for {
		switch rw := w.(type) {
		case headerWriter:
			return rw.HeaderWritten()
		case interface{ Unwrap() http.ResponseWriter }:
			w = rw.Unwrap()
		default:
			return false
		}
	}
}

// RespondError writes err as a JSON error response. A nil error writes nothing,
// and neither does an error raised after the response header was sent.
func RespondError(w http.ResponseWriter, err error) {
	if err == nil || headerWritten(w) {
		return
	}

	status, msg := ErrorStatus(err)
	_ = WriteJSON(w, status, domain.ErrorResponse{Error: msg})
}

// DecodeJSON reads the request body into v.
// Malformed bodies and mistyped fields are reported as domain.ErrInvalidRequest.
// A mistyped field is named by its JSON path only.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: field %q must be a %s", domain.ErrInvalidRequest, typeErr.Field, jsonKind(typeErr.Type))
		}

		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	return nil
}

// jsonKind names t the way a JSON client would.
func jsonKind(t reflect.Type) string {
	//nolint:exhaustive
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
