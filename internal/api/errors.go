package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/octofit/octofit/internal/apperr"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// errorEnvelope is the standard error response shape.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, code, message string, fields ...apperr.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorDetail{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	})
}

// writeStoreError maps a domain error onto its HTTP status. Anything
// unrecognised is logged and reported as a generic 500 so internals do not
// leak to the client.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var (
		notFound  *apperr.NotFoundError
		duplicate *apperr.DuplicateKeyError
		invalid   *apperr.ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", invalid.Error(), invalid.Fields...)
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "not_found", notFound.Error())
	case errors.As(err, &duplicate):
		writeError(w, http.StatusConflict, "duplicate_key", duplicate.Error(),
			apperr.FieldError{Field: duplicate.Field, Message: "must be unique"})
	default:
		slog.Error("request failed",
			"action", action,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to "+action)
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into v, enforcing a size limit.
func readJSON(r *http.Request, v any) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}
