// Package httpapi exposes the query engine and its auth collaborators
// over HTTP. Grounded on the teacher's api/data and api/database
// packages: a ServeMux with per-route handlers, a structured APIError
// body, and a nested middleware chain.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brinedb/queryengine/dbproto"
	"github.com/brinedb/queryengine/query"
	"github.com/brinedb/queryengine/tokenhandler"
)

// Error codes for SDK consumption, mirroring the teacher's tools.Code*
// constants.
const (
	CodeInvalidIdentifier    = "INVALID_IDENTIFIER"
	CodeUnknownColumn        = "UNKNOWN_COLUMN"
	CodeMissingColumn        = "MISSING_COLUMN"
	CodeMissingValues        = "MISSING_VALUES"
	CodeUnsupportedType      = "UNSUPPORTED_TYPE"
	CodeTypeMismatch         = "TYPE_MISMATCH"
	CodeActionNotImplemented = "ACTION_NOT_IMPLEMENTED"
	CodeParseError           = "PARSE_ERROR"
	CodeStoreError           = "STORE_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInternalError        = "INTERNAL_ERROR"
)

// APIError is the structured error body returned to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// BuildAPIError maps an engine or handler error to an HTTP status and an
// APIError, mirroring the teacher's tools.BuildAPIError errors.Is switch.
func BuildAPIError(err error) (int, APIError) {
	switch {
	case errors.Is(err, query.ErrInvalidIdentifier):
		return http.StatusBadRequest, APIError{
			Code:    CodeInvalidIdentifier,
			Message: err.Error(),
			Hint:    "Identifiers may only contain letters, digits, and underscores.",
		}
	case errors.Is(err, query.ErrUnknownColumn):
		return http.StatusBadRequest, APIError{
			Code:    CodeUnknownColumn,
			Message: err.Error(),
			Hint:    "Check the table_columns map passed with the request.",
		}
	case errors.Is(err, query.ErrMissingColumn):
		return http.StatusBadRequest, APIError{
			Code:    CodeMissingColumn,
			Message: err.Error(),
			Hint:    "Every row in bulk_values must carry the same set of columns.",
		}
	case errors.Is(err, query.ErrMissingValues):
		return http.StatusBadRequest, APIError{
			Code:    CodeMissingValues,
			Message: err.Error(),
			Hint:    "Insert/Update/BulkInsert require a non-empty values/bulk_values body.",
		}
	case errors.Is(err, query.ErrUnsupportedType):
		return http.StatusBadRequest, APIError{
			Code:    CodeUnsupportedType,
			Message: err.Error(),
			Hint:    "Declared column types must be one of bigint, text, boolean.",
		}
	case errors.Is(err, query.ErrTypeMismatch):
		return http.StatusBadRequest, APIError{
			Code:    CodeTypeMismatch,
			Message: err.Error(),
			Hint:    "The supplied value cannot be coerced to the column's declared type.",
		}
	case errors.Is(err, query.ErrActionNotImplemented):
		return http.StatusInternalServerError, APIError{
			Code:    CodeActionNotImplemented,
			Message: err.Error(),
		}
	case errors.Is(err, dbproto.ErrParse):
		return http.StatusBadRequest, APIError{
			Code:    CodeParseError,
			Message: err.Error(),
			Hint:    "The request body does not match the documented envelope shape.",
		}
	case errors.Is(err, tokenhandler.ErrUnauthorized):
		return http.StatusUnauthorized, APIError{
			Code:    CodeUnauthorized,
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, APIError{
			Code:    CodeInternalError,
			Message: err.Error(),
		}
	}
}

// writeError writes a structured error response, mirroring the teacher's
// tools.RespErr.
func writeError(w http.ResponseWriter, err error) {
	status, apiErr := BuildAPIError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// writeJSON writes v as a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
