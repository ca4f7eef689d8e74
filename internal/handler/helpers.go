// Package handler contains the HTTP handlers for the orders and products
// API. Handlers translate between the JSON wire format and the access
// controller; all policy lives below this layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orderhub/orderhub/internal/apperr"
	"github.com/orderhub/orderhub/internal/model"
)

// writeJSON serializes v as JSON and writes it to the response with the given
// HTTP status code. The Content-Type header is set to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to the standard error envelope. Untyped
// errors are reported as INTERNAL without leaking the underlying message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Wrap(err, "internal error")
	}
	if appErr.Kind == apperr.KindInternal {
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error: model.ErrorDetail{
				Kind:    string(apperr.KindInternal),
				Message: "internal error",
			},
		})
		return
	}
	writeJSON(w, appErr.Kind.HTTPStatus(), model.ErrorResponse{
		Error: model.ErrorDetail{
			Kind:    string(appErr.Kind),
			Message: appErr.Message,
			Context: appErr.Context,
		},
	})
}

// writeInvalid is a shorthand for request-shape failures detected in the
// handler itself.
func writeInvalid(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
		Error: model.ErrorDetail{
			Kind:    string(apperr.KindInvalidArgument),
			Message: message,
		},
	})
}

// readJSON decodes the request body as JSON into v. The body is closed after
// decoding regardless of success or failure.
func readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// queryInt extracts an integer query parameter, returning defaultVal if the
// parameter is missing or cannot be parsed.
func queryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// pathID extracts a numeric {id} path parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Newf(apperr.KindInvalidArgument, "invalid id %q", raw)
	}
	return id, nil
}
