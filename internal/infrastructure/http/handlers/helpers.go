// Package handlers provides the JSON HTTP handlers for the REST API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/avionmeals/backend/pkg/errors"
)

// APIResponse is the standard success envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError maps AppError codes to their HTTP status; anything else is a
// generic 500 so internals never leak to the client.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var appErr *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		appErr = e
	} else {
		logger.Error("unhandled error", zap.Error(err))
		appErr = errors.NewInternal("An unexpected error occurred")
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("code", string(appErr.Code)),
			zap.Error(appErr),
		)
	}

	writeJSON(w, appErr.StatusCode(), errors.ToErrorResponse(appErr, ""))
}

// decodeBody parses the request body into dst. An empty body decodes to
// the zero value so optional-body endpoints stay forgiving.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.NewInvalidInput("request body must be valid JSON")
	}
	return nil
}
