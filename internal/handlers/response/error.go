package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// StatusCode maps an error kind onto its HTTP status.
func StatusCode(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindUnauthenticated:
		return http.StatusUnauthorized
	case errs.KindUpstream:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError writes the stable message of the classified error in err's chain
// with the status of its kind. Anything wrapped around it stays in the log.
func WriteAppError(w http.ResponseWriter, logger primary.Logger, err error) {
	var appErr *errs.Error
	if !errors.As(err, &appErr) {
		logger.Error("Request failed", "error", err)
		appErr = errs.InternalError
	} else if appErr.Kind == errs.KindInternal || appErr.Kind == errs.KindUpstream || error(appErr) != err {
		logger.Warn("Request failed", "kind", appErr.Kind.String(), "error", err)
	}
	WriteError(w, ErrorMessage{
		Message:    appErr.Message,
		StatusCode: StatusCode(appErr.Kind),
	})
}
