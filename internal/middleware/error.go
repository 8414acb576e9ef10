package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/products-api/internal/servererrors"
)

const unknownErrorMessage = "Unknown error."

// HandlerFunc is an http.HandlerFunc that hands failures back to its caller
// instead of writing them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler adapts h to an http.HandlerFunc. A returned error is written
// by WriteError; nothing else in the chain decides status codes from errors.
func ErrorHandler(logger *slog.Logger) func(h HandlerFunc) http.HandlerFunc {
	return func(h HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			err := h(w, r)
			if err == nil {
				return
			}

			status := WriteError(w, err)
			if status >= http.StatusInternalServerError {
				logger.ErrorContext(r.Context(), "request failed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"error", err,
				)
				return
			}
			logger.DebugContext(r.Context(), "request rejected",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"error", err,
			)
		}
	}
}

// WriteError writes err as a plain text response and returns the status used.
// The status is the error's code when it lies in [100, 600) and 500 otherwise.
func WriteError(w http.ResponseWriter, err error) int {
	status := http.StatusInternalServerError
	message := err.Error()

	if serverErr, ok := servererrors.As(err); ok {
		if serverErr.Code >= 100 && serverErr.Code < 600 {
			status = serverErr.Code
		}
		message = serverErr.Message
	}

	if message == "" {
		message = unknownErrorMessage
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))

	return status
}
