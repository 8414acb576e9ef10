package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/products-api/internal/servererrors"
)

const (
	maxBodyBytes = 1 << 20

	msgInvalidBody   = "Invalid request body."
	msgIDNotProvided = "Id not provided."
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteText writes a plain text response
func WriteText(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := io.WriteString(w, message); err != nil {
		logger.Error("failed to write text response", "error", err)
	}
}

// decodeJSON reads the request body into dst. An empty body decodes as an
// empty object.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return servererrors.New(http.StatusBadRequest, msgInvalidBody, err)
	}
	return nil
}
