package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/msomdec/dev-connect/internal/domain"
)

const maxJSONBody = 1 << 20 // 1MB

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeMsg sends {"msg": message}.
func writeMsg(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"msg": message})
}

// writeErrors sends {"errors": [...]}.
func writeErrors(w http.ResponseWriter, status int, errs ...domain.FieldError) {
	writeJSON(w, status, map[string][]domain.FieldError{"errors": errs})
}

// readJSON decodes the request body into the given destination. An empty
// body leaves dst untouched.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
