package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mmynk/roster/internal/models"
)

// maxBodyBytes bounds create and update payloads.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// pathUint32 parses a path wildcard as an unsigned 32-bit integer.
func pathUint32(r *http.Request, name string) (uint32, bool) {
	v, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// decodePlayerRequest reads a create/update payload. The returned status is
// 400 for unreadable or syntactically invalid JSON, 413 for oversized bodies
// and 422 for well-formed JSON that is not a complete player. Keys outside the
// request shape, "id" included, are ignored.
func decodePlayerRequest(w http.ResponseWriter, r *http.Request) (models.PlayerRequest, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.PlayerRequest{}, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
		}
		return models.PlayerRequest{}, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return models.PlayerRequest{}, http.StatusUnprocessableEntity, errors.New("body must be a JSON object")
		}
		return models.PlayerRequest{}, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err)
	}
	if obj == nil {
		return models.PlayerRequest{}, http.StatusUnprocessableEntity, errors.New("body must be a JSON object")
	}
	if missing := models.MissingFields(obj, false); len(missing) > 0 {
		return models.PlayerRequest{}, http.StatusUnprocessableEntity,
			fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}

	req, err := models.RequestFromFields(obj)
	if err != nil {
		return models.PlayerRequest{}, http.StatusUnprocessableEntity, fmt.Errorf("invalid player: %w", err)
	}
	return req, http.StatusOK, nil
}
