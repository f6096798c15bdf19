package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vbonduro/atelier/internal/content"
	"github.com/vbonduro/atelier/internal/service"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps content and inquiry errors onto HTTP statuses.
// Messages from validation and storage are passed to the client as is.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *content.ValidationError
		uploadErr     *content.UploadError
		persistErr    *content.PersistError
		inquiryErr    *service.ValidationError
	)
	switch {
	case errors.As(err, &validationErr):
		if len(validationErr.Fields) > 0 {
			s.logger.Info("request rejected", "path", r.URL.Path, "fields", validationErr.Fields)
		}
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &inquiryErr):
		writeError(w, http.StatusBadRequest, inquiryErr.Message)
	case errors.Is(err, content.ErrNotFound), errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, content.ErrVersionConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &uploadErr):
		s.logger.Error("upload failed", "path", r.URL.Path, "error", err)
		writeError(w, uploadErr.Status, uploadErr.Message)
	case errors.As(err, &persistErr):
		s.logger.Error("persist failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, persistErr.Error())
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
}

// idRequest is the body of DELETE requests. Type selects the table on
// routes that serve more than one.
type idRequest struct {
	ID   json.Number `json:"id"`
	Type string      `json:"type"`
}

// deleteTarget reads the id, and optional type, of a DELETE request from its
// JSON body or, failing that, its query string.
func deleteTarget(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	var req idRequest
	if err := decodeJSON(w, r, &req); err != nil {
		req = idRequest{}
	}
	if req.ID == "" {
		req.ID = json.Number(r.URL.Query().Get("id"))
	}
	if req.Type == "" {
		req.Type = r.URL.Query().Get("type")
	}
	id, err := strconv.ParseInt(req.ID.String(), 10, 64)
	if err != nil || id <= 0 {
		return 0, req.Type, false
	}
	return id, req.Type, true
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// formID reads the id field of a PUT form.
func formID(vals url.Values) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(vals.Get("id")), 10, 64)
	return id, err == nil && id > 0
}
