package web

import (
	"net/http"
	"strings"
	"sync"

	"github.com/vbonduro/atelier/internal/content"
)

// serviceSchema maps the type field of /api/services onto its table.
func serviceSchema(kind string) (*content.Schema, bool) {
	switch strings.TrimSpace(kind) {
	case "service":
		return content.Services, true
	case "renovation":
		return content.Renovations, true
	default:
		return nil, false
	}
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	var services, renovations []*content.Record
	var servicesErr, renoErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		services, servicesErr = s.sections.List(r.Context(), content.Services)
	}()
	go func() {
		defer wg.Done()
		renovations, renoErr = s.sections.List(r.Context(), content.Renovations)
	}()
	wg.Wait()

	if servicesErr != nil || renoErr != nil {
		s.logger.Error("failed to fetch services", "services_error", servicesErr, "renovations_error", renoErr)
		writeError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services, "renovations": renovations})
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	// Both tables share one form; parse with the wider schema first.
	in, err := s.readInput(w, r, content.Services)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	schema, ok := serviceSchema(in.Values.Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid type")
		return
	}
	rec, err := s.sections.Create(r.Context(), schema, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "imageUrl": rec.String("image_url")})
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r, content.Services)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	schema, ok := serviceSchema(in.Values.Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid type")
		return
	}
	id, ok := formID(in.Values)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}
	rec, err := s.sections.Update(r.Context(), schema, id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "item": rec})
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	id, kind, ok := deleteTarget(w, r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}
	schema, ok := serviceSchema(kind)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid type")
		return
	}
	if _, err := s.sections.Delete(r.Context(), schema, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
