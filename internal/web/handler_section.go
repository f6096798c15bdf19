package web

import (
	"net/http"

	"github.com/vbonduro/atelier/internal/content"
)

func (s *Server) handleListSection(schema *content.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := s.sections.List(r.Context(), schema)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

// handleCurrentSection returns the single logical record of a singleton
// section.
func (s *Server) handleCurrentSection(schema *content.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.sections.Top(r.Context(), schema)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		if rec == nil {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleCreateSection(schema *content.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := s.readInput(w, r, schema)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		rec, err := s.sections.Create(r.Context(), schema, in)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleUpdateSection(schema *content.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := s.readInput(w, r, schema)
		if err != nil {
			s.writeServiceError(w, r, err)
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
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleUpsertSection(schema *content.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := s.readInput(w, r, schema)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		rec, err := s.sections.Upsert(r.Context(), schema, in)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleDeleteSection(schema *content.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _, ok := deleteTarget(w, r)
		if !ok {
			writeError(w, http.StatusBadRequest, "Missing id")
			return
		}
		if _, err := s.sections.Delete(r.Context(), schema, id); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) handleGetHeroImage(w http.ResponseWriter, r *http.Request) {
	rec, err := s.sections.Top(r.Context(), content.Hero)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var imageURL *string
	if rec != nil && rec.String("image_url") != "" {
		u := rec.String("image_url")
		imageURL = &u
	}
	writeJSON(w, http.StatusOK, map[string]*string{"imageUrl": imageURL})
}

func (s *Server) handleUploadHeroImage(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r, content.Hero)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if len(in.Files["file"]) == 0 {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	rec, err := s.sections.Create(r.Context(), content.Hero, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "url": rec.String("image_url")})
}
