package web

import (
	"net/http"

	"github.com/vbonduro/atelier/internal/content"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.sections.List(r.Context(), content.Projects)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	project, err := s.sections.Get(r.Context(), content.Projects, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r, content.Projects)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	project, err := s.sections.Create(r.Context(), content.Projects, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "project": project})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	in, err := s.readInput(w, r, content.Projects)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	id, ok := formID(in.Values)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}
	project, err := s.sections.Update(r.Context(), content.Projects, id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "project": project})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, _, ok := deleteTarget(w, r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Missing id")
		return
	}
	if _, err := s.sections.Delete(r.Context(), content.Projects, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
