package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/atelier/internal/auth"
)

type loginRequest struct {
	Password string `json:"password" validate:"required,max=1024"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	token, err := s.auth.Login(req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.logger.Warn("admin login failed", "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	case errors.Is(err, auth.ErrLoginDisabled):
		writeError(w, http.StatusServiceUnavailable, "Admin login is not configured")
		return
	case err != nil:
		s.writeServiceError(w, r, err)
		return
	}
	s.logger.Info("admin logged in", "expires_at", token.ExpiresAt)
	writeJSON(w, http.StatusOK, token)
}
