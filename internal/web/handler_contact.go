package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/vbonduro/atelier/internal/domain"
	"github.com/vbonduro/atelier/internal/export"
	"github.com/vbonduro/atelier/internal/service"
)

func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var sub service.ContactSubmission
	if err := decodeJSON(w, r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := s.inquiries.Submit(r.Context(), sub); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := s.inquiries.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if inquiries == nil {
		inquiries = []*domain.ContactInquiry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiries": inquiries})
}

type statusRequest struct {
	Status domain.InquiryStatus `json:"status" validate:"required"`
}

func (s *Server) handleSetInquiryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inquiry id")
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	inquiry, err := s.inquiries.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "inquiry": inquiry})
}

// handleExportInquiries renders the inbox as an XLSX attachment. The
// workbook is built in memory so a failure still produces a JSON error.
func (s *Server) handleExportInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := s.inquiries.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteInquiries(&buf, inquiries); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("inquiries-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("write export failed", "error", err)
	}
}
