package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vbonduro/atelier/internal/content"
	"github.com/vbonduro/atelier/internal/domain"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home := s.pages.Home(r.Context())
	if err := s.renderPage(w,
		map[string]any{"Home": home, "ActiveNav": "home"},
		"base.html", "pages/home.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "home", "error", err)
	}
}

func (s *Server) handleServicesPage(w http.ResponseWriter, r *http.Request) {
	slide, _ := strconv.Atoi(r.URL.Query().Get("slide"))
	page := s.pages.Services(r.Context(), slide)
	if err := s.renderPage(w,
		map[string]any{"Page": page, "ActiveNav": "services"},
		"base.html", "pages/services.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "services", "error", err)
	}
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	projects, err := s.pages.Portfolio(r.Context())
	if err != nil {
		http.Error(w, "failed to load portfolio", http.StatusInternalServerError)
		s.logger.Error("load portfolio failed", "error", err)
		return
	}
	if err := s.renderPage(w,
		map[string]any{"Projects": projects, "ActiveNav": "portfolio"},
		"base.html", "pages/portfolio.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "portfolio", "error", err)
	}
}

func (s *Server) handleProjectPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	project, err := s.pages.Project(r.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "failed to load project", http.StatusInternalServerError)
		s.logger.Error("load project failed", "id", id, "error", err)
		return
	}
	if err := s.renderPage(w,
		map[string]any{"Project": project, "ActiveNav": "portfolio"},
		"base.html", "pages/project.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "project", "error", err)
	}
}

func (s *Server) handleContactPage(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w,
		map[string]any{"ActiveNav": "contact"},
		"base.html", "pages/contact.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "contact", "error", err)
	}
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w,
		map[string]any{"Title": "Sign in"},
		"admin/base.html", "admin/login.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "admin login", "error", err)
	}
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w,
		map[string]any{"Title": "Dashboard", "Sections": adminSections},
		"admin/base.html", "admin/dashboard.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "admin dashboard", "error", err)
	}
}

func (s *Server) handleAdminInquiries(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w,
		map[string]any{"Title": "Inquiries", "Sections": adminSections, "Statuses": domain.InquiryStatuses},
		"admin/base.html", "admin/inquiries.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "admin inquiries", "error", err)
	}
}

func (s *Server) handleAdminSection(w http.ResponseWriter, r *http.Request) {
	section, ok := findAdminSection(r.PathValue("section"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.renderPage(w,
		map[string]any{"Title": section.Title, "Sections": adminSections, "Section": section},
		"admin/base.html", "admin/section.html",
	); err != nil {
		s.logger.Error("render page failed", "page", "admin section", "section", section.Name, "error", err)
	}
}
