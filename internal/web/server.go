package web

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/atelier/internal/auth"
	"github.com/vbonduro/atelier/internal/content"
	"github.com/vbonduro/atelier/internal/service"
	"github.com/vbonduro/atelier/internal/site"
)

// Deps are the services the server routes to. Media is only set for the
// local blob backend.
type Deps struct {
	Sections  *content.Service
	Inquiries *service.InquiryService
	Auth      *auth.Manager
	Media     mediaSource
	Templates fs.FS
	Logger    *slog.Logger
}

// Options tune the HTTP surface.
type Options struct {
	// ImageHosts are remote hosts allowed in img-src.
	ImageHosts []string
	// BlobBaseURL is where blob URLs are served from. Its origin is added
	// to img-src.
	BlobBaseURL string
	// CORSOrigins enables CORS on /api/ for the listed origins.
	CORSOrigins []string
}

type Server struct {
	sections  *content.Service
	inquiries *service.InquiryService
	auth      *auth.Manager
	media     mediaSource
	pages     *site.Loader
	templates fs.FS
	validate  *validator.Validate
	mux       *http.ServeMux
	handler   http.Handler
	tmplFuncs template.FuncMap
	logger    *slog.Logger
}

func NewServer(deps Deps, opts Options) *Server {
	s := &Server{
		sections:  deps.Sections,
		inquiries: deps.Inquiries,
		auth:      deps.Auth,
		media:     deps.Media,
		pages:     site.NewLoader(deps.Sections, deps.Logger),
		templates: deps.Templates,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		mux:       http.NewServeMux(),
		logger:    deps.Logger,
		tmplFuncs: template.FuncMap{
			"imageOr": site.ImageOr,
			"inc":     func(i int) int { return i + 1 },
			"lines":   lines,
			"year":    func() int { return time.Now().Year() },
		},
	}
	s.registerRoutes()

	var h http.Handler = s.mux
	h = securityHeaders(contentSecurityPolicy(opts.ImageHosts, originOf(opts.BlobBaseURL)), h)
	if len(opts.CORSOrigins) > 0 {
		h = apiCORS(opts.CORSOrigins, h)
	}
	h = recoverer(s.logger, h)
	h = requestLogger(s.logger, h)
	s.handler = requestID(h)
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/admin/login", s.handleLogin)

	s.mux.HandleFunc("GET /api/hero/image", s.handleGetHeroImage)
	s.mux.HandleFunc("POST /api/hero/image", s.requireAdmin(s.handleUploadHeroImage))
	s.registerSection(content.Hero)
	for _, schema := range content.Sections {
		s.registerSection(schema)
	}

	s.mux.HandleFunc("GET /api/services", s.handleListServices)
	s.mux.HandleFunc("POST /api/services", s.requireAdmin(s.handleCreateService))
	s.mux.HandleFunc("PUT /api/services", s.requireAdmin(s.handleUpdateService))
	s.mux.HandleFunc("DELETE /api/services", s.requireAdmin(s.handleDeleteService))

	s.mux.HandleFunc("GET /api/projects", s.handleListProjects)
	s.mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	s.mux.HandleFunc("POST /api/projects", s.requireAdmin(s.handleCreateProject))
	s.mux.HandleFunc("PUT /api/projects", s.requireAdmin(s.handleUpdateProject))
	s.mux.HandleFunc("DELETE /api/projects", s.requireAdmin(s.handleDeleteProject))

	s.mux.HandleFunc("POST /api/contact", s.handleSubmitContact)
	s.mux.HandleFunc("GET /api/contact", s.requireAdmin(s.handleListInquiries))
	s.mux.HandleFunc("GET /api/contact/export", s.requireAdmin(s.handleExportInquiries))
	s.mux.HandleFunc("PATCH /api/contact/{id}", s.requireAdmin(s.handleSetInquiryStatus))

	if s.media != nil {
		s.mux.HandleFunc("GET /media/{bucket}/{key...}", s.handleMedia)
	}
	s.mux.Handle("GET /static/", s.staticHandler())

	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /services", s.handleServicesPage)
	s.mux.HandleFunc("GET /portfolio", s.handlePortfolio)
	s.mux.HandleFunc("GET /portfolio/{id}", s.handleProjectPage)
	s.mux.HandleFunc("GET /contact", s.handleContactPage)

	s.mux.HandleFunc("GET /admin", s.handleAdminDashboard)
	s.mux.HandleFunc("GET /admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("GET /admin/inquiries", s.handleAdminInquiries)
	s.mux.HandleFunc("GET /admin/{section}", s.handleAdminSection)
}

// registerSection mounts the generic CRUD routes for schema.
func (s *Server) registerSection(schema *content.Schema) {
	path := "/api/" + schema.Name
	s.mux.HandleFunc("GET "+path, s.handleListSection(schema))
	s.mux.HandleFunc("POST "+path, s.requireAdmin(s.handleCreateSection(schema)))
	s.mux.HandleFunc("PUT "+path, s.requireAdmin(s.handleUpdateSection(schema)))
	s.mux.HandleFunc("DELETE "+path, s.requireAdmin(s.handleDeleteSection(schema)))
	if schema.Singleton {
		s.mux.HandleFunc("GET "+path+"/current", s.handleCurrentSection(schema))
		s.mux.HandleFunc("PUT "+path+"/current", s.requireAdmin(s.handleUpsertSection(schema)))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HTTPServer returns an http.Server for addr with the server as handler.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}

func (s *Server) staticHandler() http.Handler {
	static, err := fs.Sub(s.templates, "static")
	if err != nil {
		s.logger.Error("static assets unavailable", "error", err)
		return http.NotFoundHandler()
	}
	return http.StripPrefix("/static/", http.FileServerFS(static))
}

// lines splits a newline separated text field into its non-blank lines.
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
