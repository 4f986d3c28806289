package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osconnect/internal/domain"
	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/osconnect/internal/logger"
	exportuc "github.com/kailas-cloud/osconnect/internal/usecase/export"
	healthuc "github.com/kailas-cloud/osconnect/internal/usecase/health"
	searchuc "github.com/kailas-cloud/osconnect/internal/usecase/search"
)

// Error codes returned in the "code" field of error responses.
const (
	codeBadRequest    = "bad_request"
	codeInvalidDate   = "invalid_date"
	codeInvalidParams = "invalid_params"
	codeSearchFailed  = "opensearch_error"
)

// DefaultExportFilename is the attachment name of CSV exports.
const DefaultExportFilename = "opensearch_results.csv"

// DefaultChoices enumerates the filter values offered by the search form.
var DefaultChoices = []string{"A", "E", "I", "O", "U"}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Options configures the web front end.
type Options struct {
	Title          string
	ExportFilename string
	Regions        []string
	BusinessAreas  []string
	DataSources    []string
}

// Server serves the search form, the JSON search API and CSV exports.
type Server struct {
	search        *searchuc.Service
	export        *exportuc.Service
	health        *healthuc.Service
	pages         *template.Template
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP server. Empty option fields take defaults.
func NewServer(
	search *searchuc.Service,
	export *exportuc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = "OpenSearch Query Application"
	}
	if opts.ExportFilename == "" {
		opts.ExportFilename = DefaultExportFilename
	}
	if len(opts.Regions) == 0 {
		opts.Regions = DefaultChoices
	}
	if len(opts.BusinessAreas) == 0 {
		opts.BusinessAreas = DefaultChoices
	}
	if len(opts.DataSources) == 0 {
		opts.DataSources = DefaultChoices
	}

	s := &Server{
		search: search,
		export: export,
		health: health,
		pages:  pages,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidDateHandler,
		sentinelHandler(domain.ErrInvalidParams, http.StatusBadRequest, codeInvalidParams),
	}
	return s, nil
}

// Routes mounts all handlers on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/", s.Home)
	r.Get("/health", s.HealthCheck)
	r.Get("/ready", s.ReadinessCheck)
	r.Get("/search", s.Search)
	r.Get("/export", s.Export)
	r.Get("/metrics", s.Metrics)
	r.Handle("/static/*", staticHandler())
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	p, err := request.New(params.filters(), derefInt(params.Page, 1), derefInt(params.PageSize, 0))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.search.Search(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Export handles GET /export.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	params, err := bindExportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	n, err := s.export.Export(r.Context(), params.filters(), &buf)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.requestLogger(r).Debug("export written",
		zap.Int("records", n),
		zap.Int("bytes", buf.Len()),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+s.opts.ExportFilename)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HealthCheck handles GET /health. It does not contact the cluster.
func (s *Server) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ReadinessCheck handles GET /ready.
func (s *Server) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, ErrorResponse{Code: code, Detail: detail})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// invalidDateHandler reports the offending value without wrapping context.
func invalidDateHandler(w http.ResponseWriter, err error) bool {
	var ide *domain.InvalidDateError
	if !errors.As(err, &ide) {
		return false
	}
	writeError(w, http.StatusBadRequest, codeInvalidDate, ide.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.requestLogger(r).Warn("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
			return
		}
	}
	s.requestLogger(r).Error("search failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeSearchFailed, "OpenSearch error: "+err.Error())
}

// requestLogger prefers the per-request logger installed by the router middleware.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
