package chi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// homeData is the view model of the search form.
type homeData struct {
	Title         string
	Regions       []string
	BusinessAreas []string
	DataSources   []string
	PageSize      int
}

func parsePages() (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("static assets: %v", err))
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	data := homeData{
		Title:         s.opts.Title,
		Regions:       s.opts.Regions,
		BusinessAreas: s.opts.BusinessAreas,
		DataSources:   s.opts.DataSources,
		PageSize:      request.DefaultPageSize,
	}

	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.requestLogger(r).Error("render index", zap.Error(err))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprintf(w, "<h1>Error loading template</h1><p>%s</p>", template.HTMLEscapeString(err.Error()))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
