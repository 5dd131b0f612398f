// Package site serves the server-rendered dashboard page and its assets.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/speedcheck-web/internal/adapters/http/api"
	"github.com/okian/speedcheck-web/internal/app/dashboard"
	"github.com/okian/speedcheck-web/internal/domain/origin"
	"github.com/okian/speedcheck-web/pkg/logger"
)

// Error constants
var (
	ErrRender = errors.New("dashboard render failed")
	ErrServe  = errors.New("dashboard serve failed")
)

const pageTitle = "Speed Checker Dashboard"

// PageLoader produces the data for one render.
type PageLoader interface {
	Load(ctx context.Context) dashboard.Page
}

// RootHandler renders the dashboard.
type RootHandler struct {
	loader   PageLoader
	resolver origin.Resolver
	log      logger.Logger
}

// NewRootHandler creates a new root handler.
func NewRootHandler(loader PageLoader, resolver origin.Resolver, log logger.Logger) *RootHandler {
	return &RootHandler{loader: loader, resolver: resolver, log: log}
}

// Register attaches the dashboard routes to mux:
//
//	GET /             -> server-rendered dashboard
//	GET /page-data    -> the same data as JSON
//	GET /config.json  -> browser-side API origin
//	GET /static/...   -> embedded assets
func Register(_ context.Context, mux *http.ServeMux, h *RootHandler) {
	if mux == nil {
		panic("mux is nil")
	}
	if h == nil {
		panic("root handler is nil")
	}

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.HandleFunc("/page-data", api.MetricsMiddleware(h.HandlePageData, "page_data"))
	mux.HandleFunc("/config.json", api.MetricsMiddleware(h.HandleConfig, "config"))
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "dashboard"))
}

type pageView struct {
	Title       string
	APIBaseURL  string
	Fallback    bool
	Stats       dashboard.Statistics
	RecentSpeed int
	RecentIperf int
	Page        dashboard.Page
}

// HandleRoot handles GET / and renders the dashboard with data loaded on the server.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page := h.loader.Load(r.Context())
	data := dashboard.Decode(page)
	view := pageView{
		Title:       pageTitle,
		APIBaseURL:  h.resolver.Origin(origin.Browser),
		Fallback:    page.Fallback,
		Stats:       data.Statistics,
		RecentSpeed: len(data.RecentSpeedTests),
		RecentIperf: len(data.RecentIperfTests),
		Page:        page,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		h.log.Error(r.Context(), "render dashboard", logger.Error(errors.Join(ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn(r.Context(), "write dashboard", logger.Error(errors.Join(ErrServe, err)))
	}
}

// HandlePageData handles GET /page-data for client-side navigation.
func (h *RootHandler) HandlePageData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, h.loader.Load(r.Context()))
}

type browserConfig struct {
	APIBaseURL string `json:"api_base_url"`
}

// HandleConfig handles GET /config.json.
func (h *RootHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, browserConfig{APIBaseURL: h.resolver.Origin(origin.Browser)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(v)
}
