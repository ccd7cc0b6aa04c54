package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/spgallery/internal/catalog"
)

// CatalogService defines the catalog queries the HTTP surface needs.
type CatalogService interface {
	GetProjects(ctx context.Context, opts catalog.Options) ([]catalog.Project, error)
	GetProject(ctx context.Context, slug string) (*catalog.Project, error)
	Categories(ctx context.Context) ([]string, error)
}

// Deps wires the HTTP server. Live and MCP are optional.
type Deps struct {
	Catalog    CatalogService
	Live       http.Handler
	MCP        http.Handler
	AssetRoot  string
	Extensions []string
	Logger     *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	catalog CatalogService
	pages   *pages
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(deps Deps) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	srv := &Server{catalog: deps.Catalog, pages: mustParsePages(), logger: logger}

	r.Get("/health", srv.handleHealth)

	r.Get("/", srv.handleHome)
	r.Get("/projects", srv.handleProjects)
	r.Get("/embed/projects", srv.handleEmbedProjects)
	r.Handle("/static/*", staticHandler())

	r.Get("/api/projects", srv.handleListProjects)
	r.Get("/api/projects/*", srv.handleGetProject)
	r.Get("/api/categories", srv.handleCategories)

	if deps.Live != nil {
		r.Handle("/live", deps.Live)
	}
	if deps.MCP != nil {
		r.Handle("/mcp", deps.MCP)
		r.Handle("/mcp/*", deps.MCP)
	}

	assets := newAssetHandler(deps.AssetRoot, deps.Extensions)
	r.Handle(catalog.AssetPrefix+"/*", http.StripPrefix(catalog.AssetPrefix, assets))
	// Pages link images under AssetPrefix. The API reports bare web paths,
	// so unmatched paths fall through to the asset root too.
	r.NotFound(assets.ServeHTTP)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.catalog.GetProjects(r.Context(), queryOptions(r))
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	if projects == nil {
		projects = []catalog.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	slug := strings.Trim(chi.URLParam(r, "*"), "/")
	project, err := s.catalog.GetProject(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		s.logger.Error("failed to get project", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// queryOptions reads the category and limit query parameters. Only the
// first value of each counts.
func queryOptions(r *http.Request) catalog.Options {
	q := r.URL.Query()
	return catalog.Options{
		Category: catalog.ParseCategory(q.Get("category")),
		Limit:    catalog.ParseLimit(q.Get("limit")),
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
