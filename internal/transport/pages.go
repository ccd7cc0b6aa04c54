package transport

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/rpggio/spgallery/internal/catalog"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

const emptyGalleryMessage = "No projects with images were found."

type pages struct {
	tmpl *template.Template
}

func mustParsePages() *pages {
	tmpl := template.Must(template.New("base").Funcs(template.FuncMap{
		"photoCount": photoCountLabel,
	}).ParseFS(assetsFS, "templates/*.html"))
	return &pages{tmpl: tmpl}
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(assetsFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// cardVM is one project card. Index and Slug identify the project to the
// live channel.
type cardVM struct {
	Index    int
	Slug     string
	Title    string
	Category string
	Cover    string
	Count    int
}

type galleryVM struct {
	Title        string
	Embedded     bool
	Category     string
	Limit        string
	Cards        []cardVM
	EmptyMessage string
}

func photoCountLabel(count int) string {
	if count == 1 {
		return "1 photo"
	}
	return strconv.Itoa(count) + " photos"
}

func newGalleryVM(projects []catalog.Project) galleryVM {
	cards := make([]cardVM, 0, len(projects))
	for i, p := range projects {
		cards = append(cards, cardVM{
			Index:    i,
			Slug:     p.Slug,
			Title:    p.Title,
			Category: p.Category,
			Cover:    catalog.AssetURL(p.Cover),
			Count:    p.Count,
		})
	}
	return galleryVM{Cards: cards, EmptyMessage: emptyGalleryMessage}
}

func (p *pages) render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	if err := s.pages.render(w, "home.html", map[string]any{"Categories": categories}); err != nil {
		s.logger.Error("failed to render home", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.catalog.GetProjects(r.Context(), catalog.Options{})
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	vm := newGalleryVM(projects)
	vm.Title = "Projects"
	if err := s.pages.render(w, "projects.html", vm); err != nil {
		s.logger.Error("failed to render projects", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleEmbedProjects(w http.ResponseWriter, r *http.Request) {
	opts := queryOptions(r)
	projects, err := s.catalog.GetProjects(r.Context(), opts)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		http.Error(w, "catalog unavailable", http.StatusInternalServerError)
		return
	}
	vm := newGalleryVM(projects)
	vm.Title = "Projects"
	vm.Embedded = true
	vm.Category = opts.Category
	if opts.Limit > 0 {
		vm.Limit = strconv.Itoa(opts.Limit)
	}
	if err := s.pages.render(w, "embed.html", vm); err != nil {
		s.logger.Error("failed to render embed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}
