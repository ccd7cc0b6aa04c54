package transport

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rpggio/spgallery/internal/catalog"
)

// assetHandler serves image files from the asset root. Only files with a
// gallery extension are served; everything else is a 404. Lookups go
// through os.Root so paths cannot leave the asset root.
type assetHandler struct {
	root string
	exts []string
}

func newAssetHandler(root string, exts []string) *assetHandler {
	if len(exts) == 0 {
		exts = catalog.DefaultExtensions
	}
	lower := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		lower = append(lower, ext)
	}
	return &assetHandler{root: root, exts: lower}
}

func (h *assetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.root == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		http.NotFound(w, r)
		return
	}
	name := path.Clean("/" + r.URL.Path)
	if !slices.Contains(h.exts, strings.ToLower(path.Ext(name))) {
		http.NotFound(w, r)
		return
	}

	root, err := os.OpenRoot(h.root)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer root.Close()

	f, err := root.Open(filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
