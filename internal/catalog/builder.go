package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DefaultExtensions is the image allow-list used when none is configured.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Builder scans an asset root laid out as <category>/<project>/**/<image>.
//
// Directories are listed one at a time; the first failing listing aborts
// the build. Symlinks are neither followed nor collected.
type Builder struct {
	root     string
	exts     map[string]struct{}
	collator *Collator
	logger   *slog.Logger
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithExtensions replaces the image extension allow-list. Matching is
// case-insensitive and a leading dot is optional.
func WithExtensions(exts []string) BuilderOption {
	return func(b *Builder) {
		if len(exts) == 0 {
			return
		}
		b.exts = extensionSet(exts)
	}
}

// WithLogger sets the builder logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a builder for the given asset root.
func NewBuilder(root string, opts ...BuilderOption) *Builder {
	b := &Builder{
		root:     root,
		exts:     extensionSet(DefaultExtensions),
		collator: NewCollator(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Root returns the asset root the builder scans.
func (b *Builder) Root() string {
	return b.root
}

// Build scans the asset root and returns the sorted catalog.
func (b *Builder) Build(ctx context.Context) (*Catalog, error) {
	start := time.Now()

	categories, err := os.ReadDir(b.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetRoot, err)
	}

	var projects []Project
	for _, categoryEntry := range categories {
		if !categoryEntry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		category := categoryEntry.Name()
		categoryPath := filepath.Join(b.root, category)
		projectEntries, err := os.ReadDir(categoryPath)
		if err != nil {
			return nil, fmt.Errorf("read category %q: %w", category, err)
		}

		for _, projectEntry := range projectEntries {
			if !projectEntry.IsDir() {
				continue
			}

			title := projectEntry.Name()
			projectPath := filepath.Join(categoryPath, title)
			images, err := b.collectImages(ctx, projectPath)
			if err != nil {
				return nil, err
			}

			rel, err := filepath.Rel(b.root, projectPath)
			if err != nil {
				return nil, fmt.Errorf("relative project path: %w", err)
			}
			proj, ok := NewProject(projectSlug(filepath.ToSlash(rel), title), title, category, images)
			if !ok {
				b.logger.Debug("skipping project without images", "category", category, "title", title)
				continue
			}
			projects = append(projects, proj)
		}
	}

	slices.SortStableFunc(projects, b.collator.compareProjects)

	b.logger.Info("catalog built", "root", b.root, "projects", len(projects), "duration", time.Since(start))
	return &Catalog{projects: projects}, nil
}

// collectImages flattens every allowed image below dir into sorted web paths.
func (b *Builder) collectImages(ctx context.Context, dir string) ([]string, error) {
	var images []string
	pending := []string{dir}
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := os.ReadDir(current)
		if err != nil {
			return nil, fmt.Errorf("read project directory %q: %w", current, err)
		}
		for _, entry := range entries {
			full := filepath.Join(current, entry.Name())
			switch {
			case entry.IsDir():
				pending = append(pending, full)
			case entry.Type().IsRegular() && b.isImage(entry.Name()):
				webPath, err := b.webPath(full)
				if err != nil {
					return nil, err
				}
				images = append(images, webPath)
			}
		}
	}

	slices.SortStableFunc(images, b.collator.Compare)
	return images, nil
}

func (b *Builder) isImage(name string) bool {
	_, ok := b.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// webPath expresses a file below the root as a slash-rooted URL path.
func (b *Builder) webPath(full string) (string, error) {
	rel, err := filepath.Rel(b.root, full)
	if err != nil {
		return "", fmt.Errorf("relative image path: %w", err)
	}
	return "/" + filepath.ToSlash(rel), nil
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
