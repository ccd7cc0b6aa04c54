package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// Source supplies the catalog the query service reads from. Implementations
// either rebuild on every call or hand back a catalog built once.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Options narrows a project listing. An empty Category matches everything.
// A non-empty Category is trimmed before matching, so one made only of
// whitespace matches nothing. A Limit of zero or less means no truncation.
type Options struct {
	Category string
	Limit    int
}

// Service answers project queries against a Source.
type Service struct {
	source Source
	logger *slog.Logger
}

// NewService creates a new catalog query service.
func NewService(source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{source: source, logger: logger}
}

// GetProjects returns the filtered, limited projects in catalog order.
// Every returned project is an independent copy.
func (s *Service) GetProjects(ctx context.Context, opts Options) ([]Project, error) {
	cat, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	projects := Filter(cat, opts)
	s.logger.Debug("projects queried", "category", opts.Category, "limit", opts.Limit, "results", len(projects))
	return projects, nil
}

// GetProject returns the first project whose slug matches.
func (s *Service) GetProject(ctx context.Context, slug string) (*Project, error) {
	cat, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	var found *Project
	cat.each(func(p *Project) bool {
		if p.Slug == slug {
			clone := p.Clone()
			found = &clone
			return false
		}
		return true
	})
	if found == nil {
		return nil, ErrProjectNotFound
	}
	return found, nil
}

// Categories lists distinct categories in catalog order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cat, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat.Categories(), nil
}

// Filter applies opts to cat without touching it.
func Filter(cat *Catalog, opts Options) []Project {
	filtered := opts.Category != ""
	category := strings.TrimSpace(opts.Category)
	out := []Project{}
	cat.each(func(p *Project) bool {
		if filtered && !equalFold(p.Category, category) {
			return true
		}
		out = append(out, p.Clone())
		return opts.Limit <= 0 || len(out) < opts.Limit
	})
	return out
}

// ParseCategory normalizes a category query parameter. A blank parameter
// becomes empty and so means no filter.
func ParseCategory(raw string) string {
	return strings.TrimSpace(raw)
}

// ParseLimit reads a limit query parameter. Leading whitespace and an
// optional sign are accepted, then the leading decimal digits are used; any
// trailing text is ignored. Values that are missing, non-numeric or not
// positive yield 0, meaning no limit.
func ParseLimit(raw string) int {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}
	n := 0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
		if n > (math.MaxInt-int(r-'0'))/10 {
			n = math.MaxInt
			continue
		}
		n = n*10 + int(r-'0')
	}
	if digits == 0 || negative || n <= 0 {
		return 0
	}
	return n
}
