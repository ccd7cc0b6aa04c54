package catalog

import "context"

// FSSource rebuilds the catalog from disk on every Load.
type FSSource struct {
	builder *Builder
}

// NewFSSource wraps a builder as a Source.
func NewFSSource(builder *Builder) *FSSource {
	return &FSSource{builder: builder}
}

// Load scans the asset root.
func (s *FSSource) Load(ctx context.Context) (*Catalog, error) {
	return s.builder.Build(ctx)
}

// StaticSource serves a catalog built once, typically at startup.
type StaticSource struct {
	catalog *Catalog
}

// NewStaticSource wraps an already built catalog.
func NewStaticSource(c *Catalog) *StaticSource {
	return &StaticSource{catalog: c}
}

// Load returns the wrapped catalog.
func (s *StaticSource) Load(context.Context) (*Catalog, error) {
	return s.catalog, nil
}
