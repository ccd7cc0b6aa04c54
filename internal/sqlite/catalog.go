package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spgallery/internal/catalog"
)

// CatalogStore keeps a precomputed catalog in SQLite. It implements
// catalog.Source; Load returns projects in the order they were saved.
type CatalogStore struct {
	db *DB
}

// NewCatalogStore creates a new CatalogStore
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Generation identifies one Replace call.
type Generation struct {
	ID      string
	BuiltAt time.Time
}

// Replace swaps the stored catalog for c in a single transaction.
func (s *CatalogStore) Replace(ctx context.Context, c *catalog.Catalog) (Generation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Generation{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_images`); err != nil {
		return Generation{}, fmt.Errorf("failed to clear images: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return Generation{}, fmt.Errorf("failed to clear projects: %w", err)
	}

	projectStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (position, slug, title, category, cover)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Generation{}, fmt.Errorf("failed to prepare project insert: %w", err)
	}
	defer projectStmt.Close()

	imageStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO project_images (project_position, position, path)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return Generation{}, fmt.Errorf("failed to prepare image insert: %w", err)
	}
	defer imageStmt.Close()

	for i, p := range c.Projects() {
		if _, err := projectStmt.ExecContext(ctx, i, p.Slug, p.Title, p.Category, p.Cover); err != nil {
			return Generation{}, fmt.Errorf("failed to insert project %q: %w", p.Slug, err)
		}
		for j, img := range p.Images {
			if _, err := imageStmt.ExecContext(ctx, i, j, img); err != nil {
				return Generation{}, fmt.Errorf("failed to insert image %q: %w", img, err)
			}
		}
	}

	gen := Generation{ID: uuid.NewString(), BuiltAt: time.Now().UTC()}
	meta := map[string]string{
		"generation": gen.ID,
		"built_at":   gen.BuiltAt.Format(time.RFC3339Nano),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return Generation{}, fmt.Errorf("failed to write catalog meta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Generation{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return gen, nil
}

// Load reads the stored catalog.
func (s *CatalogStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.position, p.slug, p.title, p.category, p.cover, i.path
		FROM projects p
		JOIN project_images i ON i.project_position = p.position
		ORDER BY p.position ASC, i.position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer rows.Close()

	var (
		projects []catalog.Project
		current  *catalog.Project
		lastPos  = -1
	)
	for rows.Next() {
		var (
			pos  int
			p    catalog.Project
			path string
		)
		if err := rows.Scan(&pos, &p.Slug, &p.Title, &p.Category, &p.Cover, &path); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		if pos != lastPos {
			projects = append(projects, p)
			current = &projects[len(projects)-1]
			lastPos = pos
		}
		current.Images = append(current.Images, path)
		current.Count = len(current.Images)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}

	for _, p := range projects {
		if !p.Valid() {
			return nil, fmt.Errorf("%w: stored project %q cover does not match first image", catalog.ErrSnapshot, p.Slug)
		}
	}
	return catalog.NewCatalog(projects), nil
}

// CurrentGeneration returns the metadata of the last Replace.
func (s *CatalogStore) CurrentGeneration(ctx context.Context) (Generation, error) {
	var gen Generation
	var builtAt string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = 'generation'`).Scan(&gen.ID)
	if err == sql.ErrNoRows {
		return Generation{}, ErrEmptyCatalog
	}
	if err != nil {
		return Generation{}, fmt.Errorf("failed to read generation: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = 'built_at'`).Scan(&builtAt); err != nil {
		return Generation{}, fmt.Errorf("failed to read built_at: %w", err)
	}
	gen.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt)
	if err != nil {
		return Generation{}, fmt.Errorf("failed to parse built_at: %w", err)
	}
	return gen, nil
}
