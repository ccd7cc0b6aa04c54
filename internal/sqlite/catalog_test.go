package sqlite

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	mk := func(slug, title, category string, images ...string) catalog.Project {
		p, ok := catalog.NewProject(slug, title, category, images)
		require.True(t, ok)
		return p
	}
	return catalog.NewCatalog([]catalog.Project{
		mk("civil/bridge-repair", "Bridge Repair", "Civil", "/Civil/Bridge Repair/1.jpg", "/Civil/Bridge Repair/2.jpg", "/Civil/Bridge Repair/10.jpg"),
		mk("roads/road-work", "Road-Work", "Roads", "/Roads/Road-Work/a.jpg"),
		mk("roads/road-work", "road work", "Roads", "/Roads/road work/b.jpg"),
	})
}

func TestCatalogStore_ReplaceAndLoad(t *testing.T) {
	db := NewTestDB(t)
	store := NewCatalogStore(db)
	ctx := context.Background()

	want := testCatalog(t)
	gen, err := store.Replace(ctx, want)
	require.NoError(t, err)
	require.NotEmpty(t, gen.ID)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want.Projects(), got.Projects()); diff != "" {
		t.Fatalf("stored catalog mismatch (-want +got):\n%s", diff)
	}

	current, err := store.CurrentGeneration(ctx)
	require.NoError(t, err)
	require.Equal(t, gen.ID, current.ID)
}

func TestCatalogStore_ReplaceOverwrites(t *testing.T) {
	db := NewTestDB(t)
	store := NewCatalogStore(db)
	ctx := context.Background()

	first, err := store.Replace(ctx, testCatalog(t))
	require.NoError(t, err)

	p, ok := catalog.NewProject("a/b", "B", "A", []string{"/A/B/1.jpg"})
	require.True(t, ok)
	second, err := store.Replace(ctx, catalog.NewCatalog([]catalog.Project{p}))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	require.Equal(t, "a/b", got.Projects()[0].Slug)
}

func TestCatalogStore_EmptyStore(t *testing.T) {
	db := NewTestDB(t)
	store := NewCatalogStore(db)
	ctx := context.Background()

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, got.Len())

	_, err = store.CurrentGeneration(ctx)
	require.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestCatalogStore_BacksQueryService(t *testing.T) {
	db := NewTestDB(t)
	store := NewCatalogStore(db)
	ctx := context.Background()

	_, err := store.Replace(ctx, testCatalog(t))
	require.NoError(t, err)

	fromStore := catalog.NewService(store, nil)
	fromMemory := catalog.NewService(catalog.NewStaticSource(testCatalog(t)), nil)

	for _, opts := range []catalog.Options{
		{},
		{Category: "roads"},
		{Category: "ROADS", Limit: 1},
		{Limit: 2},
		{Category: "none"},
	} {
		a, err := fromStore.GetProjects(ctx, opts)
		require.NoError(t, err)
		b, err := fromMemory.GetProjects(ctx, opts)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(b, a), "%+v", opts)
	}
}
