package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/stretchr/testify/require"
)

// writeTree creates empty files (and their parent dirs) below root.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
}

func TestBuilder_Build(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"Residential/Oak House/front.jpg",
		"Residential/Oak House/details/door.PNG",
		"Residential/Oak House/notes.txt",
		"Civil/Bridge Repair/b.webp",
		"Civil/Bridge Repair/a.jpeg",
		"Civil/stray.jpg",
		"readme.md",
	)

	cat, err := catalog.NewBuilder(root).Build(context.Background())
	require.NoError(t, err)

	want := []catalog.Project{
		{
			Slug:     "civil/bridge-repair",
			Title:    "Bridge Repair",
			Category: "Civil",
			Cover:    "/Civil/Bridge Repair/a.jpeg",
			Images:   []string{"/Civil/Bridge Repair/a.jpeg", "/Civil/Bridge Repair/b.webp"},
			Count:    2,
		},
		{
			Slug:     "residential/oak-house",
			Title:    "Oak House",
			Category: "Residential",
			Cover:    "/Residential/Oak House/details/door.PNG",
			Images:   []string{"/Residential/Oak House/details/door.PNG", "/Residential/Oak House/front.jpg"},
			Count:    2,
		},
	}
	if diff := cmp.Diff(want, cat.Projects()); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_NaturalSort(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"Civil/Project 10/img10.jpg",
		"Civil/Project 10/img2.jpg",
		"Civil/Project 10/img1.jpg",
		"Civil/Project 2/IMG3.jpg",
		"Civil/project 1/img.jpg",
	)

	cat, err := catalog.NewBuilder(root).Build(context.Background())
	require.NoError(t, err)

	projects := cat.Projects()
	require.Len(t, projects, 3)
	require.Equal(t, []string{"project 1", "Project 2", "Project 10"},
		[]string{projects[0].Title, projects[1].Title, projects[2].Title})
	require.Equal(t, []string{
		"/Civil/Project 10/img1.jpg",
		"/Civil/Project 10/img2.jpg",
		"/Civil/Project 10/img10.jpg",
	}, projects[2].Images)
}

func TestBuilder_ExcludesProjectsWithoutImages(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"Civil/Empty/readme.txt",
		"Civil/Empty/nested/plan.pdf",
		"Civil/Full/one.jpg",
	)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Civil", "Bare"), 0o755))

	cat, err := catalog.NewBuilder(root).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())
	require.Equal(t, "Full", cat.Projects()[0].Title)
}

func TestBuilder_SlugCollisionKeepsBoth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"Roads/Road-Work/a.jpg",
		"Roads/road work/b.jpg",
	)

	cat, err := catalog.NewBuilder(root).Build(context.Background())
	require.NoError(t, err)

	projects := cat.Projects()
	require.Len(t, projects, 2)
	require.Equal(t, "roads/road-work", projects[0].Slug)
	require.Equal(t, projects[0].Slug, projects[1].Slug)
	require.ElementsMatch(t, []string{"Road-Work", "road work"}, []string{projects[0].Title, projects[1].Title})
}

func TestBuilder_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"B/Two/2.jpg",
		"B/Two/10.jpg",
		"A/One/x.png",
		"A/One/sub/y.png",
	)
	builder := catalog.NewBuilder(root)

	first, err := builder.Build(context.Background())
	require.NoError(t, err)
	second, err := builder.Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first.Projects(), second.Projects()))

	a, err := catalog.EncodeSnapshot(first)
	require.NoError(t, err)
	b, err := catalog.EncodeSnapshot(second)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestBuilder_MissingRoot(t *testing.T) {
	_, err := catalog.NewBuilder(filepath.Join(t.TempDir(), "missing")).Build(context.Background())
	require.ErrorIs(t, err, catalog.ErrAssetRoot)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuilder_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"Civil/Site/a.gif",
		"Civil/Site/b.jpg",
	)

	cat, err := catalog.NewBuilder(root, catalog.WithExtensions([]string{"GIF"})).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"/Civil/Site/a.gif"}, cat.Projects()[0].Images)
}

func TestBuilder_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Civil/Site/a.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := catalog.NewBuilder(root).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Bridge Repair":    "bridge-repair",
		"  --Hello__World": "hello-world",
		"Café 2024!":       "caf-2024",
		"***":              "",
		"road work":        "road-work",
	}
	for in, want := range cases {
		require.Equal(t, want, catalog.Slugify(in), in)
	}
}
