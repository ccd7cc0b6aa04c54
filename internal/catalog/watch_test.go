package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Civil/Bridge/1.jpg")

	w, err := catalog.NewWatcher(context.Background(), catalog.NewBuilder(root), nil,
		catalog.WithRebuildDelay(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	cat, err := w.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	writeTree(t, root, "Civil/Tunnel/deep/1.jpg")

	require.Eventually(t, func() bool {
		cat, err := w.Load(context.Background())
		return err == nil && cat.Len() == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcher_InitialBuildFailure(t *testing.T) {
	_, err := catalog.NewWatcher(context.Background(), catalog.NewBuilder("/definitely/not/here"), nil)
	require.ErrorIs(t, err, catalog.ErrAssetRoot)
}
