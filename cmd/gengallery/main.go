// Command gengallery scans an asset root and writes the project catalog as
// a JSON snapshot and, optionally, into a SQLite database.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/rpggio/spgallery/internal/config"
	"github.com/rpggio/spgallery/internal/logging"
	"github.com/rpggio/spgallery/internal/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	defaults := config.Default()

	flagSet := flag.NewFlagSet("gengallery", flag.ContinueOnError)
	flagSet.SetOutput(errOut)

	root := flagSet.String("root", defaults.Catalog.Root, "asset root laid out as <category>/<project>/<images>")
	snapshot := flagSet.String("out", defaults.Catalog.Snapshot, "snapshot file to write")
	dbPath := flagSet.String("db", "", "also store the catalog in this SQLite database")
	exts := flagSet.StringSlice("ext", defaults.Catalog.Extensions, "image extensions to include")
	level := flagSet.String("log-level", "info", "log level (debug, info, warn, error)")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: logging.ParseLevel(*level)}))

	builder := catalog.NewBuilder(*root, catalog.WithExtensions(*exts), catalog.WithLogger(logger))
	c, err := builder.Build(ctx)
	if err != nil {
		logger.Error("failed to build catalog", "root", *root, "error", err)
		return 1
	}

	if err := catalog.WriteSnapshot(*snapshot, c); err != nil {
		logger.Error("failed to write snapshot", "path", *snapshot, "error", err)
		return 1
	}

	if *dbPath != "" {
		gen, err := storeCatalog(ctx, *dbPath, c)
		if err != nil {
			logger.Error("failed to store catalog", "path", *dbPath, "error", err)
			return 1
		}
		logger.Info("catalog stored", "path", *dbPath, "generation", gen.ID)
	}

	fmt.Fprintf(out, "Wrote %d projects to %s\n", c.Len(), *snapshot)
	return 0
}

func storeCatalog(ctx context.Context, path string, c *catalog.Catalog) (sqlite.Generation, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sqlite.Generation{}, err
		}
	}
	db, err := sqlite.New(path)
	if err != nil {
		return sqlite.Generation{}, err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return sqlite.Generation{}, err
	}
	return sqlite.NewCatalogStore(db).Replace(ctx, c)
}
