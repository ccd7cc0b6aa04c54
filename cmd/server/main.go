package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/rpggio/spgallery/internal/config"
	"github.com/rpggio/spgallery/internal/live"
	"github.com/rpggio/spgallery/internal/logging"
	"github.com/rpggio/spgallery/internal/mcp"
	"github.com/rpggio/spgallery/internal/sqlite"
	"github.com/rpggio/spgallery/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logger, closeLog, err := logging.New(cfg.Log, cfg.Transport.Mode == config.TransportStdio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log setup error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		_ = closeLog()
		os.Exit(1)
	}
	_ = closeLog()
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := openSource(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open catalog (%s mode): %w", cfg.Catalog.Mode, err)
	}
	defer closeSource()

	svc := catalog.NewService(source, logger)
	mcpServer := mcp.NewServer(mcp.Config{Catalog: svc, Logger: logger})

	if cfg.Transport.Mode == config.TransportStdio {
		return runStdioMode(ctx, logger, mcpServer)
	}
	return runHTTPMode(ctx, logger, cfg, svc, mcpServer)
}

// openSource picks the catalog source for the configured mode. Every mode
// loads the catalog once up front so a bad asset root, snapshot or database
// fails startup instead of the first request.
func openSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (catalog.Source, func(), error) {
	noop := func() {}
	builder := catalog.NewBuilder(cfg.Catalog.Root,
		catalog.WithExtensions(cfg.Catalog.Extensions),
		catalog.WithLogger(logger),
	)

	switch cfg.Catalog.Mode {
	case config.ModeWatch:
		w, err := catalog.NewWatcher(ctx, builder, logger)
		if err != nil {
			return nil, nil, err
		}
		return w, func() { _ = w.Close() }, nil

	case config.ModeSnapshot:
		c, err := catalog.ReadSnapshot(cfg.Catalog.Snapshot)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("catalog snapshot loaded", "path", cfg.Catalog.Snapshot, "projects", c.Len())
		return catalog.NewStaticSource(c), noop, nil

	case config.ModeSQLite:
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return nil, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		store := sqlite.NewCatalogStore(db)
		c, err := store.Load(ctx)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		gen, err := store.CurrentGeneration(ctx)
		if errors.Is(err, sqlite.ErrEmptyCatalog) {
			logger.Warn("catalog database has never been filled", "path", cfg.DB.Path, "hint", "run gengallery --db")
		}
		logger.Info("catalog database loaded", "path", cfg.DB.Path, "projects", c.Len(), "generation", gen.ID)
		return store, func() { _ = db.Close() }, nil

	default:
		if _, err := builder.Build(ctx); err != nil {
			return nil, nil, err
		}
		return catalog.NewFSSource(builder), noop, nil
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, cfg config.Config, svc *catalog.Service, mcpServer *sdkmcp.Server) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	liveHandler := live.NewHandler(svc, live.Config{
		TargetOrigin:   cfg.Embed.TargetOrigin,
		HeightDebounce: cfg.Embed.HeightDebounce,
		Logger:         logger,
	})

	router := transport.NewServer(transport.Deps{
		Catalog:    svc,
		Live:       liveHandler,
		MCP:        mcpHandler,
		AssetRoot:  cfg.Catalog.Root,
		Extensions: cfg.Catalog.Extensions,
		Logger:     logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "catalog_mode", cfg.Catalog.Mode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
