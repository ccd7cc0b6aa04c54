package mcp

import (
	"context"
	"io"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spgallery/internal/catalog"
)

// CatalogService defines the catalog queries exposed as tools.
type CatalogService interface {
	GetProjects(ctx context.Context, opts catalog.Options) ([]catalog.Project, error)
	GetProject(ctx context.Context, slug string) (*catalog.Project, error)
	Categories(ctx context.Context) ([]string, error)
}

// Config contains server configuration.
type Config struct {
	Catalog CatalogService
	Version string
	Logger  *slog.Logger
}

// NewServer creates an MCP server with the catalog tools and doc resources.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "spgallery",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)
	registerCatalogResource(server, cfg.Catalog)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Catalog)

	return server
}
