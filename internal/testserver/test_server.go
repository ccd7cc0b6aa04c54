package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/rpggio/spgallery/internal/live"
	"github.com/rpggio/spgallery/internal/mcp"
	"github.com/rpggio/spgallery/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer runs the full HTTP stack over an asset tree in a temp dir.
type TestServer struct {
	Server    *httptest.Server
	AssetRoot string
	Catalog   *catalog.Service
}

// Option adjusts the server before it starts.
type Option func(*options)

type options struct {
	heightDebounce time.Duration
	targetOrigin   string
}

// WithHeightDebounce sets the live channel height debounce.
func WithHeightDebounce(d time.Duration) Option {
	return func(o *options) { o.heightDebounce = d }
}

// WithTargetOrigin pins the postMessage target origin.
func WithTargetOrigin(origin string) Option {
	return func(o *options) { o.targetOrigin = origin }
}

// New writes files (relative slash paths) under a fresh asset root and
// serves it with a filesystem-backed catalog.
func New(t *testing.T, files []string, opts ...Option) *TestServer {
	t.Helper()

	o := options{targetOrigin: "*"}
	for _, opt := range opts {
		opt(&o)
	}

	root := t.TempDir()
	for _, name := range files {
		WriteFile(t, root, name)
	}

	svc := catalog.NewService(catalog.NewFSSource(catalog.NewBuilder(root)), nil)
	mcpServer := mcp.NewServer(mcp.Config{Catalog: svc})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)

	server := httptest.NewServer(transport.NewServer(transport.Deps{
		Catalog: svc,
		Live: live.NewHandler(svc, live.Config{
			TargetOrigin:   o.targetOrigin,
			HeightDebounce: o.heightDebounce,
		}),
		MCP:       mcpHandler,
		AssetRoot: root,
	}))
	t.Cleanup(server.Close)

	return &TestServer{Server: server, AssetRoot: root, Catalog: svc}
}

// WriteFile creates a small file at the slash path name under root.
func WriteFile(t *testing.T, root, name string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("image:"+name), 0o644))
}

// MCPClient connects an MCP client session to the server's /mcp endpoint.
func (ts *TestServer) MCPClient(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.Server.URL + "/mcp"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
