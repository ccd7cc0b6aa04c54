package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spgallery/internal/catalog"
)

const serverInstructions = `spgallery serves a read-only catalog of photo projects.

Core concepts:
- Project: a folder of images under a category folder. Slug, title, category, cover, images, count.
- Catalog order: category then title, case-insensitive with numeric runs compared by value.
- Category filter: exact match ignoring case and surrounding whitespace.

Tools:
- get_projects(category?, limit?) lists projects in catalog order.
- get_project(slug) returns one project. Slugs are not guaranteed unique; the first match wins.
- list_categories() returns distinct categories in catalog order.

Docs:
- gallery://docs/embed (postMessage contract for host pages)
- gallery://catalog (the full catalog as JSON)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "gallery://docs/embed",
		Name:        "docs_embed",
		Title:       "Embedding the gallery",
		Description: "How a host page frames the gallery and which messages it receives.",
		Content: `# Embedding the gallery

Frame ` + "`/embed/projects`" + ` in an iframe. Query parameters:

- ` + "`category`" + `: show one category (case-insensitive).
- ` + "`limit`" + `: show at most N projects. Non-numeric or non-positive values are ignored.

## Messages

The framed document posts to ` + "`window.parent`" + `:

| type | payload | when |
| --- | --- | --- |
| ` + "`sp-gallery:height`" + ` | ` + "`height`" + ` (integer px) | initially, then 50ms after the last load, resize or DOM change |
| ` + "`sp-gallery:lightbox-open`" + ` | none | the lightbox opens while framed |
| ` + "`sp-gallery:lightbox-close`" + ` | none | the lightbox closes while framed, including when the gallery loses its server connection |

Height is the maximum of the document scroll height, body scroll height and window inner height.

Messages are posted with target origin ` + "`*`" + ` unless the server is configured with ` + "`embed.target_origin`" + `. Host pages should check ` + "`event.data.type`" + ` and ignore anything else.

## Host example

` + "```js" + `
window.addEventListener("message", (event) => {
  const data = event.data || {};
  if (data.type === "sp-gallery:height") frame.style.height = data.height + "px";
  if (data.type === "sp-gallery:lightbox-open") document.body.classList.add("gallery-open");
  if (data.type === "sp-gallery:lightbox-close") document.body.classList.remove("gallery-open");
});
` + "```" + `
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      resourceURI(req, doc.URI),
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

const catalogURI = "gallery://catalog"

func registerCatalogResource(server *sdkmcp.Server, svc CatalogService) {
	server.AddResource(&sdkmcp.Resource{
		URI:         catalogURI,
		Name:        "catalog",
		Title:       "Project catalog",
		Description: "Every project in catalog order, in the snapshot format.",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		projects, err := svc.GetProjects(ctx, catalog.Options{})
		if err != nil {
			return nil, toolError(err)
		}
		data, err := json.MarshalIndent(projects, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding catalog: %w", err)
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      resourceURI(req, catalogURI),
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	})
}

func resourceURI(req *sdkmcp.ReadResourceRequest, fallback string) string {
	if req != nil && req.Params != nil && req.Params.URI != "" {
		return req.Params.URI
	}
	return fallback
}
