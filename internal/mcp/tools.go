package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/spgallery/internal/catalog"
)

// GetProjectsInput filters the catalog.
type GetProjectsInput struct {
	Category string `json:"category,omitempty" jsonschema:"category name, trimmed and matched case-insensitively; omit for all projects"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of projects; zero or negative means no limit"`
}

// GetProjectsOutput lists projects in catalog order.
type GetProjectsOutput struct {
	Projects []catalog.Project `json:"projects"`
}

// GetProjectInput selects a project by slug.
type GetProjectInput struct {
	Slug string `json:"slug" jsonschema:"project slug such as civil/bridge-repair"`
}

// ListCategoriesOutput lists distinct categories in catalog order.
type ListCategoriesOutput struct {
	Categories []string `json:"categories"`
}

func registerTools(server *sdkmcp.Server, svc CatalogService) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_projects",
		Description: "List gallery projects ordered by category then title, optionally filtered by category and limited",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectsInput) (*sdkmcp.CallToolResult, GetProjectsOutput, error) {
		projects, err := svc.GetProjects(ctx, catalog.Options{
			Category: in.Category,
			Limit:    in.Limit,
		})
		if err != nil {
			return nil, GetProjectsOutput{}, toolError(err)
		}
		out := GetProjectsOutput{Projects: projects}
		if out.Projects == nil {
			out.Projects = []catalog.Project{}
		}
		return jsonResult(out)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project with all of its image paths",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectInput) (*sdkmcp.CallToolResult, catalog.Project, error) {
		if in.Slug == "" {
			return nil, catalog.Project{}, &APIError{Code: "INVALID_ARGUMENT", Message: "slug is required"}
		}
		project, err := svc.GetProject(ctx, in.Slug)
		if err != nil {
			return nil, catalog.Project{}, toolError(err)
		}
		return jsonResult(*project)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_categories",
		Description: "List the distinct project categories",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, ListCategoriesOutput, error) {
		categories, err := svc.Categories(ctx)
		if err != nil {
			return nil, ListCategoriesOutput{}, toolError(err)
		}
		out := ListCategoriesOutput{Categories: categories}
		if out.Categories == nil {
			out.Categories = []string{}
		}
		return jsonResult(out)
	})
}

func jsonResult[T any](out T) (*sdkmcp.CallToolResult, T, error) {
	data, err := json.Marshal(out)
	if err != nil {
		var zero T
		return nil, zero, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, out, nil
}
