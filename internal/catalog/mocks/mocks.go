package mocks

import (
	"context"

	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/stretchr/testify/mock"
)

// Source is a mock for catalog.Source.
type Source struct {
	mock.Mock
}

func (m *Source) Load(ctx context.Context) (*catalog.Catalog, error) {
	args := m.Called(ctx)
	if cat, ok := args.Get(0).(*catalog.Catalog); ok {
		return cat, args.Error(1)
	}
	return nil, args.Error(1)
}

// CatalogService is a mock for the catalog query surface used by transports.
type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) GetProjects(ctx context.Context, opts catalog.Options) ([]catalog.Project, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]catalog.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogService) GetProject(ctx context.Context, slug string) (*catalog.Project, error) {
	args := m.Called(ctx, slug)
	if p, ok := args.Get(0).(*catalog.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CatalogService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
