package service

import (
	"context"
	"fmt"

	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/Abdul1ayev/greenshop-api/internal/repo"
	"github.com/Abdul1ayev/greenshop-api/internal/search"
	"github.com/google/uuid"
)

// CatalogService reads products and categories. The catalog is read-only
// here; its rows are maintained by the admin panel outside this service.
type CatalogService struct {
	Repo   *repo.GormRepo
	Search *search.Client // optional, repo fallback when nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return cats, nil
}

func (s *CatalogService) Products(ctx context.Context, f repo.ProductFilter) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return items, nil
}

func (s *CatalogService) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return product, nil
}

// SearchProducts serves the storefront search box. With Elasticsearch
// configured it does a fuzzy multi_match over name and description; otherwise
// it falls back to a LIKE filter in the database.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if query == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}

	if s.Search != nil {
		total, items, err := s.Search.Products(ctx, query, from, size)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		return total, items, nil
	}

	total, items, err := s.Repo.SearchProducts(ctx, query, from, size)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return total, items, nil
}
