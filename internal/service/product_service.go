package service

import (
	"context"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/repository"
)

// ProductService defines the interface for catalog business logic
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, id string, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// List seeds the catalog on first use and returns every product.
func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	if err := s.productRepo.EnsureSeed(ctx); err != nil {
		return nil, err
	}
	return s.productRepo.List(ctx)
}

func (s *productService) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	return s.productRepo.Create(ctx, product)
}

func (s *productService) Update(ctx context.Context, id string, product domain.Product) (domain.Product, error) {
	return s.productRepo.Update(ctx, id, product)
}

func (s *productService) Delete(ctx context.Context, id string) error {
	return s.productRepo.Delete(ctx, id)
}
