package repository

import (
	"context"
	"fmt"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/store"
)

// ProductsCollection is the store collection name for the catalog.
const ProductsCollection = "products"

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	EnsureSeed(ctx context.Context) error
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, id string, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	products *store.Collection[domain.Product, *domain.Product]
}

// NewProductRepository creates a new instance of ProductRepository seeded with
// the default café catalog.
func NewProductRepository(backend store.Backend, opts ...store.Option) ProductRepository {
	return &productRepository{
		products: store.NewCollection[domain.Product](backend, ProductsCollection, SeedProducts(), opts...),
	}
}

func (r *productRepository) EnsureSeed(ctx context.Context) error {
	if _, err := r.products.EnsureSeed(ctx); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	return nil
}

// List returns the whole catalog in insertion order.
func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	products, err := r.products.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	product, err := r.products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

// Create validates product and stores it under a fresh id. Any id supplied by
// the caller is discarded.
func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	product.ID = ""
	if err := domain.Validate(product); err != nil {
		return domain.Product{}, err
	}
	created, err := r.products.Create(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// Update fully replaces the product stored under id.
func (r *productRepository) Update(ctx context.Context, id string, product domain.Product) (domain.Product, error) {
	product.ID = id
	if err := domain.Validate(product); err != nil {
		return domain.Product{}, err
	}
	updated, err := r.products.Save(ctx, id, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.products.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
