package repository

import (
	"context"
	"fmt"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/store"
)

// UsersCollection is the store collection name for operators.
const UsersCollection = "users"

// UserRepository defines the interface for operator data access
type UserRepository interface {
	EnsureSeed(ctx context.Context) error
	List(ctx context.Context, cursor string, limit int) (store.Page[domain.User], error)
	FindByName(ctx context.Context, name string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

type userRepository struct {
	users *store.Collection[domain.User, *domain.User]
}

// NewUserRepository creates a new instance of UserRepository seeded with the
// default Admin and Cashier operators.
func NewUserRepository(backend store.Backend, opts ...store.Option) UserRepository {
	return &userRepository{
		users: store.NewCollection[domain.User](backend, UsersCollection, SeedUsers(), opts...),
	}
}

func (r *userRepository) EnsureSeed(ctx context.Context) error {
	if _, err := r.users.EnsureSeed(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	return nil
}

// List returns one page of users. Stored password hashes are included; callers
// strip them before anything leaves the process.
func (r *userRepository) List(ctx context.Context, cursor string, limit int) (store.Page[domain.User], error) {
	page, err := r.users.List(ctx, cursor, limit)
	if err != nil {
		return store.Page[domain.User]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

// FindByName scans users in insertion order and returns the first whose name
// matches exactly.
func (r *userRepository) FindByName(ctx context.Context, name string) (domain.User, error) {
	users, err := r.users.All(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to find user by name: %w", err)
	}
	for _, u := range users {
		if u.Name == name {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("user %q: %w", name, domain.ErrNotFound)
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	user.ID = ""
	if user.Name == "" {
		return domain.User{}, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	created, err := r.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.users.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleted, nil
}

func (r *userRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	n, err := r.users.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}
	return n, nil
}
