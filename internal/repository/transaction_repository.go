package repository

import (
	"context"
	"fmt"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/store"
)

// TransactionsCollection is the store collection name for completed sales.
const TransactionsCollection = "transactions"

// TransactionRepository defines the interface for sales history. Transactions
// are create-only.
type TransactionRepository interface {
	Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	FindByID(ctx context.Context, id string) (domain.Transaction, error)
	List(ctx context.Context, cursor string, limit int) (store.Page[domain.Transaction], error)
	All(ctx context.Context) ([]domain.Transaction, error)
}

type transactionRepository struct {
	transactions *store.Collection[domain.Transaction, *domain.Transaction]
}

// NewTransactionRepository creates a new instance of TransactionRepository
func NewTransactionRepository(backend store.Backend, opts ...store.Option) TransactionRepository {
	return &transactionRepository{
		transactions: store.NewCollection[domain.Transaction](backend, TransactionsCollection, nil, opts...),
	}
}

// Create stores tx under a fresh id. A transaction without items is rejected.
func (r *transactionRepository) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if len(tx.Items) == 0 {
		return domain.Transaction{}, fmt.Errorf("%w: transaction must include at least one item", domain.ErrValidation)
	}
	tx.ID = ""
	tx.Items = domain.CloneItems(tx.Items)
	created, err := r.transactions.Create(ctx, tx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id string) (domain.Transaction, error) {
	tx, err := r.transactions.Get(ctx, id)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to find transaction: %w", err)
	}
	return tx, nil
}

func (r *transactionRepository) List(ctx context.Context, cursor string, limit int) (store.Page[domain.Transaction], error) {
	page, err := r.transactions.List(ctx, cursor, limit)
	if err != nil {
		return store.Page[domain.Transaction]{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	return page, nil
}

// All returns the complete history in the order it was recorded.
func (r *transactionRepository) All(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := r.transactions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}
