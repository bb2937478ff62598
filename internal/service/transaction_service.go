package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/pos"
	"zenith-pos/internal/report"
	"zenith-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// totalTolerance is the largest accepted gap between a submitted total and the
// recomputed one when totals are verified.
var totalTolerance = decimal.New(1, -2)

// TransactionService defines the interface for recording and reviewing sales
type TransactionService interface {
	Record(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	Report(ctx context.Context) (report.Summary, error)
	Export(ctx context.Context, w io.Writer) error
}

// TransactionOptions controls how submitted totals are treated.
type TransactionOptions struct {
	// VerifyTotals recomputes the total from the items and rejects a
	// submission that is off by more than one cent. When false the client
	// total is stored as sent.
	VerifyTotals bool
	TaxRate      float64
}

type transactionService struct {
	txRepo repository.TransactionRepository
	opts   TransactionOptions
	now    func() time.Time
}

// NewTransactionService creates a new instance of TransactionService
func NewTransactionService(txRepo repository.TransactionRepository, opts TransactionOptions) TransactionService {
	return &transactionService{
		txRepo: txRepo,
		opts:   opts,
		now:    time.Now,
	}
}

// Record validates and stores a completed sale.
func (s *transactionService) Record(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if len(tx.Items) == 0 {
		return domain.Transaction{}, fmt.Errorf("%w: transaction must include at least one item", domain.ErrValidation)
	}
	for _, item := range tx.Items {
		if item.Quantity < 1 || item.Price < 0 {
			return domain.Transaction{}, fmt.Errorf("%w: invalid line %q", domain.ErrValidation, item.ID)
		}
	}
	if tx.Timestamp == 0 {
		tx.Timestamp = s.now().UnixMilli()
	}

	if s.opts.VerifyTotals {
		want := pos.ComputeTotals(tx.Items, s.opts.TaxRate).Total
		got := decimal.NewFromFloat(tx.Total)
		if got.Sub(want).Abs().GreaterThan(totalTolerance) {
			return domain.Transaction{}, fmt.Errorf("%w: total %s does not match items (expected %s)",
				domain.ErrValidation, got.StringFixed(2), want.StringFixed(2))
		}
	}

	return s.txRepo.Create(ctx, tx)
}

// List returns every recorded transaction.
func (s *transactionService) List(ctx context.Context) ([]domain.Transaction, error) {
	return s.txRepo.All(ctx)
}

func (s *transactionService) Report(ctx context.Context) (report.Summary, error) {
	txs, err := s.txRepo.All(ctx)
	if err != nil {
		return report.Summary{}, err
	}
	summary, err := report.Summarize(txs)
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	return summary, nil
}

func (s *transactionService) Export(ctx context.Context, w io.Writer) error {
	txs, err := s.txRepo.All(ctx)
	if err != nil {
		return err
	}
	return report.WriteCSV(w, txs)
}
