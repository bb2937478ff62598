package pos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zenith-pos/internal/domain"
)

// Recorder persists a finished sale and returns its id.
type Recorder interface {
	RecordTransaction(ctx context.Context, tx domain.Transaction) (string, error)
}

// Checkout turns the cart into a transaction, persists it through recorder and
// clears the cart. session may be nil for unattributed sales. If recording
// fails the cart is left untouched.
func Checkout(ctx context.Context, cart *Cart, session *Session, recorder Recorder) (domain.Transaction, error) {
	if cart.Len() == 0 {
		return domain.Transaction{}, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	tx := domain.Transaction{
		Items:     cart.Items(),
		Total:     cart.Totals().Total.Round(2).InexactFloat64(),
		Timestamp: time.Now().UnixMilli(),
	}
	if session != nil {
		if user, ok := session.User(); ok {
			tx.CashierID = user.ID
			tx.CashierName = user.Name
		}
	}

	id, err := recorder.RecordTransaction(ctx, tx)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidCredentials) {
			return domain.Transaction{}, fmt.Errorf("failed to record transaction: %w", err)
		}
		return domain.Transaction{}, fmt.Errorf("%w: failed to record transaction: %w", domain.ErrPersistence, err)
	}
	tx.ID = id
	cart.Clear()
	return tx, nil
}
