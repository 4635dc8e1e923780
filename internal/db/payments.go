package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dizid/unplugged-cv/internal/types"
)

// InsertPayment appends a payment record. The ledger never updates or
// deletes payments.
func (db *DB) InsertPayment(ctx context.Context, payment *types.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO payments
		 (id, user_id, amount, currency, status, provider, provider_payment_id, payment_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		payment.ID, payment.UserID, payment.Amount, payment.Currency,
		payment.Status, payment.Provider, payment.ProviderPaymentID, payment.PaymentType,
	).Scan(&payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}
