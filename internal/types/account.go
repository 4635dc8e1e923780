package types

import (
	"time"

	"github.com/google/uuid"
)

// Account is the per-user entitlement record. The auth provider owns
// identity; this record only carries app-specific state. ID is the
// provider's subject claim.
type Account struct {
	ID               string    `json:"id"`
	HasPaid          bool      `json:"has_paid"`
	FreeCount        int       `json:"free_count"`
	CareerBackground string    `json:"career_background,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Payment is an append-only record of a confirmed payment event.
// Amount is in the currency's minor unit.
type Payment struct {
	ID                uuid.UUID `json:"id"`
	UserID            string    `json:"user_id"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	Provider          string    `json:"provider"`
	ProviderPaymentID string    `json:"provider_payment_id,omitempty"`
	PaymentType       string    `json:"payment_type"`
	CreatedAt         time.Time `json:"created_at"`
}
