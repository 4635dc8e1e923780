package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dizid/unplugged-cv/internal/types"
)

// EventCheckoutCompleted is the only event type the ledger acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// Store is the persistence surface the ledger needs.
type Store interface {
	SetPaid(ctx context.Context, userID string) error
	InsertPayment(ctx context.Context, payment *types.Payment) error
}

// Event is the provider's webhook envelope, reduced to the fields the
// ledger reads.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// CheckoutSession carries the payment outcome and the user reference the
// checkout flow stashed in metadata.
type CheckoutSession struct {
	Metadata      map[string]string `json:"metadata"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentIntent string            `json:"payment_intent"`
}

// Ledger reconciles asynchronous payment events against persisted
// entitlement state.
type Ledger struct {
	store     Store
	secret    string
	tolerance time.Duration
	logger    *slog.Logger
}

// NewLedger creates a Ledger verifying events with the given signing
// secret.
func NewLedger(store Store, secret string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:     store,
		secret:    secret,
		tolerance: DefaultTolerance,
		logger:    logger,
	}
}

// HandleEvent verifies and processes one raw webhook delivery.
// Verification failure rejects the event before any state is touched. A
// verified event of an uninteresting type is acknowledged without action.
// On a completed checkout carrying a user reference, the account becomes
// paid (monotone, never reverted) and exactly one payment record is
// appended.
func (l *Ledger) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	if err := VerifySignature(payload, sigHeader, l.secret, time.Now(), l.tolerance); err != nil {
		return err
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		// Signed but undecodable: reject without state change.
		return &SignatureError{}
	}

	if event.Type != EventCheckoutCompleted {
		l.logger.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}

	userID := event.Data.Object.Metadata["userId"]
	if userID == "" {
		l.logger.Warn("completed checkout without user reference", "event_id", event.ID)
		return nil
	}

	if err := l.store.SetPaid(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark account paid: %w", err)
	}

	payment := &types.Payment{
		UserID:            userID,
		Amount:            event.Data.Object.AmountTotal,
		Currency:          strings.ToUpper(event.Data.Object.Currency),
		Status:            "completed",
		Provider:          "stripe",
		ProviderPaymentID: event.Data.Object.PaymentIntent,
		PaymentType:       "one_time",
	}
	if payment.Currency == "" {
		payment.Currency = "USD"
	}
	if err := l.store.InsertPayment(ctx, payment); err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	l.logger.Info("account upgraded", "user_id", userID, "event_id", event.ID)
	return nil
}
