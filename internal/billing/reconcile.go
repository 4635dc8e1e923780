package billing

import (
	"context"
	"time"
)

// Reconciliation defaults. The checkout flow redirects the user back before
// the webhook is guaranteed to have been processed, so clients poll a small
// fixed number of times and otherwise keep their optimistic view.
const (
	DefaultReconcileAttempts = 5
	DefaultReconcileDelay    = 2 * time.Second
)

// AwaitEntitlement polls fetch until it reports a paid entitlement, the
// attempt budget is spent, or ctx is done. It returns the last confirmed
// value; exhausting the budget is not an error — the caller keeps its
// optimistic state and converges on a later read.
func AwaitEntitlement(ctx context.Context, fetch func(context.Context) (bool, error), attempts int, delay time.Duration) (bool, error) {
	if attempts <= 0 {
		attempts = DefaultReconcileAttempts
	}

	for i := 0; i < attempts; i++ {
		hasPaid, err := fetch(ctx)
		if err != nil {
			return false, err
		}
		if hasPaid {
			return true, nil
		}

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}
	}
	return false, nil
}
