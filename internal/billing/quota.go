// Package billing owns entitlement state: the free-tier quota guard, the
// payment webhook ledger, and reconciliation of optimistic client views
// against confirmed server state.
package billing

import (
	"crypto/hmac"

	"github.com/dizid/unplugged-cv/internal/types"
)

// DefaultFreeLimit is the number of billable generations permitted without
// payment.
const DefaultFreeLimit = 3

// Guard enforces the free-tier quota at the entry point of billable
// generation.
type Guard struct {
	limit        int
	bypassSecret string
}

// NewGuard creates a quota guard. A non-positive limit falls back to
// DefaultFreeLimit. bypassSecret unlocks unlimited generation for
// verification contexts; empty disables bypass entirely.
func NewGuard(limit int, bypassSecret string) *Guard {
	if limit <= 0 {
		limit = DefaultFreeLimit
	}
	return &Guard{limit: limit, bypassSecret: bypassSecret}
}

// Limit returns the configured free-tier limit.
func (g *Guard) Limit() int {
	return g.limit
}

// Allow reports whether the account may run a billable generation:
// paid accounts always may, free accounts until the limit is spent.
func (g *Guard) Allow(acct *types.Account) bool {
	if acct == nil {
		return false
	}
	return acct.HasPaid || acct.FreeCount < g.limit
}

// BypassAllowed reports whether a client-supplied token unlocks the quota
// bypass. The token is compared against the server-held secret in constant
// time; there is no client-guessable sentinel value.
func (g *Guard) BypassAllowed(token string) bool {
	if g.bypassSecret == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(token), []byte(g.bypassSecret))
}
