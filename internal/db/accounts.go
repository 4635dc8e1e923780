package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dizid/unplugged-cv/internal/types"
)

// GetAccount retrieves an account by user ID. Returns nil, nil when the
// account does not exist.
func (db *DB) GetAccount(ctx context.Context, userID string) (*types.Account, error) {
	var acct types.Account
	err := db.pool.QueryRow(ctx,
		`SELECT id, has_paid, free_count, COALESCE(career_background, ''), created_at, updated_at
		 FROM accounts WHERE id = $1`,
		userID,
	).Scan(&acct.ID, &acct.HasPaid, &acct.FreeCount, &acct.CareerBackground, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

// GetOrCreateAccount retrieves an account, creating a fresh free-tier
// record on first contact with a new auth subject.
func (db *DB) GetOrCreateAccount(ctx context.Context, userID string) (*types.Account, error) {
	var acct types.Account
	err := db.pool.QueryRow(ctx,
		`INSERT INTO accounts (id) VALUES ($1)
		 ON CONFLICT (id) DO UPDATE SET updated_at = accounts.updated_at
		 RETURNING id, has_paid, free_count, COALESCE(career_background, ''), created_at, updated_at`,
		userID,
	).Scan(&acct.ID, &acct.HasPaid, &acct.FreeCount, &acct.CareerBackground, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create account: %w", err)
	}
	return &acct, nil
}

// IncrementUsage advances the free-tier counter by one. A single UPDATE;
// concurrent generations may interleave and that is accepted.
func (db *DB) IncrementUsage(ctx context.Context, userID string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE accounts SET free_count = free_count + 1, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}

// SetPaid marks an account as entitled. Monotone: there is no reverse
// operation. Creates the account row if the webhook arrives before the
// user's first generation.
func (db *DB) SetPaid(ctx context.Context, userID string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO accounts (id, has_paid) VALUES ($1, TRUE)
		 ON CONFLICT (id) DO UPDATE SET has_paid = TRUE, updated_at = NOW()`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark account paid: %w", err)
	}
	return nil
}

// SaveBackground stores the user's reusable career background text.
func (db *DB) SaveBackground(ctx context.Context, userID, background string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO accounts (id, career_background) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET career_background = $2, updated_at = NOW()`,
		userID, background,
	)
	if err != nil {
		return fmt.Errorf("failed to save background: %w", err)
	}
	return nil
}
