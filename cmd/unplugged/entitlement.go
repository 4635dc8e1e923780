package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dizid/unplugged-cv/internal/billing"
	"github.com/dizid/unplugged-cv/internal/config"
	"github.com/dizid/unplugged-cv/internal/db"
)

var (
	entitlementUserID   string
	entitlementAttempts int
	entitlementDelay    time.Duration
)

var entitlementCmd = &cobra.Command{
	Use:   "entitlement",
	Short: "Poll an account's paid entitlement",
	Long: `Poll the database until an account shows a paid entitlement or the attempt
budget runs out. Useful after checkout, when the payment webhook may not
have been delivered yet.`,
	RunE: runEntitlement,
}

func init() {
	entitlementCmd.Flags().StringVar(&entitlementUserID, "user", "", "User ID to check (required)")
	entitlementCmd.Flags().IntVar(&entitlementAttempts, "attempts", billing.DefaultReconcileAttempts, "Polling attempts before giving up")
	entitlementCmd.Flags().DurationVar(&entitlementDelay, "delay", billing.DefaultReconcileDelay, "Delay between attempts")
	_ = entitlementCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(entitlementCmd)
}

func runEntitlement(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	database, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	fetch := func(ctx context.Context) (bool, error) {
		acct, err := database.GetAccount(ctx, entitlementUserID)
		if err != nil {
			return false, err
		}
		return acct != nil && acct.HasPaid, nil
	}

	hasPaid, err := billing.AwaitEntitlement(cmd.Context(), fetch, entitlementAttempts, entitlementDelay)
	if err != nil {
		return err
	}

	if hasPaid {
		fmt.Println("entitlement confirmed: paid")
		return nil
	}
	fmt.Println("entitlement not confirmed: still unpaid")
	return nil
}
