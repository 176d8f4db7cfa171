package commands

import (
	"fmt"

	"encore/database"

	"github.com/spf13/cobra"
)

// migrateCmd creates or updates the tables
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}

		return printResult(cmd, map[string]bool{"migrated": true}, "Database is up to date")
	},
}

// bestReviewsCmd runs the best review selection
var bestReviewsCmd = &cobra.Command{
	Use:   "best-reviews",
	Short: "Re-rank reviews and award the current best reviews",
	Long: `Scores every review with at least 100 characters of content, marks the top 20
as best reviews, notifies authors picked for the first time and refreshes every
user's reviewer level.

Meant to run on a schedule, e.g. daily from cron:
  0 4 * * * encorectl best-reviews`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}

		summary, err := database.SelectBestReviews(cmd.Context())
		if err != nil {
			return err
		}

		return printResult(cmd, summary, fmt.Sprintf(
			"Selected %d best reviews (%d newly awarded), %d users updated",
			summary.Selected, summary.NewlyAwarded, summary.UsersUpdated,
		))
	},
}

// reconcileCmd recomputes denormalized counters
var reconcileCmd = &cobra.Command{
	Use:   "reconcile-counters",
	Short: "Recompute every like, comment and user counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}

		summary, err := database.ReconcileCounters(cmd.Context())
		if err != nil {
			return err
		}

		return printResult(cmd, summary, fmt.Sprintf(
			"Reconciled %d reviews and %d diaries",
			summary.Reviews, summary.Diaries,
		))
	},
}
