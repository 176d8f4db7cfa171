package commands

import (
	"errors"
	"fmt"
	"os"

	"encore/state"

	"github.com/infinitybotlist/eureka/jsonimpl"
	"github.com/infinitybotlist/eureka/snippets"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	dbURL      string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "encorectl",
	Short: "Maintenance jobs for the Encore API",
	Long: `encorectl runs the scheduled and one-off maintenance jobs of the Encore API
against its database.

Commands:
  migrate              - Create or update the database tables
  best-reviews         - Re-rank reviews and award the current best reviews
  reconcile-counters   - Recompute every like, comment and user counter`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the server config file")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database URL, overrides the config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(migrateCmd, bestReviewsCmd, reconcileCmd)
}

// connect sets up the logger and database the jobs run against.
func connect() error {
	state.Logger = snippets.CreateZap()

	url := dbURL
	if url == "" {
		cfg, err := state.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w (pass --db to skip the config file)", configPath, err)
		}
		url = cfg.Database.DatabaseURL
	}

	if url == "" {
		return errors.New("no database URL configured")
	}

	db, err := state.ConnectDatabase(url)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	state.Pool = db
	return nil
}

func printResult(cmd *cobra.Command, v any, text string) error {
	if !jsonOutput {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	out, err := jsonimpl.Marshal(v)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
