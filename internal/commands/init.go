package commands

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/contabot-dev/contabot/internal/config"
	"github.com/contabot-dev/contabot/internal/ledger"
	"github.com/contabot-dev/contabot/internal/storage/postgres"
)

func newInitCommand(flags *rootFlags) *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config, apply the schema, and seed the chart of accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags, skipSeed)
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "do not seed the default chart of accounts")

	return cmd
}

func runInit(cmd *cobra.Command, flags *rootFlags, skipSeed bool) error {
	ctx := cmd.Context()

	// Write a default config unless one already exists.
	if _, err := os.Stat(flags.configPath); errors.Is(err, fs.ErrNotExist) {
		if err := config.Save(flags.configPath, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", flags.configPath)
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema applied")

	if skipSeed {
		return nil
	}

	svc := ledger.NewService(store, nil, ledger.Options{
		DefaultPaymentMethod: cfg.Defaults.PaymentMethod,
		FallbackCode:         cfg.Defaults.FallbackCode,
	})
	if err := svc.SeedChart(ctx, flags.userID); err != nil {
		return fmt.Errorf("seeding chart: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded default chart for user %s\n", flags.userID)
	return nil
}
