package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contabot-dev/contabot/internal/buildinfo"
	"github.com/contabot-dev/contabot/internal/config"
	"github.com/contabot-dev/contabot/internal/events"
	kafkaevents "github.com/contabot-dev/contabot/internal/events/kafka"
	"github.com/contabot-dev/contabot/internal/ledger"
	"github.com/contabot-dev/contabot/internal/storage/memory"
	"github.com/contabot-dev/contabot/internal/storage/postgres"

	_ "github.com/lib/pq"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	userID     string
	demo       bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "contabot",
		Short:   "Conversational personal accounting engine",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "contabot.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.userID, "user", "local", "user the operation applies to")
	rootCmd.PersistentFlags().BoolVar(&flags.demo, "demo", false, "use an ephemeral in-memory store")

	rootCmd.AddCommand(newInitCommand(flags))
	rootCmd.AddCommand(newPostCommand(flags))
	rootCmd.AddCommand(newAccountsCommand(flags))
	rootCmd.AddCommand(newTransactionsCommand(flags))

	return rootCmd
}

// openService builds the engine from config (or the demo store). The
// returned closer releases the database handle and event publisher.
func openService(flags *rootFlags) (*ledger.Service, func(), error) {
	if flags.demo {
		svc := ledger.NewService(memory.NewStore(), events.Noop{}, ledger.Options{})
		return svc, func() {}, nil
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	var pub events.Publisher = events.Noop{}
	closer := func() { db.Close() }
	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafkaevents.NewPublisher(cfg.Kafka.Brokers)
		pub = kp
		closer = func() {
			kp.Close()
			db.Close()
		}
	}

	svc := ledger.NewService(postgres.NewStore(db), pub, ledger.Options{
		DefaultPaymentMethod: cfg.Defaults.PaymentMethod,
		FallbackCode:         cfg.Defaults.FallbackCode,
	})
	return svc, closer, nil
}
