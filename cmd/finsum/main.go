package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/finsum/pkg/categorize"
	"github.com/yurifrl/finsum/pkg/config"
	"github.com/yurifrl/finsum/pkg/ingest"
	"github.com/yurifrl/finsum/pkg/parser"
	"github.com/yurifrl/finsum/pkg/store"
	"github.com/yurifrl/finsum/pkg/ynab"
)

var (
	cfgFile    string
	cliFilters filters
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:           "finsum",
	Short:         "Parse bank statements and summarize income and expenses by month",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// app holds everything a command needs, built from config.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	parser   *parser.Parser
	pipeline *ingest.Pipeline
	store    store.Store
	close    func()
}

func newApp(cmd *cobra.Command, withStore bool) (*app, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "finsum",
		Level:           cfg.Level(),
	})

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	rules := categorize.DefaultRules()
	if cfg.RulesFile != "" {
		if rules, err = categorize.LoadRules(cfg.RulesFile); err != nil {
			return nil, err
		}
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		parser: parser.New(logger, parser.WithLocation(loc)),
		close:  func() {},
	}
	if withStore {
		s, closeFn, err := openStore(cmd.Context(), cfg, logger)
		if err != nil {
			return nil, err
		}
		a.store, a.close = s, closeFn
	}

	a.pipeline = ingest.New(logger,
		a.parser,
		categorize.NewRules(logger, rules),
		a.store,
		ingest.WithChunkSize(cfg.ChunkSize),
		ingest.WithProgress(func(done, total int) {
			logger.Debug("categorizing", "done", done, "total", total)
		}),
	)
	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Store, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Store.Driver {
	case "", "memory":
		return store.NewMemory(), func() {}, nil
	case "postgres":
		if cfg.Store.DSN == "" {
			return nil, nil, fmt.Errorf("store.dsn is required for the postgres store")
		}
		pg, err := store.NewPostgres(ctx, logger, cfg.Store.DSN, loc)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case "ynab":
		if cfg.YNAB.Token == "" {
			return nil, nil, fmt.Errorf("ynab.token is required for the ynab store")
		}
		client := ynab.New(cfg.YNAB.Token)
		account := store.YNABAccount{BudgetID: cfg.YNAB.BudgetID, AccountID: cfg.YNAB.AccountID}
		return store.NewYNAB(logger, client.Transaction(), account, loc), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// requirePersistentStore rejects the memory store for commands that read back
// what an earlier run saved.
func requirePersistentStore(cfg *config.Config, command string) error {
	switch cfg.Store.Driver {
	case "", "memory":
		return fmt.Errorf("%s reads saved transactions and the memory store keeps nothing between runs, use --store postgres|ynab", command)
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Config file (default is ./finsum.yaml)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("user", "", "User the transactions belong to")
	flags.String("timezone", "", "Time zone statement dates are read in")
	flags.String("rules", "", "Categorization rules file")
	flags.Int("chunk-size", 0, "Transactions categorized per batch")
	flags.String("store", "", "Store driver: memory, postgres or ynab")
	flags.String("dsn", "", "Postgres connection string")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")

	cliFilters.register(flags)

	rootCmd.AddCommand(parseCmd, summaryCmd, ingestCmd, loadCmd, recategorizeCmd, planCmd, watchCmd, serveCmd, accountsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
