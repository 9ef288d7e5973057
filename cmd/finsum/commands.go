package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yurifrl/finsum/pkg/categorize"
	"github.com/yurifrl/finsum/pkg/ingest"
	"github.com/yurifrl/finsum/pkg/models"
	"github.com/yurifrl/finsum/pkg/plan"
	"github.com/yurifrl/finsum/pkg/report"
	"github.com/yurifrl/finsum/pkg/store"
)

var (
	summaryJSON bool
	summaryDump bool
	summaryYear int
	ingestPlan  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <glob>...",
	Short: "Parse statements and print the transactions as CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()

		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		txs, err := a.pipeline.ParseFiles(cmd.Context(), files)
		if err != nil {
			return err
		}
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Date.Before(txs[j].Date)
		})
		return a.writeCSV(txs)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <glob>...",
	Short: "Parse and categorize statements and print the monthly summary",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()

		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		result, err := a.pipeline.Run(cmd.Context(), a.cfg.User, files)
		if err != nil {
			return err
		}
		return a.writeSummary(result.Transactions, result.Data)
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <glob>...",
	Short: "Parse, categorize and save statements to the configured store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, !ingestPlan)
		if err != nil {
			return err
		}
		defer a.close()

		files, err := expandInputs(args)
		if err != nil {
			return err
		}

		if ingestPlan {
			return a.planYNAB(cmd, files)
		}

		result, err := a.pipeline.Run(cmd.Context(), a.cfg.User, files)
		if err != nil {
			return err
		}
		a.logger.Info("ingest finished", "batch", result.BatchID, "transactions", len(result.Transactions), "store", a.cfg.Store.Driver)
		return a.writeSummary(result.Transactions, result.Data)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Summarize the transactions saved for the user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()
		if err := requirePersistentStore(a.cfg, cmd.Name()); err != nil {
			return err
		}

		txs, data, err := a.pipeline.Load(cmd.Context(), a.cfg.User)
		if err != nil {
			return err
		}
		return a.writeSummary(txs, data)
	},
}

var recategorizeCmd = &cobra.Command{
	Use:   "recategorize <id> <category>",
	Short: "Change the category of a saved transaction",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()
		if err := requirePersistentStore(a.cfg, cmd.Name()); err != nil {
			return err
		}

		data, err := a.pipeline.Recategorize(cmd.Context(), a.cfg.User, args[0], args[1])
		if err != nil {
			return err
		}
		return a.writeSummary(nil, data)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Ingest the statements listed in a YAML plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		rulesFile, err := p.RulesFile()
		if err != nil {
			return err
		}
		rules := categorize.DefaultRules()
		if rulesFile != "" {
			if rules, err = categorize.LoadRules(rulesFile); err != nil {
				return err
			}
		}
		pipeline := ingest.New(a.logger, a.parser, categorize.NewRules(a.logger, rules), a.store,
			ingest.WithChunkSize(a.cfg.ChunkSize),
			ingest.WithBuckets(categorize.NewBucketAssigner(p.Buckets)),
		)

		files, err := p.Files()
		if err != nil {
			return err
		}
		user := p.User
		if user == "" {
			user = a.cfg.User
		}

		fmt.Printf("Plan %s: %d file(s) for user %s\n", args[0], len(files), user)
		result, err := pipeline.Run(cmd.Context(), user, files)
		if err != nil {
			return err
		}
		return a.writeSummary(result.Transactions, result.Data)
	},
}

func (a *app) writeCSV(txs []models.Transaction) error {
	loc, err := a.cfg.Location()
	if err != nil {
		return err
	}
	f, err := cliFilters.toFilters(loc)
	if err != nil {
		return err
	}
	return report.WriteTransactionsCSV(os.Stdout, txs, f.Func())
}

func (a *app) writeSummary(txs []models.Transaction, data *models.ProcessedData) error {
	switch {
	case summaryJSON:
		return report.WriteJSON(os.Stdout, data)
	case summaryDump:
		return report.Dump(os.Stdout, data, !noColor)
	}
	opts := report.SummaryOptions{Year: summaryYear, Color: !noColor}
	return report.WriteSummary(os.Stdout, data, opts.Insights(txs))
}

// planYNAB previews what saving files to YNAB would change.
func (a *app) planYNAB(cmd *cobra.Command, files []string) error {
	if a.cfg.Store.Driver != "ynab" {
		return fmt.Errorf("--plan needs the ynab store, configured store is %q", a.cfg.Store.Driver)
	}
	s, closeFn, err := openStore(cmd.Context(), a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := a.pipeline.Run(cmd.Context(), a.cfg.User, files)
	if err != nil {
		return err
	}
	r, err := s.(*store.YNAB).Plan(cmd.Context(), a.cfg.User, result.Transactions)
	if err != nil {
		return err
	}
	return report.WritePlan(os.Stdout, r, !noColor)
}

func init() {
	for _, cmd := range []*cobra.Command{summaryCmd, ingestCmd, loadCmd, recategorizeCmd, planCmd} {
		cmd.Flags().BoolVar(&summaryJSON, "json", false, "Print the summary as JSON")
		cmd.Flags().BoolVar(&summaryDump, "dump", false, "Pretty print the raw summary")
		cmd.Flags().IntVar(&summaryYear, "year", 0, "Only show periods of this year")
	}
	ingestCmd.Flags().BoolVar(&ingestPlan, "plan", false, "Preview the YNAB changes without saving")
}
