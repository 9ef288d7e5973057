package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yurifrl/finsum/pkg/config"
	"github.com/yurifrl/finsum/pkg/ynab"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List YNAB budgets and accounts, to fill in ynab.budget_id and ynab.account_id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.YNAB.Token == "" {
			return fmt.Errorf("ynab.token is required")
		}

		client := ynab.New(cfg.YNAB.Token)
		budgets, err := client.Budget().GetBudgets()
		if err != nil {
			return fmt.Errorf("failed to fetch budgets: %w", err)
		}

		for _, b := range budgets {
			fmt.Printf("%s  %s\n", b.ID, b.Name)
			accounts, err := client.Account().GetAccounts(b.ID, nil)
			if err != nil {
				return fmt.Errorf("failed to fetch accounts of budget %s: %w", b.ID, err)
			}
			if accounts == nil {
				continue
			}
			for _, acct := range accounts.Accounts {
				if acct.Deleted || acct.Closed {
					continue
				}
				fmt.Printf("    %s  %s\n", acct.ID, acct.Name)
			}
		}
		return nil
	},
}
