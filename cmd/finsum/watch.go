package main

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Re-ingest a directory of statements on a schedule until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()
		if err := requirePersistentStore(a.cfg, cmd.Name()); err != nil {
			return err
		}

		loc, err := a.cfg.Location()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		dir := args[0]
		run := func() {
			files, err := expandInputs([]string{dir})
			if err != nil {
				a.logger.Warn("nothing to ingest", "dir", dir, "error", err)
				return
			}
			result, err := a.pipeline.Run(ctx, a.cfg.User, files)
			if err != nil {
				a.logger.Error("scheduled ingest failed", "dir", dir, "error", err)
				return
			}
			a.logger.Info("scheduled ingest finished", "batch", result.BatchID, "files", len(files), "transactions", len(result.Transactions))
		}

		c := cron.New(cron.WithLocation(loc))
		if _, err := c.AddFunc(a.cfg.Schedule, run); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", a.cfg.Schedule, err)
		}

		a.logger.Info("watching statements", "dir", dir, "schedule", a.cfg.Schedule)
		run()
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		a.logger.Info("stopped watching", "dir", dir)
		return nil
	},
}

func init() {
	watchCmd.Flags().String("schedule", "", "Cron schedule (default @hourly)")
}
