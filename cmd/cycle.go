package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cycleCmd runs a single collection cycle.
var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one collection cycle and exit",
	Long:  `Fetches every page of the configured query and reconciles it once. With --dry-run the schema is not migrated, pages are not archived and nothing is written; the planned changes are printed as JSON. A dry run needs an already migrated database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dryRun, _ := cmd.Flags().GetBool("dry-run")

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if !dryRun {
			if err := a.migrate(ctx); err != nil {
				return err
			}
		}
		rec, err := a.reconciler(ctx, dryRun)
		if err != nil {
			return err
		}

		if dryRun {
			plan, err := rec.DryRun(ctx)
			if err != nil {
				return err
			}
			summary := plan.Summary()
			a.logger.Info("Dry run completed",
				zap.Int("new", summary.New),
				zap.Int("retained", summary.Retained),
				zap.Int("removed", summary.Removed),
			)
			out, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal plan: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		runner, err := a.runner(ctx, rec)
		if err != nil {
			return err
		}
		report := runner.RunOnce(ctx)
		if report == nil {
			return fmt.Errorf("cycle skipped: lease held by another collector")
		}
		if report.Error != "" {
			return fmt.Errorf("cycle %s: %s", report.Status, report.Error)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cycleCmd)
	cycleCmd.Flags().Bool("dry-run", false, "Print the planned changes without migrating, archiving or writing")
}
