package cmd

import (
	"fmt"

	"inventory-tracker/core/storage"
	"inventory-tracker/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd runs every integrity check.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and the page archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaOK, err := runSchemaCheck(cmd)
		if err != nil {
			return err
		}
		if err := runArchiveCheck(cmd, false); err != nil {
			return err
		}
		if !schemaOK {
			return fmt.Errorf("schema mismatches found")
		}
		return nil
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the database schema against the inventory models",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := runSchemaCheck(cmd)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("schema mismatches found")
		}
		return nil
	},
}

// archiveCmd represents the integrity archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Check and fix the page archive bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		fix, _ := cmd.Flags().GetBool("fix")
		return runArchiveCheck(cmd, fix)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, archiveCmd)

	archiveCmd.Flags().Bool("fix", false, "Create the bucket when missing")
}

func integrityService(cmd *cobra.Command) (*application, *integrity.Service, error) {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	client := a.storage
	if client == nil {
		if client, err = storage.NewClient(a.cfg.Storage); err != nil {
			a.Close()
			return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}
	return a, integrity.NewService(a.db, client, a.cfg.Storage.Bucket, a.cfg.Storage.Region, a.logger), nil
}

func runSchemaCheck(cmd *cobra.Command) (bool, error) {
	a, svc, err := integrityService(cmd)
	if err != nil {
		return false, err
	}
	defer a.Close()

	a.logger.Info("Checking database schema...", zap.String("driver", a.cfg.Database.Driver))
	report, err := svc.CheckSchema()
	if err != nil {
		return false, fmt.Errorf("schema check failed: %w", err)
	}

	if report.Matched {
		a.logger.Info("Database schema matches the inventory models.", zap.String("dialect", report.Dialect))
		return true, nil
	}

	a.logger.Warn("Schema mismatches found", zap.String("dialect", report.Dialect))
	for table, tbl := range report.Tables {
		if tbl.Status != "ok" {
			a.logger.Warn("Missing columns",
				zap.String("table", table),
				zap.String("status", tbl.Status),
				zap.Strings("columns", tbl.MissingColumns),
			)
		}
	}
	for view, exists := range report.Views {
		if !exists {
			a.logger.Warn("Missing view", zap.String("view", view))
		}
	}
	for _, e := range report.Errors {
		a.logger.Error("Inspection error", zap.String("error", e))
	}
	return false, nil
}

func runArchiveCheck(cmd *cobra.Command, fix bool) error {
	a, svc, err := integrityService(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	a.logger.Info("Checking page archive...", zap.String("bucket", a.cfg.Storage.Bucket))
	report, err := svc.CheckArchive(ctx)
	if err != nil {
		return fmt.Errorf("archive check failed: %w", err)
	}

	switch {
	case report.Exists && report.HasCycles:
		a.logger.Info("Archive holds cycles.", zap.String("latest", report.LatestCycle))
	case report.Exists:
		a.logger.Info("Archive bucket exists but holds no cycles yet.")
	case fix:
		a.logger.Info("Creating archive bucket...")
		if err := svc.FixArchive(ctx); err != nil {
			return fmt.Errorf("failed to create archive bucket: %w", err)
		}
	default:
		a.logger.Warn("Archive bucket is missing. Run with --fix to create it.")
	}
	return nil
}
