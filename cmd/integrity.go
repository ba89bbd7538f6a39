package cmd

import (
	"fmt"
	"os"

	"video-catalog/feature/integrity"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and storage layout",
	Long: `Compares every model against the live database and checks that the bucket
holds the thumbnails/, imports/ and exports/ prefixes. Prints a JSON report.
With --fix, a missing bucket and missing prefixes are created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(true)
		if err != nil {
			return err
		}
		defer rt.log.Sync()
		ctx := cmd.Context()

		svc := integrity.NewService(rt.db, rt.client, rt.cfg.Storage.Bucket, rt.log, catalogModels()...)

		if fixFlag {
			report, err := svc.CheckStorage(ctx)
			if err != nil {
				return fmt.Errorf("storage check failed: %w", err)
			}
			if !report.OK() {
				rt.log.Info("Fixing storage layout", zap.Strings("missing", report.Missing))
				if err := svc.FixStorage(ctx, report); err != nil {
					return fmt.Errorf("failed to fix storage: %w", err)
				}
			}
		}

		report := svc.RunAll(ctx)
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))

		if report.Schema.Status != "ok" || report.Storage.Status != "ok" {
			return fmt.Errorf("integrity check failed (schema: %s, storage: %s)", report.Schema.Status, report.Storage.Status)
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create a missing bucket and missing prefixes")
	RootCmd.AddCommand(integrityCmd)
}
