package cmd

import (
	"fmt"

	"dog-inventory/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag       bool
	integrityJSON bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the services the inventory depends on",
	Long: `Checks that the dog API answers, that the fact snapshot bucket exists and,
when run history is enabled, that its table matches the expected schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		src, err := a.source()
		if err != nil {
			return err
		}
		client, err := a.storageClient()
		if err != nil {
			return err
		}

		svc := integrity.NewService(src, client, a.cfg.Storage, a.database(), a.logger)
		ctx := cmd.Context()

		if fixFlag {
			if err := svc.FixStorage(ctx); err != nil {
				return err
			}
		}

		report, healthy := svc.CheckAll(ctx)
		if integrityJSON {
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			for name, r := range report {
				a.logger.Info("Integrity check", zap.String("check", name), zap.Any("report", r))
			}
		}

		if !healthy {
			return fmt.Errorf("integrity checks failed")
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the fact bucket if it is missing")
	integrityCmd.Flags().BoolVar(&integrityJSON, "json", false, "Print the report as JSON")
	RootCmd.AddCommand(integrityCmd)
}
