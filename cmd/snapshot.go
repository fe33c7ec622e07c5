package cmd

import (
	"fmt"

	"dog-inventory/core/dog"
	"dog-inventory/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotName string
	snapshotList bool
)

// snapshotCmd captures the live group map as a fact document.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store the live groups as a fact document in object storage",
	Long: `Fetches the current groups from dog and writes them to
<storage.prefix>/<name>.json. Later runs merge the document when
inventory.fact_name is set and inventory.fact_source is "storage".

Examples:
  # Capture a snapshot
  snapshot --name pre-upgrade

  # List stored snapshots
  snapshot --list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !snapshotList && snapshotName == "" {
			return fmt.Errorf("either --name or --list is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		store, err := a.factStore()
		if err != nil {
			return err
		}

		if snapshotList {
			names, err := store.ListFacts(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		doc, err := reconcile.Snapshot(cmd.Context(), dog.NewClient(a.cfg.Dog), snapshotName)
		if err != nil {
			return err
		}

		object, err := store.SaveFact(cmd.Context(), doc)
		if err != nil {
			return err
		}

		a.logger.Info("Snapshot stored",
			zap.String("name", doc.Name),
			zap.String("object", object),
			zap.Int("groups", len(doc.Groups)),
		)
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotName, "name", "", "Name of the fact document to write")
	snapshotCmd.Flags().BoolVar(&snapshotList, "list", false, "List stored fact documents")
	snapshotCmd.MarkFlagsMutuallyExclusive("name", "list")
	RootCmd.AddCommand(snapshotCmd)
}
