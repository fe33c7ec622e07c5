package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the group hierarchy as a tree",
	Long:  `Reconciles the fleet and prints the inventory in the same layout as 'ansible-inventory --graph'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.run(cmd.Context())
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), res.Graph.Tree())
		return err
	},
}

func init() {
	RootCmd.AddCommand(graphCmd)
}
