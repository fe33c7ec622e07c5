package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	listYAML     bool
	listHostVars bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the full inventory",
	Long:  `Reconciles the fleet and prints the dynamic inventory document (JSON by default).`,
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

		doc := res.Graph.Export()
		if !listHostVars {
			doc.Meta.HostVars = map[string]map[string]any{}
		}

		if !listYAML {
			return writeJSON(cmd.OutOrStdout(), doc.Map())
		}

		out, err := yaml.Marshal(doc.Map())
		if err != nil {
			return fmt.Errorf("failed to encode inventory: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Print YAML instead of JSON")
	listCmd.Flags().BoolVar(&listHostVars, "hostvars", true, "Include _meta.hostvars")
	RootCmd.AddCommand(listCmd)
}
