package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"dog-inventory/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listFlag bool
	hostFlag string
)

// RootCmd represents the base command when called without any subcommands.
// It also speaks the Ansible dynamic inventory script protocol (--list and
// --host), so the binary can be used directly as an inventory source.
var RootCmd = &cobra.Command{
	Use:   "dog-inventory",
	Short: "Ansible dynamic inventory for dog",
	Long: `dog-inventory reconciles the dog fleet database (hosts, groups and
optional fact documents) into an Ansible inventory.

Used as an inventory script:
  ansible-inventory -i dog-inventory --graph
  dog-inventory --list
  dog-inventory --host web01`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config-path", ".", "Directory holding .env and dog.yml")
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Inventory config file (default <config-path>/dog.yml)")

	RootCmd.Flags().BoolVar(&listFlag, "list", false, "Print the full inventory as JSON")
	RootCmd.Flags().StringVar(&hostFlag, "host", "", "Print the variables of one host as JSON")
	RootCmd.MarkFlagsMutuallyExclusive("list", "host")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !listFlag && hostFlag == "" {
		return cmd.Help()
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.run(cmd.Context())
	if err != nil {
		return err
	}

	if listFlag {
		return writeJSON(cmd.OutOrStdout(), res.Graph.Export().Map())
	}

	// Unknown hosts get an empty mapping, as Ansible expects
	vars, ok := res.Graph.HostVars(hostFlag)
	if !ok {
		vars = map[string]any{}
	}
	return writeJSON(cmd.OutOrStdout(), vars)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
