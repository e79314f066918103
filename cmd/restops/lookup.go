package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"restops/pkg/module"
)

var (
	lookupParams   []string
	lookupArgsFile string
)

// lookupCmd runs a lookup and prints its value as JSON. The Ansible lookup
// and filter plugins are thin wrappers around it.
var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Run a lookup and print its JSON value",
	Long: `Run a lookup and print its JSON value.

Parameters come from an optional JSON args file, overridden by repeated
--param key=value flags.

Example usage:
  restops lookup haproxy_tx --args-file /tmp/conn.json --param version=42
  restops lookup pbkdf2_hash_filter --param password=s3cret`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inline, err := parseParams(lookupParams)
		if err != nil {
			return err
		}
		runner := newRunner()
		runner.Stdout = cmd.OutOrStdout()
		return runner.RunLookup(cmd.Context(), args[0], lookupArgsFile, inline)
	},
}

func init() {
	lookupCmd.Flags().StringArrayVar(&lookupParams, "param", nil, "Lookup parameter as key=value (repeatable)")
	lookupCmd.Flags().StringVar(&lookupArgsFile, "args-file", "", "JSON file with lookup parameters")
	lookupCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the registered lookups",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range module.Default().Lookups() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	})
}

// parseParams turns key=value pairs into lookup arguments. Values stay
// strings; the args decoder converts them to the parameter types.
func parseParams(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
