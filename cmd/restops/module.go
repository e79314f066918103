// Copyright 2025 Philipp Hossner
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"restops/pkg/module"
)

// exitCode carries a non-zero process status out of a command whose result
// was already written.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// moduleCmd runs one module with an Ansible args file.
var moduleCmd = &cobra.Command{
	Use:   "module <name> <args-file>",
	Short: "Run an Ansible module",
	Long: `Run an Ansible module.

The args file is the JSON document Ansible writes for binary modules. The
result is printed to stdout as one JSON object; a failed run exits with
status 1.

Example usage:
  restops module haproxy_server /tmp/ansible_args.json`,
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if code := newRunner().RunModule(cmd.Context(), args[0], args[1]); code != 0 {
			return exitCode(code)
		}
		return nil
	},
}

var moduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered modules",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range module.Default().List() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	moduleCmd.AddCommand(moduleListCmd)
}
