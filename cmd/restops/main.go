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

// Package main provides the restops CLI, the binary behind every module and
// lookup.
//
// Ansible copies the binary (or a symlink named after a module) to the
// target and runs it with the path of the JSON args file. Process settings
// come from CLI flags, environment variables, or defaults:
//
//   - Log level: --log-level flag, RESTOPS_LOG_LEVEL env var, or "info"
//   - Metrics textfile: --metrics-file flag or RESTOPS_METRICS_FILE env var
//
// The run is aborted on SIGTERM or SIGINT.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	_ "github.com/KimMachineGun/automemlimit"
	"github.com/spf13/cobra"

	"restops/pkg/module"
	_ "restops/pkg/modules/all"
)

const (
	// EnvLogLevel overrides the default log level.
	EnvLogLevel = "RESTOPS_LOG_LEVEL"

	// EnvMetricsFile enables the Prometheus textfile export.
	EnvMetricsFile = "RESTOPS_METRICS_FILE"

	// DefaultLogLevel is used when neither flag nor environment set a level.
	DefaultLogLevel = "info"
)

var (
	logLevel    string
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "restops",
	Short: "Ansible modules and lookups for REST management APIs",
	Long: `restops implements Ansible binary modules and lookups for the HAProxy
Dataplane API, GitLab, SonarQube, GitHub Apps and OVH DNS.

Example usage:
  # Run a module with an Ansible args file
  restops module haproxy_backend /tmp/args.json

  # List the registered modules
  restops module list

  # Run a lookup with inline parameters
  restops lookup pbkdf2_hash --param password=s3cret --param rounds=1000`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (env: "+EnvLogLevel+")")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"Write Prometheus metrics to this textfile after the run (env: "+EnvMetricsFile+")")

	rootCmd.AddCommand(moduleCmd, lookupCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	code := run(ctx, os.Args)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, argv []string) int {
	// Installed as library/<module>, Ansible calls us with the args file only.
	if name, ok := busyboxModule(argv[0]); ok {
		if len(argv) != 2 {
			fmt.Fprintf(os.Stderr, "usage: %s <args-file>\n", name)
			return 1
		}
		return newRunner().RunModule(ctx, name, argv[1])
	}

	rootCmd.SetArgs(argv[1:])
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exit exitCode
		if errors.As(err, &exit) {
			return int(exit)
		}
		return 1
	}
	return 0
}

// busyboxModule returns the module named by the executable, if any.
func busyboxModule(argv0 string) (string, bool) {
	name := strings.TrimSuffix(filepath.Base(argv0), filepath.Ext(argv0))
	if name == rootCmd.Name() {
		return "", false
	}
	_, ok := module.Default().Get(name)
	return name, ok
}

func newRunner() *module.Runner {
	// Configuration priority: CLI flags > Environment variables > Defaults
	level := logLevel
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}
	if level == "" {
		level = DefaultLogLevel
	}

	file := metricsFile
	if file == "" {
		file = os.Getenv(EnvMetricsFile)
	}

	return &module.Runner{
		Registry:    module.Default(),
		LogLevel:    level,
		MetricsFile: file,
	}
}
