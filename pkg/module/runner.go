package module

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"restops/pkg/core/config"
	"restops/pkg/core/logging"
	"restops/pkg/metrics"
)

// Runner executes modules and lookups from a Registry.
type Runner struct {
	Registry *Registry

	// Stdout receives the JSON result. Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives logs. Defaults to os.Stderr.
	Stderr io.Writer

	LogLevel string

	// MetricsFile, when set, receives the Prometheus textfile after the run.
	MetricsFile string
}

// RunModule runs the named module against the args file at argsPath, writes
// the result to Stdout and returns the process exit code.
func (r *Runner) RunModule(ctx context.Context, name, argsPath string) int {
	result := r.runModule(ctx, name, argsPath)
	if err := json.NewEncoder(r.stdout()).Encode(result); err != nil {
		fmt.Fprintf(r.stderr(), "failed to write module result: %v\n", err)
		return 1
	}
	if result.Failed {
		return 1
	}
	return 0
}

func (r *Runner) runModule(ctx context.Context, name, argsPath string) Result {
	m, ok := r.Registry.Get(name)
	if !ok {
		return Failure(fmt.Errorf("unknown module %q", name))
	}

	params := m.NewParams()
	meta, err := config.LoadArgs(argsPath, params)
	verbosity := 0
	if meta != nil {
		verbosity = meta.Verbosity
	}
	registry := prometheus.NewRegistry()
	env := &Env{
		Logger:  logging.NewLogger(logging.Options{Level: r.LogLevel, Verbosity: verbosity, Output: r.stderr()}),
		Metrics: metrics.NewAPIMetrics(registry),
		Now:     time.Now,
	}
	if meta != nil {
		env.CheckMode = meta.CheckMode
		env.Diff = meta.Diff
	}

	var result Result
	if err != nil {
		result = Failure(err)
	} else {
		start := time.Now()
		result = r.invoke(ctx, m, env, params)
		env.Logger.Debug("module finished",
			"module", name,
			"changed", result.Changed,
			"failed", result.Failed,
			"check_mode", env.CheckMode,
			"duration", time.Since(start))
	}

	env.Metrics.RecordModuleRun(name, outcome(result))
	if err := metrics.WriteTextfile(r.MetricsFile, registry); err != nil {
		env.Logger.Warn("metrics not written", "error", err)
	}
	return result
}

func (r *Runner) invoke(ctx context.Context, m Module, env *Env, params any) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			result = Failure(fmt.Errorf("module %s panicked: %v", m.Name(), p))
		}
	}()

	result, err := m.Run(ctx, env, params)
	if err != nil {
		failed := Failure(err)
		failed.Data = result.Data
		return failed
	}
	return result
}

// RunLookup runs the named lookup with params built from the args file (if
// any) overlaid with inline values, and writes the JSON result.
func (r *Runner) RunLookup(ctx context.Context, name, argsPath string, inline map[string]any) error {
	l, ok := r.Registry.GetLookup(name)
	if !ok {
		return fmt.Errorf("unknown lookup %q", name)
	}

	raw := map[string]any{}
	if argsPath != "" {
		fileArgs, err := config.ReadRaw(argsPath)
		if err != nil {
			return err
		}
		maps.Copy(raw, fileArgs)
	}
	maps.Copy(raw, inline)

	params := l.NewParams()
	if err := config.ParseMap(raw, params); err != nil {
		return err
	}
	if err := config.Validate(params); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	env := &Env{
		Logger:  logging.NewLogger(logging.Options{Level: r.LogLevel, Output: r.stderr()}),
		Metrics: metrics.NewAPIMetrics(registry),
		Now:     time.Now,
	}

	value, err := l.Run(ctx, env, params)
	env.Metrics.RecordModuleRun("lookup_"+name, outcome(Result{Failed: err != nil}))
	if werr := metrics.WriteTextfile(r.MetricsFile, registry); werr != nil {
		env.Logger.Warn("metrics not written", "error", werr)
	}
	if err != nil {
		return err
	}
	return json.NewEncoder(r.stdout()).Encode(value)
}

func outcome(r Result) string {
	switch {
	case r.Failed:
		return "failed"
	case r.Changed:
		return "changed"
	default:
		return "ok"
	}
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}
