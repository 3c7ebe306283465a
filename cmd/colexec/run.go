package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/colexec/colexec/pkg/compiler"
	"github.com/colexec/colexec/pkg/config"
	"github.com/colexec/colexec/pkg/executor"
	"github.com/colexec/colexec/pkg/logging"
	"github.com/colexec/colexec/pkg/observer"
	"github.com/colexec/colexec/pkg/operator"
	"github.com/colexec/colexec/pkg/schema"
	"github.com/colexec/colexec/pkg/telemetry"
	"github.com/colexec/colexec/pkg/types"
)

func newRunCmd() *cobra.Command {
	var (
		inputPath     string
		queueCapacity int
		maxExecTime   time.Duration
		logLevel      string
		enableMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "run <dag.json>",
		Short: "Compile and execute a DAG description, printing output rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := compileFile(args[0])
			if err != nil {
				return err
			}

			input, err := readInput(inputPath)
			if err != nil {
				return err
			}

			cfg := config.Default()
			if queueCapacity > 0 {
				cfg.QueueCapacity = queueCapacity
			}
			if maxExecTime > 0 {
				cfg.MaxExecutionTime = maxExecTime
			}

			logger := logging.New(logging.Config{Level: logLevel, Output: os.Stderr})

			ctx := context.Background()

			execOpts := []executor.Option{
				executor.WithConfig(cfg),
				executor.WithLogger(logger),
			}

			var telemetryProvider *telemetry.Provider
			if enableMetrics {
				telemetryProvider, err = telemetry.NewProvider(ctx, telemetry.DefaultConfig())
				if err != nil {
					return fmt.Errorf("build telemetry provider: %w", err)
				}
				defer telemetryProvider.Shutdown(ctx)

				manager := observer.NewManagerWithObservers(telemetry.NewProfilerSink(telemetryProvider))
				execOpts = append(execOpts, executor.WithObserverManager(manager))
			}

			ex, err := executor.New(plan, operator.NewAdapter(nil), execOpts...)
			if err != nil {
				return fmt.Errorf("build executor: %w", err)
			}

			if err := ex.Initialize(ctx); err != nil {
				return fmt.Errorf("initialize: %w", err)
			}

			out, err := ex.Execute(ctx, input)
			if err != nil {
				return fmt.Errorf("execute: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			for _, row := range executor.Drain(out) {
				if err := enc.Encode(row); err != nil {
					return fmt.Errorf("encode output row: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to a JSON object used as the DAG's input row (default: {})")
	cmd.Flags().IntVar(&queueCapacity, "queue-capacity", 0, "override config.Default's TypedQueue capacity")
	cmd.Flags().DurationVar(&maxExecTime, "max-execution-time", 0, "override config.Default's execution timeout")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	cmd.Flags().BoolVar(&enableMetrics, "metrics", false, "attach the OpenTelemetry profiler sink (pkg/telemetry) as an observer")

	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dag.json>",
		Short: "Compile a DAG description and print its Snapshot without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := compileFile(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(plan.Snapshot())
		},
	}
}

func compileFile(path string) (*compiler.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	if err := schema.Validate(data); err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	var desc types.DAGDescription
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}

	nodes, err := types.DecodeNodes(desc)
	if err != nil {
		return nil, fmt.Errorf("decode nodes: %w", err)
	}

	plan, err := compiler.Compile(nodes)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return plan, nil
}

func readInput(path string) (types.Row, error) {
	if path == "" {
		return types.Row{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input %q: %w", path, err)
	}
	var row types.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("parse input %q: %w", path, err)
	}
	return row, nil
}
