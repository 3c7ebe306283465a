// Command colexec compiles and runs a columnar DAG description from the
// command line.
//
// Usage:
//
//	colexec run <dag.json> [--input <input.json>] [--queue-capacity N] [--metrics]
//	colexec validate <dag.json>
//	colexec health [--max-cache-keys N]
//	colexec version
//
// run compiles the DAG description, executes it with the rows decoded
// from --input (a single JSON object; defaults to {}), and prints every
// row read off the terminal queue as newline-delimited JSON. --metrics
// attaches the OpenTelemetry profiler sink (pkg/telemetry) as an observer
// for the run. validate only runs the Compiler and prints its Snapshot.
// health prints a HealthResponse (pkg/health) for a freshly constructed
// operator cache, the way an embedding service would probe readiness.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const cliVersion = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "colexec",
		Short: "Compile and execute columnar DAG definitions",
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the colexec version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("colexec v%s\n", cliVersion)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
