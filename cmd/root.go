package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/eventsim/sim"
	"github.com/inference-sim/eventsim/sim/scenario"
	"github.com/inference-sim/eventsim/sim/trace"
)

var (
	// CLI flags for the run command
	scenarioPath string // Path to the scenario YAML file
	runUntil     int64  // Stop before this tick; unset runs to completion
	seed         int64  // Overrides the scenario seed when set
	logLevel     string // Log verbosity level
	traceLevel   string // Trace verbosity: none, events, full
	traceOut     string // Optional path for the JSON trace export
)

// runOptions is the resolved configuration of one run invocation.
type runOptions struct {
	ScenarioPath string
	Until        *int64 // nil runs until no work is left
	Seed         *int64
	TraceLevel   trace.TraceLevel
	TraceOut     string
}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "eventsim",
	Short: "Deterministic discrete-event simulation of scripted processes",
}

// runCmd executes a scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, events, full)", traceLevel)
		}

		opts := runOptions{
			ScenarioPath: scenarioPath,
			TraceLevel:   trace.TraceLevel(traceLevel),
			TraceOut:     traceOut,
		}
		if cmd.Flags().Changed("until") {
			opts.Until = &runUntil
		}
		if cmd.Flags().Changed("seed") {
			opts.Seed = &seed
		}

		if err := runScenario(opts, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// runScenario loads, builds and runs a scenario, then prints its report to
// out. The report is printed even when the run stops on an unhandled failure.
func runScenario(opts runOptions, out io.Writer) error {
	spec, err := scenario.LoadScenario(opts.ScenarioPath)
	if err != nil {
		return err
	}
	if opts.Seed != nil {
		spec.Seed = *opts.Seed
	}

	var tr *trace.SimulationTrace
	if opts.TraceLevel != "" && opts.TraceLevel != trace.TraceLevelNone {
		tr = trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel})
	}

	model, err := scenario.Build(spec, sim.Config{
		Trace:  tr,
		Logger: logrus.WithField("scenario", opts.ScenarioPath),
	})
	if err != nil {
		return err
	}
	defer model.Close()

	logrus.Infof("Starting scenario %s with %d processes, seed=%d",
		opts.ScenarioPath, len(spec.Processes), spec.Seed)

	var runErr error
	if opts.Until != nil {
		runErr = model.RunUntil(*opts.Until)
	} else {
		runErr = model.Run()
	}

	model.Report().Print(out)

	if tr != nil && opts.TraceOut != "" {
		if err := writeTrace(opts.TraceOut, tr); err != nil {
			return err
		}
		logrus.Infof("Trace written to %s (run %s)", opts.TraceOut, tr.RunID)
	}
	return runErr
}

func writeTrace(path string, tr *trace.SimulationTrace) error {
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the scenario YAML file")
	runCmd.Flags().Int64Var(&runUntil, "until", 0, "Stop before this tick (unset runs until no work is left)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for jittered delays (overrides the scenario seed)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level (none, events, full)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the trace as JSON to this file")
	_ = runCmd.MarkFlagRequired("scenario")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
