package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/eventsim/sim/scenario"
)

var validatePath string

// validateCmd parses and validates a scenario without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateScenario(validatePath, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func validateScenario(path string, out io.Writer) error {
	spec, err := scenario.LoadScenario(path)
	if err != nil {
		return err
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(out, "%s: ok (%d events, %d processes)\n", path, len(spec.Events), len(spec.Processes))
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validatePath, "scenario", "", "Path to the scenario YAML file")
	_ = validateCmd.MarkFlagRequired("scenario")
}
