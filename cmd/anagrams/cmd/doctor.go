package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/output"
	"github.com/Aman-CERP/anagrams/internal/preflight"
)

type doctorReport struct {
	Status string                  `json:"status"`
	Checks []preflight.CheckResult `json:"checks"`
}

func newDoctorCmd(flags *globalFlags) *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the dictionary, directories and daemon are usable",
		Long: `Run a set of checks against the current configuration: the configuration
itself, every dictionary source, the data and log directories, the open file
limit and whether a daemon is answering.

Exits non-zero when a required check fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			checker := preflight.New(
				preflight.WithOutput(cmd.OutOrStdout()),
				preflight.WithVerbose(verbose),
			)

			var results []preflight.CheckResult
			cfg, err := loadConfig(flags)
			if err != nil {
				results = []preflight.CheckResult{{
					Name:     "config",
					Status:   preflight.StatusFail,
					Message:  "configuration could not be loaded",
					Details:  errors.FormatForUser(err, false),
					Required: true,
				}}
			} else {
				results = checker.RunAll(cmd.Context(), cfg)
			}

			if jsonOutput {
				report := doctorReport{Status: checker.SummaryStatus(results), Checks: results}
				if err := output.New(cmd.OutOrStdout()).JSON(report); err != nil {
					return err
				}
			} else {
				checker.PrintResults(results)
			}

			if checker.HasCriticalFailures(results) {
				return errors.ValidationError("system check failed", nil).
					WithSuggestion("Run 'anagrams doctor --verbose' for details")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show details for every check")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
