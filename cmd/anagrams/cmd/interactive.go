package cmd

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/ui"
)

func newInteractiveCmd(flags *globalFlags) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Look up anagrams as you type",
		Long: `Open a terminal screen that shows the anagrams of whatever you type,
updated on every keystroke. Press Esc or Ctrl+C to quit.

The index is built in-process; the daemon is not used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			build := func(ctx context.Context) (*anagram.Index, error) {
				idx, _, err := dictionary.BuildIndex(ctx, cfg.Dictionary)
				return idx, err
			}
			uiCfg := ui.NewConfig(cmd.OutOrStdout(), ui.WithNoColor(noColor), ui.WithInput(cmd.InOrStdin()))

			err = ui.RunInteractive(cmd.Context(), uiCfg, build)
			if stderrors.Is(err, ui.ErrNotTTY) {
				return errors.ValidationError("interactive mode needs a terminal", err).
					WithSuggestion("Use 'anagrams lookup' in scripts and pipes")
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")
	return cmd
}
