package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/daemon"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/output"
)

func newGroupsCmd(flags *globalFlags) *cobra.Command {
	var (
		params     daemon.GroupsParams
		local      bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List groups of words that are anagrams of each other",
		Long: `List the anagram groups of the dictionary in the order their first word
appears. By default only groups with at least two words are shown.`,
		Example: `  anagrams groups --limit 20
  anagrams groups --min 5
  anagrams groups --min 1 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGroups(cmd.Context(), cmd, flags, params, local, jsonOutput)
		},
	}

	cmd.Flags().IntVar(&params.MinSize, "min", 2, "Minimum number of words in a group")
	cmd.Flags().IntVarP(&params.Limit, "limit", "n", 50, "Maximum number of groups to print (0 for all)")
	cmd.Flags().BoolVar(&local, "local", false, "Build the index in-process instead of asking the daemon")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runGroups(ctx context.Context, cmd *cobra.Command, flags *globalFlags, params daemon.GroupsParams, local, jsonOutput bool) error {
	if err := params.Validate(); err != nil {
		return errors.ValidationError(err.Error(), err)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	var result daemon.GroupsResult
	answered, err := withDaemon(ctx, cfg, flags, local, func(c *daemon.Client) error {
		res, err := c.Groups(ctx, params)
		if err != nil {
			return err
		}
		result = *res
		return nil
	})
	if err != nil {
		return err
	}
	if !answered {
		idx, _, err := dictionary.BuildIndex(ctx, cfg.Dictionary)
		if err != nil {
			return err
		}
		groups := idx.Groups(params.MinSize)
		result = daemon.GroupsResult{Groups: groups, Total: len(groups)}
		if params.Limit > 0 && len(groups) > params.Limit {
			result.Groups = groups[:params.Limit]
		}
	}

	out := output.New(cmd.OutOrStdout())
	if jsonOutput {
		return out.JSON(result)
	}
	out.Groups(result.Groups, result.Total)
	return nil
}
