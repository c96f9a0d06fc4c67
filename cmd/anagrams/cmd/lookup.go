package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/anagrams/internal/daemon"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/errors"
	"github.com/Aman-CERP/anagrams/internal/output"
)

type lookupOptions struct {
	local      bool
	jsonOutput bool
	wordsOnly  bool
}

// lookupOutput is the --json shape of the lookup command.
type lookupOutput struct {
	Source  string              `json:"source"`
	Results []daemon.WordResult `json:"results"`
}

func newLookupCmd(flags *globalFlags) *cobra.Command {
	opts := lookupOptions{}

	cmd := &cobra.Command{
		Use:     "lookup [word...]",
		Aliases: []string{"find"},
		Short:   "Print the anagrams of each word",
		Long: `Print every dictionary word made of exactly the same letters as each
given word, in dictionary order. The word itself is included when it is in
the dictionary.

With no arguments, words are read from stdin, one per line.

A running daemon answers the lookup when there is one; otherwise the
dictionary is loaded and indexed for this call. --dict always indexes the
given files locally.`,
		Example: `  anagrams lookup plates
  anagrams lookup eat tea --json
  anagrams lookup --dict /usr/share/dict/words listen
  cat words.txt | anagrams lookup --local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			words := args
			if len(words) == 0 {
				read, err := dictionary.ReadWords(cmd.Context(), cmd.InOrStdin())
				if err != nil {
					return err
				}
				words = read
			}
			return runLookup(cmd.Context(), cmd, flags, words, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.local, "local", false, "Build the index in-process instead of asking the daemon")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&opts.wordsOnly, "words", "w", false, "Print only the anagrams, one per line")

	return cmd
}

func runLookup(ctx context.Context, cmd *cobra.Command, flags *globalFlags, words []string, opts lookupOptions) error {
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			return errors.New(errors.ErrCodeQueryEmpty, "empty word in lookup", nil)
		}
	}
	if len(words) == 0 {
		return errors.New(errors.ErrCodeQueryEmpty, "no words to look up", nil).
			WithSuggestion("Pass words as arguments or pipe them on stdin")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	result := lookupOutput{Source: sourceDaemon}
	answered, err := withDaemon(ctx, cfg, flags, opts.local || len(words) > daemon.MaxLookupWords, func(c *daemon.Client) error {
		res, err := c.Lookup(ctx, words)
		if err != nil {
			return err
		}
		result.Results = res.Results
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
		result = lookupOutput{Source: sourceLocal, Results: lookupLocal(idx, words)}
	}

	out := output.New(cmd.OutOrStdout())
	switch {
	case opts.jsonOutput:
		return out.JSON(result)
	case opts.wordsOnly:
		for _, r := range result.Results {
			out.Words(r.Anagrams)
		}
	default:
		for _, r := range result.Results {
			out.Anagrams(r.Query, r.Anagrams)
		}
	}
	return nil
}
