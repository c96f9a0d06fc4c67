package preflight

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aman-CERP/anagrams/internal/config"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/errors"
)

// CheckDictionary reads the configured word lists. A list that cannot be
// read fails the check unless the embedded fallback would cover it.
func (c *Checker) CheckDictionary(ctx context.Context, cfg config.DictionaryConfig) CheckResult {
	result := CheckResult{Name: "dictionary", Required: true}

	loader := dictionary.FromConfig(cfg)
	sources := strings.Join(loader.Names(), ", ")

	words, err := loader.Words(ctx)
	if err != nil {
		result.Details = errors.FormatForUser(err, false)
		if strings.EqualFold(cfg.Fallback, config.FallbackEmbedded) && errors.GetCategory(err) == errors.CategoryIO {
			result.Status = StatusWarn
			result.Message = fmt.Sprintf("%s unreadable, the embedded list will be used", sources)
			return result
		}
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot read %s", sources)
		return result
	}

	if len(words) == 0 {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("%s contains no words", sources)
		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%d words from %s", len(words), sources)
	return result
}
