// Package preflight runs the checks behind `anagrams doctor`: whether the
// configuration loads, the dictionary can be read, the data and log
// directories are writable and the daemon is reachable.
//
//	checker := preflight.New(preflight.WithOutput(os.Stdout))
//	results := checker.RunAll(ctx, cfg)
//	checker.PrintResults(results)
package preflight
