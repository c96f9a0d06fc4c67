// Package main provides the entry point for the anagrams CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/anagrams/cmd/anagrams/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
