// Package configs provides files embedded into the anagrams binary.
//
// Templates and data are embedded at build time with //go:embed so they are
// available in every distribution without extra files on disk.
package configs

import _ "embed"

// ConfigTemplate is written by `anagrams config init` to the user or project
// configuration path.
//
//go:embed config.example.yaml
var ConfigTemplate string

// DefaultWords is the newline-delimited dictionary used when no
// dictionary.paths are configured, or as the fallback source when
// dictionary.fallback is "embedded".
//
//go:embed words.txt
var DefaultWords string
