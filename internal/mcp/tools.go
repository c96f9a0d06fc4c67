package mcp

import (
	"github.com/Aman-CERP/anagrams/internal/anagram"
	"github.com/Aman-CERP/anagrams/internal/dictionary"
	"github.com/Aman-CERP/anagrams/internal/telemetry"
)

// maxWordsPerCall bounds the anagrams tool input.
const maxWordsPerCall = 100

// AnagramsInput defines the input schema for the anagrams tool.
type AnagramsInput struct {
	Word  string   `json:"word,omitempty" jsonschema:"a single word to find anagrams of"`
	Words []string `json:"words,omitempty" jsonschema:"several words to look up in one call, at most 100"`
}

// AnagramsOutput defines the output schema for the anagrams tool.
type AnagramsOutput struct {
	Results []AnagramResult `json:"results" jsonschema:"one entry per query word, in request order"`
}

// AnagramResult is the group for one query word.
type AnagramResult struct {
	Query    string   `json:"query" jsonschema:"the word as given"`
	Key      string   `json:"key" jsonschema:"canonical key: trimmed, lowercased, letters sorted"`
	Anagrams []string `json:"anagrams" jsonschema:"dictionary words with the same letters, in dictionary order; includes the query if it is a dictionary word"`
	Count    int      `json:"count" jsonschema:"number of anagrams"`
}

// GroupsInput defines the input schema for the anagram_groups tool.
type GroupsInput struct {
	MinSize int `json:"min_size,omitempty" jsonschema:"only groups with at least this many words, default 2"`
	Limit   int `json:"limit,omitempty" jsonschema:"maximum number of groups, default 50"`
}

// GroupsOutput defines the output schema for the anagram_groups tool.
type GroupsOutput struct {
	Groups []anagram.Group `json:"groups" jsonschema:"groups in order of first appearance in the dictionary"`
	Total  int             `json:"total" jsonschema:"number of matching groups before the limit"`
}

// StatusInput defines the (empty) input schema for dictionary_status.
type StatusInput struct{}

// StatusOutput defines the output schema for dictionary_status.
type StatusOutput struct {
	Ready     bool               `json:"ready" jsonschema:"true once an index is published"`
	Index     anagram.Stats      `json:"index" jsonschema:"word and group counts"`
	Origin    dictionary.Origin  `json:"origin" jsonschema:"where the dictionary was loaded from"`
	Telemetry telemetry.Snapshot `json:"telemetry" jsonschema:"lookup counters for this session"`
}
