package anagram

import (
	"context"
	"fmt"
	"slices"
)

// WordSource supplies an ordered dictionary word list.
// Implementations signal unavailable input (missing file, read failure) through the error.
type WordSource interface {
	Words(ctx context.Context) ([]string, error)
}

// Group is a set of mutual anagrams in input order.
type Group struct {
	Key   string   `json:"key"`
	Words []string `json:"words"`
}

// Stats summarizes an index.
type Stats struct {
	Words         int `json:"words"`
	Groups        int `json:"groups"`
	AnagramGroups int `json:"anagram_groups"`
	LargestGroup  int `json:"largest_group"`
}

// Index maps canonical keys to the dictionary words that share them.
// It is read-only after Build returns.
type Index struct {
	groups map[string][]string
	order  []string // keys by first appearance
	words  int
}

// Build indexes words in one pass. Each word is keyed through Key and stored
// verbatim; duplicates are kept and groups preserve input order.
func Build(words []string) *Index {
	idx := &Index{
		groups: make(map[string][]string),
		words:  len(words),
	}

	for _, w := range words {
		k := Key(w)
		group, ok := idx.groups[k]
		if !ok {
			idx.order = append(idx.order, k)
		}
		idx.groups[k] = append(group, w)
	}

	return idx
}

// BuildFrom reads the word list from src and builds an index.
// If src fails no index is returned.
func BuildFrom(ctx context.Context, src WordSource) (*Index, error) {
	if src == nil {
		return nil, fmt.Errorf("word source is required")
	}
	words, err := src.Words(ctx)
	if err != nil {
		return nil, err
	}
	return Build(words), nil
}

// Lookup returns every dictionary word that is an anagram of query, in input
// order. The result is a fresh slice and is never nil.
func (idx *Index) Lookup(query string) []string {
	return idx.LookupKey(Key(query))
}

// LookupKey is Lookup for a key already produced by Key. Callers that also
// report the key use it to normalize the query once.
func (idx *Index) LookupKey(key string) []string {
	if idx == nil {
		return []string{}
	}
	group, ok := idx.groups[key]
	if !ok {
		return []string{}
	}
	return slices.Clone(group)
}

// Contains reports whether any dictionary word shares query's key.
func (idx *Index) Contains(query string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.groups[Key(query)]
	return ok
}

// Groups returns all groups with at least minSize words, ordered by the first
// appearance of their key in the input.
func (idx *Index) Groups(minSize int) []Group {
	if idx == nil {
		return []Group{}
	}
	result := make([]Group, 0, len(idx.order))
	for _, k := range idx.order {
		words := idx.groups[k]
		if len(words) < minSize {
			continue
		}
		result = append(result, Group{Key: k, Words: slices.Clone(words)})
	}
	return result
}

// Len returns the number of words the index was built from.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.words
}

// Stats computes summary counts for the index.
func (idx *Index) Stats() Stats {
	if idx == nil {
		return Stats{}
	}
	s := Stats{
		Words:  idx.words,
		Groups: len(idx.groups),
	}
	for _, words := range idx.groups {
		if len(words) > 1 {
			s.AnagramGroups++
		}
		s.LargestGroup = max(s.LargestGroup, len(words))
	}
	return s
}
