package anagram

import (
	"slices"
	"strings"
)

// Normalize trims surrounding whitespace and lowercases word.
// Build and Lookup both key through this function so they cannot drift apart.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Key returns the canonical key of word: its normalized runes in sorted order.
// Two words share a key iff they are anagrams of each other.
func Key(word string) string {
	runes := []rune(Normalize(word))
	slices.Sort(runes)
	return string(runes)
}
