//go:build ignore

// Package main generates a synthetic word list for benchmarking index builds.
// Usage: go run scripts/generate-dictionary.go -words 500000 -output testdata/bench/words.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

var (
	numWords   = flag.Int("words", 100000, "Number of words to generate")
	outputPath = flag.String("output", "testdata/bench/words.txt", "Output file")
	seed       = flag.Int64("seed", 42, "Random seed for reproducibility")
	anagramPct = flag.Int("anagrams", 20, "Percentage of words emitted as permutations of an earlier word")
	maxLen     = flag.Int("max-len", 10, "Maximum word length")
)

// Letter weights roughly follow English frequencies so keys collide the way
// a real dictionary's do.
const letters = "eeeeeeeeeeeetttttttttaaaaaaaaooooooooiiiiiiinnnnnnnsssssshhhhhhrrrrrrddddlllluuucccmmmwwffggyyppbbvkjxqz"

func main() {
	flag.Parse()

	if *numWords <= 0 || *maxLen < 2 || *anagramPct < 0 || *anagramPct > 100 {
		fmt.Fprintln(os.Stderr, "invalid flags")
		os.Exit(2)
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rng := rand.New(rand.NewSource(*seed))
	w := bufio.NewWriter(f)

	bases := make([][]byte, 0, *numWords)
	permutations := 0
	for i := 0; i < *numWords; i++ {
		var word []byte
		if len(bases) > 0 && rng.Intn(100) < *anagramPct {
			word = append([]byte(nil), bases[rng.Intn(len(bases))]...)
			rng.Shuffle(len(word), func(a, b int) { word[a], word[b] = word[b], word[a] })
			permutations++
		} else {
			word = randomWord(rng, 2+rng.Intn(*maxLen-1))
			bases = append(bases, word)
		}
		if _, err := w.Write(append(word, '\n')); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
			os.Exit(1)
		}
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "flush: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d words (%d permutations) in %s\n", *numWords, permutations, *outputPath)
}

func randomWord(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return b
}
