package anagram

import (
	"fmt"
	"testing"
)

func benchWords(n int) []string {
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, fmt.Sprintf("w%dord%d", i%977, i))
	}
	return words
}

func BenchmarkBuild(b *testing.B) {
	words := benchWords(100_000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Build(words)
	}
}

func BenchmarkLookup(b *testing.B) {
	idx := Build(append(benchWords(100_000), fixtureWords...))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.Lookup("PlaTeS")
	}
}

func BenchmarkLookupParallel(b *testing.B) {
	idx := Build(append(benchWords(100_000), fixtureWords...))
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = idx.Lookup(" eat ")
		}
	})
}
