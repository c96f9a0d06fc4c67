// Package anagram builds an immutable canonical-key index over a word list
// and answers anagram lookups against it.
//
// An Index is constructed in a single pass by Build (or BuildFrom when the
// words come from a WordSource). Once returned it is never modified, so any
// number of goroutines may call Lookup concurrently without locking. Callers
// that need to swap in a rebuilt index publish it through a Holder.
package anagram
