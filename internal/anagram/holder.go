package anagram

import "sync/atomic"

// Holder publishes a fully built Index to concurrent readers.
// Publish must only be given an index whose Build has returned; readers
// observe either the previous index or the new one, never a partial build.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder returns a Holder already publishing idx (which may be nil).
func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	if idx != nil {
		h.current.Store(idx)
	}
	return h
}

// Publish makes idx visible to subsequent Load calls and returns the index it replaced.
func (h *Holder) Publish(idx *Index) *Index {
	return h.current.Swap(idx)
}

// Load returns the currently published index, or nil if none has been published.
func (h *Holder) Load() *Index {
	return h.current.Load()
}

// Lookup queries the currently published index.
func (h *Holder) Lookup(query string) []string {
	return h.Load().Lookup(query)
}
