package core

import "sync"

// Posting is a single occurrence of a hash in a reference recording.
// The magnitude is discarded after hashing — only (ref_id, t1, f1)
// survive into the index (spec.md §3).
type Posting struct {
	RefID string
	T1    int32
	F1    int16
}

// Index is the corpus-wide inverted hash index: hash -> postings, plus
// a side table of reference durations. Construction is typically bulk
// (corpus load) and queries are read-only afterwards; inserts take the
// write lock, and the query-path reads (Lookup, Duration) take the read
// lock.
type Index struct {
	mu           sync.RWMutex
	postings     map[uint64][]Posting
	refDurations map[string]uint32 // ms
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		postings:     make(map[uint64][]Posting),
		refDurations: make(map[string]uint32),
	}
}

// AddFingerprints appends one posting per fingerprint for refID.
// Insertion is append-only; the same hash is expected to recur across
// many references and many times within one reference.
func (idx *Index) AddFingerprints(refID string, fps []Fingerprint) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, fp := range fps {
		idx.postings[fp.Hash] = append(idx.postings[fp.Hash], Posting{RefID: refID, T1: fp.T1, F1: fp.F1})
	}
}

// SetDuration records the total duration of refID, used later to
// compute QueryResult.AbsoluteStart/AbsoluteEnd.
func (idx *Index) SetDuration(refID string, durationMs uint32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.refDurations[refID] = durationMs
}

// Lookup returns the postings for hash, or nil if unknown.
func (idx *Index) Lookup(hash uint64) []Posting {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.postings[hash]
}

// Duration returns the stored duration for refID, if any.
func (idx *Index) Duration(refID string) (uint32, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	d, ok := idx.refDurations[refID]
	return d, ok
}

// RefCount returns the number of distinct reference ids with a known
// duration.
func (idx *Index) RefCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.refDurations)
}

// HashCount returns the number of distinct hashes in the index.
func (idx *Index) HashCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.postings)
}
