// Package corpus bridges the storage and core packages: it loads every
// stored reference into an in-memory core.Index for the matcher to
// query, and carries each reference's stored duration along.
package corpus

import (
	"log"

	"panako/core"
	"panako/storage"
)

// LoadIndex builds an in-memory core.Index from every reference in
// backend. References are fetched one at a time with backend.Get, in
// List order, and each is inserted into the Index as soon as it is
// read; no part of the load runs concurrently. Unreadable references
// are logged and skipped.
func LoadIndex(backend storage.Backend) (*core.Index, error) {
	ids, err := backend.List()
	if err != nil {
		return nil, err
	}

	idx := core.NewIndex()
	for _, id := range ids {
		ref, err := backend.Get(id)
		if err != nil {
			log.Printf("[corpus] skipping unreadable reference %q: %v", id, err)
			continue
		}
		idx.SetDuration(id, ref.Metadata.DurationMs)
		for _, seg := range ref.Segments {
			fps := make([]core.Fingerprint, len(seg.Fingerprints))
			for i, fr := range seg.Fingerprints {
				fps[i] = core.Fingerprint{Hash: fr.Hash, T1: fr.T1, F1: fr.F1, M1: fr.M1}
			}
			idx.AddFingerprints(id, fps)
		}
	}
	return idx, nil
}
