// Package storage defines the persistence contract consumed by the
// core pipeline (spec.md §6: storage collaborator) and three concrete
// backends: a filesystem/JSON default, SQLite, and MongoDB.
package storage

import "time"

// FingerprintRecord is one serialized fingerprint, shorn of t2/t3/f2/f3
// which are not needed once the hash has been computed and indexed.
type FingerprintRecord struct {
	Hash uint64  `json:"hash" bson:"hash"`
	T1   int32   `json:"t1" bson:"t1"`
	F1   int16   `json:"f1" bson:"f1"`
	M1   float32 `json:"m1" bson:"m1"`
}

// SegmentRecord is one stored window of a reference recording. Most
// references have exactly one segment; monitor-processed references
// may have several.
type SegmentRecord struct {
	SegmentID     int                 `json:"segment_id" bson:"segment_id"`
	StartTimeSecs float64             `json:"start_time_s" bson:"start_time_s"`
	EndTimeSecs   float64             `json:"end_time_s" bson:"end_time_s"`
	Fingerprints  []FingerprintRecord `json:"fingerprints" bson:"fingerprints"`
}

// Segmentation records whether a reference was processed by the
// monitor segmenter and, if so, with what parameters.
type Segmentation struct {
	Enabled             bool    `json:"enabled" bson:"enabled"`
	SegmentDurationSecs float64 `json:"segment_duration_s,omitempty" bson:"segment_duration_s,omitempty"`
	OverlapDurationSecs float64 `json:"overlap_duration_s,omitempty" bson:"overlap_duration_s,omitempty"`
	NumSegments         int     `json:"num_segments,omitempty" bson:"num_segments,omitempty"`
}

// Metadata is per-reference bookkeeping independent of the fingerprint
// content itself.
type Metadata struct {
	OriginalPath string    `json:"original_path" bson:"original_path"`
	Filename     string    `json:"filename" bson:"filename"`
	Algorithm    string    `json:"algorithm" bson:"algorithm"`
	SampleRate   int       `json:"sample_rate" bson:"sample_rate"`
	DurationMs   uint32    `json:"duration_ms" bson:"duration_ms"`
	Channels     int       `json:"channels" bson:"channels"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Reference is one indexed recording: identifier, metadata, optional
// segmentation record, and its fingerprint-bearing segments.
type Reference struct {
	ID           string          `json:"id" bson:"_id"`
	Version      string          `json:"version" bson:"version"`
	Metadata     Metadata        `json:"metadata" bson:"metadata"`
	Segmentation Segmentation    `json:"segmentation" bson:"segmentation"`
	Segments     []SegmentRecord `json:"segments" bson:"segments"`
}

// FileFormatVersion is stamped into every serialized reference.
const FileFormatVersion = "2.0"

// Stats summarizes the corpus for the stats CLI/HTTP surface.
type Stats struct {
	TotalReferences   int
	TotalFingerprints int
}

// Backend is the storage contract every workflow (generate, query,
// monitor) is built against; the core algorithm packages never
// reference it directly.
type Backend interface {
	Put(ref Reference) error
	Get(id string) (Reference, error)
	List() ([]string, error)
	Delete(id string) error
	Stats() (Stats, error)
	Close() error
}
