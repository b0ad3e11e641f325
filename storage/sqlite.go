package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"panako/apperr"
)

// SQLiteBackend is the relational storage backend, grounded on the
// songs/fingerprints table-pair shape used elsewhere in the corpus for
// Postgres, adapted to SQLite's driver and placeholder syntax.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (and migrates, if needed) a SQLite database
// file at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("opening sqlite db: %w", err))
	}
	if err := db.Ping(); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("connecting to sqlite db: %w", err))
	}
	if err := createSQLiteTables(db); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	return &SQLiteBackend{db: db}, nil
}

func createSQLiteTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refs (
			id TEXT PRIMARY KEY,
			original_path TEXT NOT NULL,
			filename TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			sample_rate INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			channels INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			seg_enabled INTEGER NOT NULL DEFAULT 0,
			seg_duration_s REAL,
			seg_overlap_s REAL,
			seg_num_segments INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS segments (
			ref_id TEXT NOT NULL REFERENCES refs(id),
			segment_id INTEGER NOT NULL,
			start_time_s REAL NOT NULL,
			end_time_s REAL NOT NULL,
			PRIMARY KEY (ref_id, segment_id)
		)`,
		`CREATE TABLE IF NOT EXISTS fingerprints (
			ref_id TEXT NOT NULL REFERENCES refs(id),
			segment_id INTEGER NOT NULL,
			hash INTEGER NOT NULL,
			t1 INTEGER NOT NULL,
			f1 INTEGER NOT NULL,
			m1 REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fingerprints_hash ON fingerprints (hash)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrating sqlite schema: %w", err)
		}
	}
	return nil
}

func (b *SQLiteBackend) Put(ref Reference) error {
	tx, err := b.db.Begin()
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM fingerprints WHERE ref_id = ?`, ref.ID); err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	if _, err := tx.Exec(`DELETE FROM segments WHERE ref_id = ?`, ref.ID); err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}

	_, err = tx.Exec(`
		INSERT INTO refs (id, original_path, filename, algorithm, sample_rate, duration_ms, channels, created_at,
			seg_enabled, seg_duration_s, seg_overlap_s, seg_num_segments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			original_path=excluded.original_path, filename=excluded.filename, algorithm=excluded.algorithm,
			sample_rate=excluded.sample_rate, duration_ms=excluded.duration_ms, channels=excluded.channels,
			created_at=excluded.created_at, seg_enabled=excluded.seg_enabled, seg_duration_s=excluded.seg_duration_s,
			seg_overlap_s=excluded.seg_overlap_s, seg_num_segments=excluded.seg_num_segments`,
		ref.ID, ref.Metadata.OriginalPath, ref.Metadata.Filename, ref.Metadata.Algorithm,
		ref.Metadata.SampleRate, ref.Metadata.DurationMs, ref.Metadata.Channels,
		ref.Metadata.CreatedAt.Format(time.RFC3339),
		ref.Segmentation.Enabled, ref.Segmentation.SegmentDurationSecs, ref.Segmentation.OverlapDurationSecs,
		ref.Segmentation.NumSegments,
	)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}

	for _, seg := range ref.Segments {
		if _, err := tx.Exec(`INSERT INTO segments (ref_id, segment_id, start_time_s, end_time_s) VALUES (?, ?, ?, ?)`,
			ref.ID, seg.SegmentID, seg.StartTimeSecs, seg.EndTimeSecs); err != nil {
			return apperr.Wrap(apperr.ErrStorageFailed, err)
		}
		if err := insertFingerprintsBatch(tx, ref.ID, seg.SegmentID, seg.Fingerprints); err != nil {
			return apperr.Wrap(apperr.ErrStorageFailed, err)
		}
	}

	return tx.Commit()
}

// insertFingerprintsBatch inserts in chunks of batchSize rows per
// statement, since a single reference can carry tens of thousands of
// fingerprints and SQLite caps bound parameters per statement.
func insertFingerprintsBatch(tx *sql.Tx, refID string, segmentID int, fps []FingerprintRecord) error {
	const batchSize = 2000
	for start := 0; start < len(fps); start += batchSize {
		end := start + batchSize
		if end > len(fps) {
			end = len(fps)
		}
		batch := fps[start:end]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO fingerprints (ref_id, segment_id, hash, t1, f1, m1) VALUES `)
		args := make([]any, 0, len(batch)*6)
		for i, fp := range batch {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("(?, ?, ?, ?, ?, ?)")
			args = append(args, refID, segmentID, int64(fp.Hash), fp.T1, fp.F1, fp.M1)
		}
		if _, err := tx.Exec(sb.String(), args...); err != nil {
			return err
		}
	}
	return nil
}

func (b *SQLiteBackend) Get(id string) (Reference, error) {
	var ref Reference
	ref.ID = id
	row := b.db.QueryRow(`SELECT original_path, filename, algorithm, sample_rate, duration_ms, channels, created_at,
		seg_enabled, seg_duration_s, seg_overlap_s, seg_num_segments FROM refs WHERE id = ?`, id)

	var createdAt string
	var segDuration, segOverlap sql.NullFloat64
	var segNum sql.NullInt64
	err := row.Scan(&ref.Metadata.OriginalPath, &ref.Metadata.Filename, &ref.Metadata.Algorithm,
		&ref.Metadata.SampleRate, &ref.Metadata.DurationMs, &ref.Metadata.Channels, &createdAt,
		&ref.Segmentation.Enabled, &segDuration, &segOverlap, &segNum)
	if err != nil {
		return Reference{}, apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("reference %q not found: %w", id, err))
	}
	ref.Metadata.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	ref.Segmentation.SegmentDurationSecs = segDuration.Float64
	ref.Segmentation.OverlapDurationSecs = segOverlap.Float64
	ref.Segmentation.NumSegments = int(segNum.Int64)
	ref.Version = FileFormatVersion

	segRows, err := b.db.Query(`SELECT segment_id, start_time_s, end_time_s FROM segments WHERE ref_id = ? ORDER BY segment_id`, id)
	if err != nil {
		return Reference{}, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	defer segRows.Close()

	for segRows.Next() {
		var seg SegmentRecord
		if err := segRows.Scan(&seg.SegmentID, &seg.StartTimeSecs, &seg.EndTimeSecs); err != nil {
			return Reference{}, apperr.Wrap(apperr.ErrStorageFailed, err)
		}

		fpRows, err := b.db.Query(`SELECT hash, t1, f1, m1 FROM fingerprints WHERE ref_id = ? AND segment_id = ?`, id, seg.SegmentID)
		if err != nil {
			return Reference{}, apperr.Wrap(apperr.ErrStorageFailed, err)
		}
		for fpRows.Next() {
			var fp FingerprintRecord
			var hash int64
			if err := fpRows.Scan(&hash, &fp.T1, &fp.F1, &fp.M1); err != nil {
				fpRows.Close()
				return Reference{}, apperr.Wrap(apperr.ErrStorageFailed, err)
			}
			fp.Hash = uint64(hash)
			seg.Fingerprints = append(seg.Fingerprints, fp)
		}
		fpRows.Close()

		ref.Segments = append(ref.Segments, seg)
	}

	return ref, nil
}

func (b *SQLiteBackend) List() ([]string, error) {
	rows, err := b.db.Query(`SELECT id FROM refs ORDER BY id`)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Wrap(apperr.ErrStorageFailed, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (b *SQLiteBackend) Delete(id string) error {
	tx, err := b.db.Begin()
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM fingerprints WHERE ref_id = ?`, id); err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	if _, err := tx.Exec(`DELETE FROM segments WHERE ref_id = ?`, id); err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	if _, err := tx.Exec(`DELETE FROM refs WHERE id = ?`, id); err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	return tx.Commit()
}

func (b *SQLiteBackend) Stats() (Stats, error) {
	var stats Stats
	if err := b.db.QueryRow(`SELECT COUNT(*) FROM refs`).Scan(&stats.TotalReferences); err != nil {
		return Stats{}, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	if err := b.db.QueryRow(`SELECT COUNT(*) FROM fingerprints`).Scan(&stats.TotalFingerprints); err != nil {
		return Stats{}, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	return stats, nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
