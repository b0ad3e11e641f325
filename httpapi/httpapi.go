// Package httpapi exposes the generate/query workflows over HTTP,
// generalizing the teacher's multipart-upload handlers, JSON response
// helpers, and request-logging middleware to the Panako core pipeline.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"panako/audio"
	"panako/core"
	"panako/storage"
	"panako/util"
)

const maxUploadSize = 5000 << 20 // 5 GB

// Server wires one storage backend and one pipeline Config to every
// handler.
type Server struct {
	Backend storage.Backend
	Config  core.Config
	TmpDir  string
}

// NewServer returns a Server backed by backend, using cfg for every
// spectrogram/fingerprint stage.
func NewServer(backend storage.Backend, cfg core.Config) *Server {
	return &Server{Backend: backend, Config: cfg, TmpDir: "tmp"}
}

// Mux builds the full HTTP surface: /api/index, /api/match,
// /api/stats, /api/entries, wrapped in request-logging and CORS
// middleware, same shape as the teacher's serve().
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/index", s.handleIndex)
	mux.HandleFunc("/api/match", s.handleMatch)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/entries", s.handleEntries)
	return requestLogger(corsMiddleware(mux))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	log.Printf("[error] %d: %s", status, msg)
	writeJSON(w, status, map[string]string{"error": msg})
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Printf("[http] %s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func saveUploadedFile(r *http.Request, tmpDir string) (string, string, int64, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", 0, fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	if err := util.CreateFolder(tmpDir); err != nil {
		return "", "", 0, fmt.Errorf("failed to create tmp dir: %w", err)
	}

	tmpPath := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), header.Filename))
	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return tmpPath, header.Filename, written, nil
}

func logMemUsage(label string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("[mem] %s: alloc=%s, sys=%s, heap_in_use=%s",
		label, formatBytes(int64(m.Alloc)), formatBytes(int64(m.Sys)), formatBytes(int64(m.HeapInuse)))
}

// generateReference runs the full decode -> spectrogram -> event
// points -> fingerprint pipeline over filePath and stores the result
// under refID, matching the orchestration "generate" workflow.
func generateReference(backend storage.Backend, cfg core.Config, filePath, refID string) (int, error) {
	decoded, err := audio.Decode(filePath, cfg.SampleRate)
	if err != nil {
		return 0, err
	}

	fps := core.FingerprintSegment(core.Segment{
		Index:         0,
		StartTimeSecs: 0,
		EndTimeSecs:   float64(decoded.DurationMs) / 1000.0,
		Samples:       decoded.Samples,
	}, cfg)

	records := make([]storage.FingerprintRecord, len(fps))
	for i, fp := range fps {
		records[i] = storage.FingerprintRecord{Hash: fp.Hash, T1: fp.T1, F1: fp.F1, M1: fp.M1}
	}

	ref := storage.Reference{
		ID:      refID,
		Version: storage.FileFormatVersion,
		Metadata: storage.Metadata{
			OriginalPath: filePath,
			Filename:     filepath.Base(filePath),
			Algorithm:    "PANAKO",
			SampleRate:   cfg.SampleRate,
			DurationMs:   decoded.DurationMs,
			Channels:     decoded.Channels,
			CreatedAt:    time.Now(),
		},
		Segments: []storage.SegmentRecord{{
			SegmentID:     0,
			StartTimeSecs: 0,
			EndTimeSecs:   float64(decoded.DurationMs) / 1000.0,
			Fingerprints:  records,
		}},
	}

	if err := backend.Put(ref); err != nil {
		return 0, err
	}
	return len(fps), nil
}

func queryResultJSON(r core.QueryResult) map[string]any {
	out := map[string]any{
		"ref_id":                      r.RefID,
		"query_start_s":               r.QueryStartSecs,
		"query_stop_s":                r.QueryStopSecs,
		"ref_start_s":                 r.RefStartSecs,
		"ref_stop_s":                  r.RefStopSecs,
		"score":                       r.Score,
		"time_factor":                 r.TimeFactor,
		"frequency_factor":            r.FrequencyFactor,
		"percent_seconds_with_match":  r.PercentSecondsWithMatch,
	}
	if r.HasRefDuration {
		out["ref_duration_ms"] = r.RefDurationMs
	}
	if r.HasAbsolute {
		out["absolute_start"] = r.AbsoluteStart
		out["absolute_end"] = r.AbsoluteEnd
	}
	if r.HasSegmentIndex {
		out["segment_index"] = r.SegmentIndex
	}
	return out
}
