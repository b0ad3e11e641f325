package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"panako/audio"
	"panako/core"
	"panako/corpus"
	"panako/util"
)

type indexResponse struct {
	RefID           string `json:"ref_id"`
	Fingerprints    int    `json:"fingerprints"`
	StorageEstimate string `json:"storage_estimate"`
	DurationSec     int    `json:"duration_sec"`
}

type statsResponse struct {
	TotalReferences   int    `json:"total_references"`
	TotalFingerprints int    `json:"total_fingerprints"`
	StorageEstimate   string `json:"storage_estimate"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reqStart := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	tmpPath, filename, fileSize, err := saveUploadedFile(r, s.TmpDir)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer os.Remove(tmpPath)

	refID := r.FormValue("ref_id")
	if refID == "" {
		refID = util.RefIDFromPath(filename)
	}

	if _, err := s.Backend.Get(refID); err == nil {
		writeError(w, http.StatusConflict, fmt.Sprintf("reference %q already exists", refID))
		return
	}

	logMemUsage("before processing")
	fpCount, err := generateReference(s.Backend, s.Config, tmpPath, refID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logMemUsage("after processing")

	ref, _ := s.Backend.Get(refID)

	resp := indexResponse{
		RefID:           refID,
		Fingerprints:    fpCount,
		StorageEstimate: formatBytes(int64(fpCount) * 20),
		DurationSec:     int(ref.Metadata.DurationMs / 1000),
	}

	log.Printf("[index] completed %q (%s, %s): %d fingerprints, %s total time",
		refID, filename, formatBytes(fileSize), fpCount, time.Since(reqStart))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reqStart := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	tmpPath, filename, _, err := saveUploadedFile(r, s.TmpDir)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer os.Remove(tmpPath)

	decoded, err := audio.Decode(tmpPath, s.Config.SampleRate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("decode error: %v", err))
		return
	}

	fps := core.FingerprintSegment(core.Segment{
		StartTimeSecs: 0,
		EndTimeSecs:   float64(decoded.DurationMs) / 1000.0,
		Samples:       decoded.Samples,
	}, s.Config)

	idx, err := corpus.LoadIndex(s.Backend)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("index load error: %v", err))
		return
	}

	results := core.FilterOutput(core.Query(fps, idx, s.Config))

	resultsJSON := make([]map[string]any, len(results))
	for i, r := range results {
		resultsJSON[i] = queryResultJSON(r)
	}

	log.Printf("[match] %q: %d fingerprints, %d results in %s", filename, len(fps), len(results), time.Since(reqStart))
	writeJSON(w, http.StatusOK, map[string]any{
		"query_path": filename,
		"detections": len(results),
		"results":    resultsJSON,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.Backend.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalReferences:   stats.TotalReferences,
		TotalFingerprints: stats.TotalFingerprints,
		StorageEstimate:   formatBytes(int64(stats.TotalFingerprints) * 20),
	})
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ids, err := s.Backend.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, ids)
}
