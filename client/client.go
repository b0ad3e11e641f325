// Package client is a thin HTTP client for querying a remote `serve`
// instance's /api/match endpoint, used by CLI workflows that match
// against a corpus hosted elsewhere instead of a local storage backend.
package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"panako/apperr"
	"panako/core"
)

// Client talks to a remote Panako HTTP server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a Client pointed at baseURL (e.g. "http://localhost:5000").
func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: 2 * time.Minute}}
}

// Match uploads the audio file at path to the remote server's
// /api/match endpoint and parses the JSON response into QueryResults
// using gjson, rather than decoding through a generated response
// struct, since the response is consumed read-only and never
// round-tripped.
func (c *Client) Match(path string) ([]core.QueryResult, error) {
	body, contentType, err := multipartFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/api/match", body)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("calling remote match endpoint: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("remote match endpoint returned %d: %s", resp.StatusCode, gjson.GetBytes(data, "error").String()))
	}

	return parseResults(data), nil
}

// parseResults reads the `results` array out of the JSON body field
// by field with gjson, matching the QueryResult JSON shape emitted by
// httpapi.handleMatch.
func parseResults(body []byte) []core.QueryResult {
	var results []core.QueryResult
	gjson.GetBytes(body, "results").ForEach(func(_, r gjson.Result) bool {
		qr := core.QueryResult{
			RefID:                   r.Get("ref_id").String(),
			QueryStartSecs:          r.Get("query_start_s").Float(),
			QueryStopSecs:           r.Get("query_stop_s").Float(),
			RefStartSecs:            r.Get("ref_start_s").Float(),
			RefStopSecs:             r.Get("ref_stop_s").Float(),
			Score:                   int(r.Get("score").Int()),
			TimeFactor:              r.Get("time_factor").Float(),
			FrequencyFactor:         r.Get("frequency_factor").Float(),
			PercentSecondsWithMatch: r.Get("percent_seconds_with_match").Float(),
		}
		if d := r.Get("ref_duration_ms"); d.Exists() {
			qr.RefDurationMs = uint32(d.Uint())
			qr.HasRefDuration = true
		}
		if a := r.Get("absolute_start"); a.Exists() {
			qr.AbsoluteStart = a.Float()
			qr.AbsoluteEnd = r.Get("absolute_end").Float()
			qr.HasAbsolute = true
		}
		results = append(results, qr)
		return true
	})
	return results
}

func multipartFile(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening query file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}
