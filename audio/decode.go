// Package audio is the out-of-scope audio decode collaborator named in
// spec.md §6: it shells out to ffmpeg/ffprobe, the same external tools
// the teacher's wav package wraps, and hands the core pipeline back
// plain mono float64 PCM at a caller-chosen sample rate.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"panako/apperr"
)

// Decoded is the result of decoding one audio file to mono PCM.
type Decoded struct {
	Samples    []float64
	Channels   int
	SampleRate int
	DurationMs uint32
}

// Decode downmixes path to mono at targetSampleRate and returns
// normalized float64 samples in [-1, 1], matching the
// decode(path, target_sample_rate) contract of spec.md §6.
func Decode(path string, targetSampleRate int) (Decoded, error) {
	durationSecs, err := duration(path)
	if err != nil {
		return Decoded{}, apperr.Wrap(apperr.ErrDecodeFailed, err)
	}

	cmd := exec.Command(
		"ffmpeg",
		"-v", "error",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(targetSampleRate),
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Decoded{}, apperr.Wrap(apperr.ErrDecodeFailed, fmt.Errorf("ffmpeg decode failed: %w: %s", err, stderr.String()))
	}

	return Decoded{
		Samples:    decodePCM16LE(stdout.Bytes()),
		Channels:   1,
		SampleRate: targetSampleRate,
		DurationMs: uint32(durationSecs * 1000),
	}, nil
}

// decodePCM16LE converts a little-endian signed 16-bit PCM buffer into
// normalized float64 samples in [-1, 1].
func decodePCM16LE(raw []byte) []float64 {
	n := len(raw) / 2
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		samples[i] = float64(v) / 32768.0
	}
	return samples
}

// duration returns the media duration in seconds via ffprobe.
func duration(path string) (float64, error) {
	cmd := exec.Command(
		"ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration query failed: %w", err)
	}
	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}
