package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestDecodePCM16LERoundTrip(t *testing.T) {
	values := []int16{0, 32767, -32768, 16384, -16384}
	raw := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}

	samples := decodePCM16LE(raw)
	if len(samples) != len(values) {
		t.Fatalf("expected %d samples, got %d", len(values), len(samples))
	}
	for i, v := range values {
		want := float64(v) / 32768.0
		if math.Abs(samples[i]-want) > 1e-12 {
			t.Errorf("sample %d = %f, want %f", i, samples[i], want)
		}
	}
}

func TestDecodePCM16LEEmpty(t *testing.T) {
	if samples := decodePCM16LE(nil); len(samples) != 0 {
		t.Errorf("expected no samples from empty input, got %d", len(samples))
	}
}

func TestDecodePCM16LEOddByteTrailingDropped(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	samples := decodePCM16LE(raw)
	if len(samples) != 1 {
		t.Errorf("expected trailing odd byte to be dropped, got %d samples", len(samples))
	}
}
