package audio

import (
	"encoding/binary"
	"math"
)

// DefaultLevelGain scales RMS so that normal speech fills the 0..100 range
const DefaultLevelGain = 5.0

// Loudness derives a 0..100 level from a chunk of 16-bit little endian samples.
// The value is gain*100*rms/32768, truncated and clamped.
func Loudness(chunk []byte, gain float64) int {
	n := len(chunk) / 2
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(chunk[2*i:])))
		sum += s * s
	}
	rms := math.Sqrt(sum / float64(n))

	level := int(gain * 100 * rms / 32768)
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// SilenceDetector counts consecutive quiet chunks
type SilenceDetector struct {
	Threshold int // levels below this are quiet
	Limit     int // quiet chunks until Observe reports silence

	count int
}

// NewSilenceDetector creates a detector
func NewSilenceDetector(threshold, limit int) *SilenceDetector {
	return &SilenceDetector{Threshold: threshold, Limit: limit}
}

// Observe feeds one level. It returns true exactly when the run of quiet
// chunks reaches Limit, then starts counting again.
func (d *SilenceDetector) Observe(level int) bool {
	if level >= d.Threshold {
		d.count = 0
		return false
	}
	d.count++
	if d.Limit > 0 && d.count >= d.Limit {
		d.count = 0
		return true
	}
	return false
}

// Reset clears the quiet run
func (d *SilenceDetector) Reset() {
	d.count = 0
}
