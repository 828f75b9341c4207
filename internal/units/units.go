// Package units converts between recording time in seconds and discharge
// sample indices, given a sampling rate.
package units

import (
	"fmt"
	"math"
)

// SecondsToSample converts a time in seconds to the nearest sample index at
// the given sampling rate (Hz).
func SecondsToSample(seconds, sampleRate float64) int {
	return int(math.Round(seconds * sampleRate))
}

// SampleToSeconds converts a sample index back to seconds at the given
// sampling rate (Hz).
func SampleToSeconds(sample, sampleRate float64) float64 {
	if sampleRate == 0 {
		return 0
	}
	return sample / sampleRate
}

// ValidateSampleRate returns an error unless rate is a positive, finite
// frequency in Hz.
func ValidateSampleRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("sampling rate must be a positive frequency in Hz, got %v", rate)
	}
	return nil
}

// FormatRate renders a sampling rate for logs and chart subtitles,
// e.g. "2048 Hz".
func FormatRate(rate float64) string {
	if rate == math.Trunc(rate) {
		return fmt.Sprintf("%.0f Hz", rate)
	}
	return fmt.Sprintf("%.2f Hz", rate)
}
