// Package emg holds the motor-unit decomposition container and its gzip JSON
// codec. The container is the external decomposition result: pulse trains,
// discharge times, the binary firing matrix and optional per-unit accuracy,
// all indexed by motor unit in a shared ordering.
package emg

import (
	"fmt"

	"github.com/hdsemg-data/motorunit.report/internal/monitoring"
)

// File is a motor-unit decomposition result. Per-unit fields are stored
// unit-major: one slice per motor unit, all sharing the same unit ordering.
// A File is treated as immutable by the analysis code; restructuring
// operations return a new File.
type File struct {
	Source       string      `json:"SOURCE,omitempty"`
	SampleRate   float64     `json:"FSAMP"`
	NumUnits     int         `json:"NUMBER_OF_MUS"`
	PulseTrains  [][]float64 `json:"IPTS"`
	Discharges   [][]float64 `json:"MUPULSES"`
	BinaryFiring [][]uint8   `json:"BINARY_MUS_FIRING"`
	Accuracy     []float64   `json:"ACCURACY,omitempty"`
	RefSignal    []float64   `json:"REF_SIGNAL,omitempty"`
	RawSignal    [][]float64 `json:"RAW_SIGNAL,omitempty"`
}

// UnitCount returns the declared motor-unit count, falling back to the
// pulse-train dimension when the count field is absent.
func (f *File) UnitCount() int {
	if f.NumUnits > 0 {
		return f.NumUnits
	}
	return len(f.PulseTrains)
}

// Validate checks the shared-ordering invariant: every per-unit field must
// have one entry per motor unit.
func (f *File) Validate() error {
	n := f.UnitCount()
	if len(f.PulseTrains) != n {
		return fmt.Errorf("IPTS has %d pulse trains, want %d", len(f.PulseTrains), n)
	}
	if len(f.Discharges) != n {
		return fmt.Errorf("MUPULSES has %d discharge arrays, want %d", len(f.Discharges), n)
	}
	if len(f.BinaryFiring) != n {
		return fmt.Errorf("BINARY_MUS_FIRING has %d firing vectors, want %d", len(f.BinaryFiring), n)
	}
	if f.Accuracy != nil && len(f.Accuracy) != n {
		return fmt.Errorf("ACCURACY has %d entries, want %d", len(f.Accuracy), n)
	}
	return nil
}

// Clone returns a deep, independent copy of the container.
func (f *File) Clone() *File {
	out := &File{
		Source:       f.Source,
		SampleRate:   f.SampleRate,
		NumUnits:     f.NumUnits,
		PulseTrains:  cloneMatrix(f.PulseTrains),
		Discharges:   cloneMatrix(f.Discharges),
		BinaryFiring: cloneByteMatrix(f.BinaryFiring),
		RawSignal:    cloneMatrix(f.RawSignal),
	}
	if f.Accuracy != nil {
		out.Accuracy = append([]float64(nil), f.Accuracy...)
	}
	if f.RefSignal != nil {
		out.RefSignal = append([]float64(nil), f.RefSignal...)
	}
	return out
}

// RemoveUnits returns a new container with the listed motor units removed
// and the remaining units re-indexed to [0, k) in their original relative
// order. The receiver is never mutated; an empty removal list yields a deep
// copy. Removing every unit is legal and logs a warning: the result has zero
// units but structurally valid (empty, non-nil) per-unit fields.
func (f *File) RemoveUnits(remove []int) (*File, error) {
	if len(remove) == 0 {
		return f.Clone(), nil
	}

	n := f.UnitCount()
	drop := make(map[int]bool, len(remove))
	for _, idx := range remove {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("cannot remove motor unit %d: index out of range [0, %d)", idx, n)
		}
		drop[idx] = true
	}

	keep := make([]int, 0, n-len(drop))
	for i := 0; i < n; i++ {
		if !drop[i] {
			keep = append(keep, i)
		}
	}

	if len(keep) == 0 {
		monitoring.Logf("all %d motor units removed from container", n)
	}

	out := &File{
		Source:       f.Source,
		SampleRate:   f.SampleRate,
		NumUnits:     len(keep),
		PulseTrains:  selectRows(f.PulseTrains, keep),
		Discharges:   selectRows(f.Discharges, keep),
		BinaryFiring: selectByteRows(f.BinaryFiring, keep),
		RawSignal:    cloneMatrix(f.RawSignal),
	}
	if f.Accuracy != nil && len(f.Accuracy) == n {
		out.Accuracy = make([]float64, 0, len(keep))
		for _, i := range keep {
			out.Accuracy = append(out.Accuracy, f.Accuracy[i])
		}
	}
	if f.RefSignal != nil {
		out.RefSignal = append([]float64(nil), f.RefSignal...)
	}
	return out, nil
}

func cloneMatrix(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func cloneByteMatrix(m [][]uint8) [][]uint8 {
	if m == nil {
		return nil
	}
	out := make([][]uint8, len(m))
	for i, row := range m {
		out[i] = append([]uint8(nil), row...)
	}
	return out
}

func selectRows(m [][]float64, keep []int) [][]float64 {
	out := make([][]float64, 0, len(keep))
	for _, i := range keep {
		var row []float64
		if i < len(m) {
			row = append([]float64(nil), m[i]...)
		}
		out = append(out, row)
	}
	return out
}

func selectByteRows(m [][]uint8, keep []int) [][]uint8 {
	out := make([][]uint8, 0, len(keep))
	for _, i := range keep {
		var row []uint8
		if i < len(m) {
			row = append([]uint8(nil), m[i]...)
		}
		out = append(out, row)
	}
	return out
}
