package covisi

import (
	"fmt"

	"github.com/hdsemg-data/motorunit.report/internal/emg"
	"github.com/hdsemg-data/motorunit.report/internal/units"
)

// Options configures a batch CoVISI computation over a decomposition
// container.
type Options struct {
	// Mode selects the analysis window; the zero value means ModeAuto.
	Mode Mode

	// NFiringsRecDerec is the number of boundary firings considered at
	// recruitment and derecruitment. Zero or negative means
	// DefaultRecDerecFirings.
	NFiringsRecDerec int

	// StartSteady and EndSteady bound the steady-state window in seconds.
	// Required (start < end) in ModeSteady, ignored otherwise.
	StartSteady float64
	EndSteady   float64
}

// ComputeAll computes CoVISI statistics for every motor unit in a
// decomposition container. The returned table has one row per unit,
// MUIndex ascending and contiguous over [0, n).
//
// In auto mode each row carries recruitment, derecruitment and
// whole-contraction values; steady mode additionally computes the
// steady-state window, which requires a valid sampling rate and
// StartSteady < EndSteady. Configuration errors are reported before any
// per-unit computation.
func ComputeAll(f *emg.File, opts Options) (*Table, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}
	if mode != ModeAuto && mode != ModeSteady {
		return nil, fmt.Errorf("unknown CoVISI analysis mode %q", mode)
	}

	n := f.UnitCount()
	if n == 0 {
		return nil, fmt.Errorf("decomposition container has no motor units")
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("decomposition container: %w", err)
	}

	nFirings := opts.NFiringsRecDerec
	if nFirings <= 0 {
		nFirings = DefaultRecDerecFirings
	}

	var startSample, endSample int
	if mode == ModeSteady {
		if opts.StartSteady >= opts.EndSteady {
			return nil, fmt.Errorf("steady-state window invalid: start %.3fs must be before end %.3fs",
				opts.StartSteady, opts.EndSteady)
		}
		if err := units.ValidateSampleRate(f.SampleRate); err != nil {
			return nil, fmt.Errorf("steady-state window: %w", err)
		}
		startSample = units.SecondsToSample(opts.StartSteady, f.SampleRate)
		endSample = units.SecondsToSample(opts.EndSteady, f.SampleRate)
	}

	t := &Table{Mode: mode, Rows: make([]Row, 0, n)}
	for i := 0; i < n; i++ {
		sorted := sortedCopy(f.Discharges[i])
		row := Row{
			MUIndex: i,
			Rec:     Float(recruitmentCoVISI(sorted, nFirings)),
			Derec:   Float(derecruitmentCoVISI(sorted, nFirings)),
			All:     Float(CoVISI(sorted)),
			Steady:  NaN(),
		}
		if mode == ModeSteady {
			row.Steady = Float(steadyCoVISI(sorted, startSample, endSample))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ComputeFromDischargeTimes computes whole-contraction CoVISI directly from
// per-unit discharge-time arrays, without a full container. It is the code
// path for manually-edited results where only cleaned discharge times exist.
// A nil or too-short entry yields an undefined (NaN) row. Only the
// covisi_all column is computed.
func ComputeFromDischargeTimes(discharges [][]float64) *Table {
	t := &Table{Mode: ModeAuto, Rows: make([]Row, 0, len(discharges))}
	for i, d := range discharges {
		t.Rows = append(t.Rows, Row{
			MUIndex: i,
			Rec:     NaN(),
			Derec:   NaN(),
			All:     Float(CoVISI(d)),
			Steady:  NaN(),
		})
	}
	return t
}
