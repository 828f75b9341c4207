// Package covisi computes inter-spike-interval statistics for motor-unit
// decomposition results and filters motor-unit populations by their CoVISI
// (coefficient of variation of the inter-spike interval).
//
// CoVISI below 30% is the literature threshold for physiologically plausible
// motor units (Taleshi et al. 2025, J Appl Physiol 138:559-570). Values are
// percentages; an undefined statistic (too few discharges, zero-mean ISI) is
// represented as NaN and propagates as "unknown"/"removed" through
// classification and filtering.
package covisi

// DefaultThreshold is the literature-standard CoVISI filtering threshold in
// percent. Every entry point that uses a threshold takes it as a parameter;
// this constant is only the conventional default.
const DefaultThreshold = 30.0

// DefaultRecDerecFirings is the number of boundary firings considered at
// recruitment and derecruitment in auto mode.
const DefaultRecDerecFirings = 4

// Mode selects the temporal analysis window for a batch computation.
type Mode string

const (
	// ModeAuto analyses recruitment/derecruitment boundary firings plus the
	// whole contraction. No window parameters are required.
	ModeAuto Mode = "auto"

	// ModeSteady additionally analyses a user-selected steady-state window
	// given in seconds.
	ModeSteady Mode = "steady"
)

// Column names of a CoVISI table, matching the canonical lower-case scheme
// used in persisted reports.
const (
	ColumnRec    = "covisi_rec"
	ColumnDerec  = "covisi_derec"
	ColumnAll    = "covisi_all"
	ColumnSteady = "covisi_steady"
)

// Row holds the CoVISI statistics for one motor unit. Columns that were not
// computed for the requested mode, or that are numerically undefined, are
// NaN.
type Row struct {
	MUIndex int   `json:"mu_index"`
	Rec     Float `json:"covisi_rec"`
	Derec   Float `json:"covisi_derec"`
	All     Float `json:"covisi_all"`
	Steady  Float `json:"covisi_steady"`
}

// Table is a CoVISI report: one row per motor unit, ordered by MUIndex
// ascending with indices contiguous over [0, n).
type Table struct {
	Mode Mode  `json:"mode"`
	Rows []Row `json:"units"`
}

// Len returns the number of motor units in the table.
func (t *Table) Len() int { return len(t.Rows) }

// Value returns the named column's value for row i, NaN-safe.
func (t *Table) Value(column string, i int) (float64, error) {
	if i < 0 || i >= len(t.Rows) {
		return 0, errRowOutOfRange(i, len(t.Rows))
	}
	r := t.Rows[i]
	switch column {
	case ColumnRec:
		return float64(r.Rec), nil
	case ColumnDerec:
		return float64(r.Derec), nil
	case ColumnAll:
		return float64(r.All), nil
	case ColumnSteady:
		return float64(r.Steady), nil
	}
	return 0, errUnknownColumn(column)
}

// Column returns a copy of the named column over all rows.
func (t *Table) Column(column string) ([]float64, error) {
	out := make([]float64, len(t.Rows))
	for i := range t.Rows {
		v, err := t.Value(column, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
