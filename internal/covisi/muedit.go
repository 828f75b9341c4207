package covisi

import (
	"fmt"

	"github.com/hdsemg-data/motorunit.report/internal/muedit"
)

// ComputeFromMUEdit extracts the cleaned discharge times from a
// manually-edited container and computes whole-contraction CoVISI per unit.
// Structural problems in the container abort the computation; a unit whose
// entry could not be dereferenced yields an undefined (NaN) row.
func ComputeFromMUEdit(f muedit.File) (*Table, error) {
	discharges, err := muedit.CleanedDischargeTimes(f)
	if err != nil {
		return nil, fmt.Errorf("cleaned discharge times: %w", err)
	}
	return ComputeFromDischargeTimes(discharges), nil
}
