// Package muedit extracts cleaned motor-unit discharge times from the
// hierarchical container written by an external manual-cleaning tool.
//
// The container is a MAT v7.3 (HDF5) file; parsing that binary format is out
// of scope here, so the package consumes a narrow read-only view of it. The
// cleaned discharge times live in a cell array under edition/Distimeclean,
// one entry per motor unit (possibly behind object references), with 1-based
// sample indices.
package muedit

import (
	"fmt"

	"github.com/hdsemg-data/motorunit.report/internal/monitoring"
)

// Path components of the cleaned discharge times inside the container.
const (
	editionGroup     = "edition"
	distimeCleanPath = "edition/Distimeclean"
)

// File is a read-only view of a hierarchical MAT container.
type File interface {
	// Name identifies the container in error messages, typically the file
	// path.
	Name() string

	// Exists reports whether a group or dataset exists at the
	// slash-separated path.
	Exists(path string) bool

	// Dataset resolves the dataset at the slash-separated path.
	Dataset(path string) (Dataset, error)
}

// Dataset is one dataset inside a File. For cell arrays of references, Cell
// follows the reference and returns the flattened numeric payload.
type Dataset interface {
	// Dims returns the dataset's dimensions.
	Dims() []int

	// Cell returns the numeric payload at the given coordinates; the number
	// of coordinates must match the dataset rank.
	Cell(coords ...int) ([]float64, error)
}

// CleanedDischargeTimes locates the cleaned discharge-time structure,
// dereferences each motor unit's entry and converts the 1-based sample
// indices to 0-based. A per-unit dereference failure does not abort the
// batch: the unit's entry is nil (undefined downstream) and a warning is
// logged. A missing group or unexpected layout aborts with a descriptive
// error.
//
// The tool stores the structure as a (grids x units) cell array; only the
// first grid is read. A one-dimensional layout (single grid) is also
// accepted.
func CleanedDischargeTimes(f File) ([][]float64, error) {
	if !f.Exists(editionGroup) {
		return nil, fmt.Errorf("no %q group found in %s", editionGroup, f.Name())
	}
	if !f.Exists(distimeCleanPath) {
		return nil, fmt.Errorf("no 'Distimeclean' found in %s group of %s", editionGroup, f.Name())
	}

	ds, err := f.Dataset(distimeCleanPath)
	if err != nil {
		return nil, fmt.Errorf("open %s in %s: %w", distimeCleanPath, f.Name(), err)
	}

	dims := ds.Dims()
	switch len(dims) {
	case 2:
		nMUs := dims[1]
		discharges := make([][]float64, 0, nMUs)
		for mu := 0; mu < nMUs; mu++ {
			discharges = append(discharges, readUnit(f, ds, mu, 0, mu))
		}
		return discharges, nil
	case 1:
		nMUs := dims[0]
		discharges := make([][]float64, 0, nMUs)
		for mu := 0; mu < nMUs; mu++ {
			discharges = append(discharges, readUnit(f, ds, mu, mu))
		}
		return discharges, nil
	}
	return nil, fmt.Errorf("unexpected Distimeclean rank %d in %s", len(dims), f.Name())
}

// readUnit dereferences one unit's cell and rebases the sample indices to
// 0-based. On failure the unit is undefined (nil) rather than fatal.
func readUnit(f File, ds Dataset, mu int, coords ...int) []float64 {
	data, err := ds.Cell(coords...)
	if err != nil {
		monitoring.Logf("motor unit %d: cannot read cleaned discharge times from %s: %v", mu, f.Name(), err)
		return nil
	}

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - 1
	}
	return out
}
