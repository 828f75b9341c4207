package muedit

import "fmt"

// MapFile is an in-memory File implementation. It backs tests and callers
// that have already decoded a container with external tooling.
type MapFile struct {
	// FileName is reported by Name.
	FileName string

	// Datasets maps slash-separated paths to datasets. A group "exists" when
	// any dataset path starts with it.
	Datasets map[string]*MapDataset
}

// MapDataset is an in-memory Dataset. Cells are stored row-major; a nil cell
// simulates a dangling object reference.
type MapDataset struct {
	Shape []int
	Cells [][]float64
}

// Name implements File.
func (m *MapFile) Name() string { return m.FileName }

// Exists implements File.
func (m *MapFile) Exists(path string) bool {
	if _, ok := m.Datasets[path]; ok {
		return true
	}
	prefix := path + "/"
	for p := range m.Datasets {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// Dataset implements File.
func (m *MapFile) Dataset(path string) (Dataset, error) {
	ds, ok := m.Datasets[path]
	if !ok {
		return nil, fmt.Errorf("no dataset at %q", path)
	}
	return ds, nil
}

// Dims implements Dataset.
func (d *MapDataset) Dims() []int { return d.Shape }

// Cell implements Dataset.
func (d *MapDataset) Cell(coords ...int) ([]float64, error) {
	if len(coords) != len(d.Shape) {
		return nil, fmt.Errorf("got %d coordinates for rank-%d dataset", len(coords), len(d.Shape))
	}

	idx := 0
	for i, c := range coords {
		if c < 0 || c >= d.Shape[i] {
			return nil, fmt.Errorf("coordinate %d out of range [0, %d)", c, d.Shape[i])
		}
		idx = idx*d.Shape[i] + c
	}
	if idx >= len(d.Cells) {
		return nil, fmt.Errorf("cell %v missing", coords)
	}
	if d.Cells[idx] == nil {
		return nil, fmt.Errorf("cell %v holds a dangling reference", coords)
	}

	out := make([]float64, len(d.Cells[idx]))
	copy(out, d.Cells[idx])
	return out, nil
}
