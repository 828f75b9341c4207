package covisi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func filterTestTable() *Table {
	return &Table{Mode: ModeAuto, Rows: []Row{
		{MUIndex: 0, All: Float(10)},
		{MUIndex: 1, All: Float(45)},
		{MUIndex: 2, All: NaN()},
		{MUIndex: 3, All: Float(30)}, // exactly at threshold
	}}
}

func TestFilterUnits(t *testing.T) {
	res, err := FilterUnits(filterTestTable(), FilterOptions{Threshold: 30})
	if err != nil {
		t.Fatalf("FilterUnits: %v", err)
	}

	if diff := cmp.Diff([]int{0, 3}, res.Kept); diff != "" {
		t.Errorf("kept mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, res.Removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}

	for _, d := range res.Decisions {
		if d.ManualOverride {
			t.Errorf("unit %d marked as manual without overrides", d.MUIndex)
		}
	}
	if res.Decisions[2].Status != StatusRemoved {
		t.Error("undefined CoVISI must be removed")
	}
	if res.Decisions[3].Status != StatusKept {
		t.Error("value equal to the threshold must be kept")
	}
}

func TestFilterUnitsOverrides(t *testing.T) {
	res, err := FilterUnits(filterTestTable(), FilterOptions{
		Threshold: 30,
		Overrides: map[int]Override{
			0: OverrideFilter, // would pass the threshold
			2: OverrideKeep,   // undefined value, kept anyway
		},
	})
	if err != nil {
		t.Fatalf("FilterUnits: %v", err)
	}

	if diff := cmp.Diff([]int{2, 3}, res.Kept); diff != "" {
		t.Errorf("kept mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, res.Removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if !res.Decisions[0].ManualOverride || !res.Decisions[2].ManualOverride {
		t.Error("overridden units must be flagged as manual")
	}
	if res.Decisions[1].ManualOverride || res.Decisions[3].ManualOverride {
		t.Error("non-overridden units must not be flagged as manual")
	}
}

func TestFilterUnitsDeterministic(t *testing.T) {
	opts := FilterOptions{
		Threshold: 30,
		Overrides: map[int]Override{1: OverrideKeep},
	}

	first, err := FilterUnits(filterTestTable(), opts)
	if err != nil {
		t.Fatalf("FilterUnits: %v", err)
	}
	second, err := FilterUnits(filterTestTable(), opts)
	if err != nil {
		t.Fatalf("FilterUnits: %v", err)
	}
	equateNaNs := cmp.Comparer(func(a, b Float) bool {
		return a == b || (a.IsNaN() && b.IsNaN())
	})
	if diff := cmp.Diff(first, second, equateNaNs); diff != "" {
		t.Errorf("same input produced different results (-first +second):\n%s", diff)
	}
}

func TestFilterUnitsValidation(t *testing.T) {
	if _, err := FilterUnits(filterTestTable(), FilterOptions{Threshold: 30, Column: ColumnRec}); err == nil {
		t.Error("filtering on a boundary column must be rejected")
	}
	if _, err := FilterUnits(filterTestTable(), FilterOptions{
		Threshold: 30,
		Overrides: map[int]Override{0: "Maybe"},
	}); err == nil {
		t.Error("unknown override value must be rejected")
	}
}

func TestFilterUnitsSteadyColumn(t *testing.T) {
	table := &Table{Mode: ModeSteady, Rows: []Row{
		{MUIndex: 0, All: Float(80), Steady: Float(10)},
		{MUIndex: 1, All: Float(5), Steady: Float(90)},
	}}

	res, err := FilterUnits(table, FilterOptions{Threshold: 30, Column: ColumnSteady})
	if err != nil {
		t.Fatalf("FilterUnits: %v", err)
	}
	if diff := cmp.Diff([]int{0}, res.Kept); diff != "" {
		t.Errorf("kept mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterResultReport(t *testing.T) {
	res, err := FilterUnits(filterTestTable(), FilterOptions{Threshold: 30})
	if err != nil {
		t.Fatalf("FilterUnits: %v", err)
	}

	rep := res.Report(30)
	if rep.OriginalMUCount != 4 || rep.FilteredMUCount != 2 || rep.RemovedCount != 2 {
		t.Fatalf("counts wrong: %+v", rep)
	}
	if rep.ThresholdUsed != 30 {
		t.Fatalf("threshold = %v", rep.ThresholdUsed)
	}
	if diff := cmp.Diff([]int{1, 2}, rep.RemovedMUIndices); diff != "" {
		t.Errorf("removed indices mismatch (-want +got):\n%s", diff)
	}
	if len(rep.CoVISIValues) != 4 {
		t.Fatalf("covisi_values has %d entries, want 4", len(rep.CoVISIValues))
	}
	if v := rep.CoVISIValues[1]; float64(v) != 45 {
		t.Fatalf("covisi_values[1] = %v", float64(v))
	}
	if !rep.CoVISIValues[2].IsNaN() {
		t.Fatal("covisi_values[2] should carry the undefined value")
	}
}

func TestFilterContainer(t *testing.T) {
	f := testContainer(2048,
		[]float64{0, 10, 20, 30},       // regular, kept
		[]float64{0, 10, 100, 110, 300}, // irregular, removed
		[]float64{0, 50, 100, 150},     // regular, kept
	)

	filtered, res, err := FilterContainer(f, Options{}, FilterOptions{Threshold: 30})
	if err != nil {
		t.Fatalf("FilterContainer: %v", err)
	}

	if diff := cmp.Diff([]int{1}, res.Removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if filtered.UnitCount() != 2 {
		t.Fatalf("filtered container has %d units, want 2", filtered.UnitCount())
	}
	// Survivors keep their data and move down to fill the gap.
	if diff := cmp.Diff([]float64{0, 50, 100, 150}, filtered.Discharges[1]); diff != "" {
		t.Errorf("re-indexed unit mismatch (-want +got):\n%s", diff)
	}
	// The input container is untouched.
	if f.UnitCount() != 3 {
		t.Fatalf("input container mutated: %d units", f.UnitCount())
	}
}

func TestFilterContainerAllRemoved(t *testing.T) {
	f := testContainer(2048,
		[]float64{0, 10, 100, 110, 300},
	)

	filtered, res, err := FilterContainer(f, Options{}, FilterOptions{Threshold: 1})
	if err != nil {
		t.Fatalf("FilterContainer: %v", err)
	}
	if len(res.Kept) != 0 {
		t.Fatalf("kept = %v, want none", res.Kept)
	}
	if filtered.UnitCount() != 0 {
		t.Fatalf("filtered container has %d units, want 0", filtered.UnitCount())
	}
	if filtered.Discharges == nil || filtered.PulseTrains == nil {
		t.Fatal("emptied container must keep non-nil per-unit fields")
	}
}
