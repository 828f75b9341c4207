package covisi

import (
	"math"
	"testing"
)

func tableOf(values ...float64) *Table {
	t := &Table{Mode: ModeAuto}
	for i, v := range values {
		t.Rows = append(t.Rows, Row{
			MUIndex: i,
			Rec:     NaN(),
			Derec:   NaN(),
			All:     Float(v),
			Steady:  NaN(),
		})
	}
	return t
}

func TestCompare(t *testing.T) {
	pre := tableOf(40, 36)
	post := tableOf(30, 33)

	cmp := Compare(pre, post, 30)

	if cmp.PreMUCount != 2 || cmp.PostMUCount != 2 || cmp.MUsRemoved != 0 {
		t.Fatalf("counts wrong: %+v", cmp)
	}
	if len(cmp.Details) != 2 {
		t.Fatalf("details len = %d, want 2", len(cmp.Details))
	}

	// (40-30)/40 and (36-33)/36, in percent.
	wantImprovements := []float64{25.0, 8.3333}
	for i, want := range wantImprovements {
		got := float64(cmp.Details[i].ImprovementPercent)
		if math.Abs(got-want) > 1e-3 {
			t.Errorf("unit %d improvement = %v, want %v", i, got, want)
		}
	}

	// Unit 1 still sits above the threshold after cleaning; unit 0 is exactly
	// at it and does not exceed.
	if len(cmp.MUsExceedingThreshold) != 1 || cmp.MUsExceedingThreshold[0] != 1 {
		t.Fatalf("exceeding = %v, want [1]", cmp.MUsExceedingThreshold)
	}
	if cmp.Details[0].ExceedsThreshold || !cmp.Details[1].ExceedsThreshold {
		t.Fatalf("per-unit exceeds flags wrong: %+v", cmp.Details)
	}

	if cmp.AvgCoVISIPre == nil || math.Abs(*cmp.AvgCoVISIPre-38) > 1e-9 {
		t.Fatalf("avg pre = %v, want 38", cmp.AvgCoVISIPre)
	}
	if cmp.AvgCoVISIPost == nil || math.Abs(*cmp.AvgCoVISIPost-31.5) > 1e-9 {
		t.Fatalf("avg post = %v, want 31.5", cmp.AvgCoVISIPost)
	}
	if cmp.AvgImprovementPercent == nil || math.Abs(*cmp.AvgImprovementPercent-16.6667) > 1e-3 {
		t.Fatalf("avg improvement = %v, want 16.667", cmp.AvgImprovementPercent)
	}
}

func TestCompareShorterPost(t *testing.T) {
	pre := tableOf(40, 36, 55)
	post := tableOf(30, 33)

	cmp := Compare(pre, post, 30)

	if cmp.MUsRemoved != 1 {
		t.Fatalf("mus_removed = %d, want 1", cmp.MUsRemoved)
	}
	if len(cmp.Details) != 2 {
		t.Fatalf("details aligned over %d units, want 2", len(cmp.Details))
	}
}

func TestCompareGrownPost(t *testing.T) {
	// A post table larger than pre is reported as-is, not clamped.
	cmp := Compare(tableOf(40), tableOf(30, 33), 30)
	if cmp.MUsRemoved != -1 {
		t.Fatalf("mus_removed = %d, want -1", cmp.MUsRemoved)
	}
}

func TestCompareUndefinedValues(t *testing.T) {
	pre := tableOf(math.NaN(), 0, 40)
	post := tableOf(35, 20, 20)

	cmp := Compare(pre, post, 30)

	// NaN pre and zero pre leave the improvement undefined.
	if !cmp.Details[0].ImprovementPercent.IsNaN() {
		t.Error("improvement with NaN pre should be undefined")
	}
	if !cmp.Details[1].ImprovementPercent.IsNaN() {
		t.Error("improvement with zero pre should be undefined")
	}
	if cmp.AvgImprovementPercent == nil || math.Abs(*cmp.AvgImprovementPercent-50) > 1e-9 {
		t.Fatalf("avg improvement = %v, want 50 from the single defined pair", cmp.AvgImprovementPercent)
	}

	// The NaN pre value is excluded from the pre mean.
	if cmp.AvgCoVISIPre == nil || math.Abs(*cmp.AvgCoVISIPre-20) > 1e-9 {
		t.Fatalf("avg pre = %v, want 20", cmp.AvgCoVISIPre)
	}

	// A unit whose post value is undefined cannot exceed the threshold.
	cmp = Compare(tableOf(40), tableOf(math.NaN()), 30)
	if len(cmp.MUsExceedingThreshold) != 0 {
		t.Fatalf("exceeding = %v, want none for undefined post", cmp.MUsExceedingThreshold)
	}
}

func TestCompareAllUndefined(t *testing.T) {
	cmp := Compare(tableOf(math.NaN()), tableOf(math.NaN()), 30)
	if cmp.AvgCoVISIPre != nil || cmp.AvgCoVISIPost != nil || cmp.AvgImprovementPercent != nil {
		t.Fatalf("aggregates over all-undefined tables must be nil: %+v", cmp)
	}
}
