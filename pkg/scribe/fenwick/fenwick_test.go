package fenwick

import "testing"

func TestPointAddPrefixSum(t *testing.T) {
	tr := New(10)
	tr.PointAdd(3, 5)
	tr.PointAdd(7, -2)

	if got := tr.PrefixSum(2); got != 0 {
		t.Errorf("PrefixSum(2) = %d, want 0", got)
	}
	if got := tr.PrefixSum(3); got != 5 {
		t.Errorf("PrefixSum(3) = %d, want 5", got)
	}
	if got := tr.PrefixSum(6); got != 5 {
		t.Errorf("PrefixSum(6) = %d, want 5", got)
	}
	if got := tr.PrefixSum(10); got != 3 {
		t.Errorf("PrefixSum(10) = %d, want 3", got)
	}
}

func TestRangeAdd(t *testing.T) {
	tr := New(5)
	tr.RangeAdd(2, 4, 10)

	want := []int{0, 10, 10, 10, 0}
	for i := 1; i <= 5; i++ {
		// RangeAdd stores a difference series, so PrefixSum(i) is the
		// accumulated delta at position i.
		got := tr.PrefixSum(i)
		if got != want[i-1] {
			t.Errorf("delta at %d = %d, want %d", i, got, want[i-1])
		}
	}
}

func TestRangeAddOpenEnded(t *testing.T) {
	tr := New(5)
	tr.RangeAdd(3, tr.Len()+100, 7) // "to the end"

	for i := 1; i <= 2; i++ {
		if got := tr.PrefixSum(i); got != 0 {
			t.Errorf("PrefixSum(%d) = %d, want 0", i, got)
		}
	}
	for i := 3; i <= 5; i++ {
		if got := tr.PrefixSum(i) - tr.PrefixSum(2); got != 7 {
			t.Errorf("shift at %d = %d, want 7", i, got)
		}
	}
}

func TestRebuildFromDeltas(t *testing.T) {
	tr := RebuildFromDeltas([]int{1, 0, 2, 0, -3})
	if got := tr.PrefixSum(5); got != 0 {
		t.Errorf("PrefixSum(5) = %d, want 0", got)
	}
	if got := tr.PrefixSum(3); got != 3 {
		t.Errorf("PrefixSum(3) = %d, want 3", got)
	}
}

func TestDiffArrayEquivalence(t *testing.T) {
	tr := New(8)
	tr.RangeAdd(2, 5, 3)
	tr.RangeAdd(4, 8, -1)

	da := NewDiffArray(8)
	da.RangeAdd(2, 5, 3)
	da.RangeAdd(4, 8, -1)
	finalized := da.Finalize()

	for i := 1; i <= 8; i++ {
		bitDelta := tr.PrefixSum(i)
		if bitDelta != finalized[i-1] {
			t.Errorf("position %d: BIT=%d diffArray=%d, want equal", i, bitDelta, finalized[i-1])
		}
	}
}

func TestDiffArrayOpenEnded(t *testing.T) {
	da := NewDiffArray(4)
	da.RangeAdd(2, 1000, 5)
	got := da.Finalize()
	want := []int{0, 5, 5, 5}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("position %d = %d, want %d", i+1, got[i], w)
		}
	}
}
