package keyeddiff

import (
	"testing"

	"github.com/speier/scribe/pkg/scribe/core"
)

func keys(ss ...string) []core.NodeKey {
	out := make([]core.NodeKey, len(ss))
	for i, s := range ss {
		out[i] = core.NodeKey(s)
	}
	return out
}

// S4: reorder [k1,k2,k3,k4,k5] -> [k1,k3,k2,k5,k4].
func TestDiffS4KeyedReorder(t *testing.T) {
	prev := keys("k1", "k2", "k3", "k4", "k5")
	next := keys("k1", "k3", "k2", "k5", "k4")

	plan := Diff(prev, next, DefaultStabilityThreshold)
	if plan.RebuildRegion {
		t.Fatalf("expected minimal-move plan, got rebuild (ratio=%v)", plan.StableRatio)
	}
	// The LIS keeps three keys (k1 plus one key of each swapped pair); the
	// other key of each pair moves.
	if len(plan.Moves) < 2 {
		t.Errorf("expected at least 2 moves, got %d: %+v", len(plan.Moves), plan.Moves)
	}
	for _, m := range plan.Moves {
		if m.Key == "k1" {
			t.Errorf("k1 should be part of the LIS and not listed as a move")
		}
	}
}

func TestDiffIdenticalOrderIsNoMoves(t *testing.T) {
	prev := keys("a", "b", "c")
	next := keys("a", "b", "c")

	plan := Diff(prev, next, DefaultStabilityThreshold)
	if len(plan.Moves) != 0 {
		t.Errorf("expected zero moves for identical order, got %d", len(plan.Moves))
	}
	if plan.StableRatio != 1.0 {
		t.Errorf("expected StableRatio=1.0, got %v", plan.StableRatio)
	}
}

func TestDiffFullReverseAboveThresholdReportsMoves(t *testing.T) {
	// A full reversal has an LIS of length 1 out of 6 -> ratio ~0.16, which
	// clears the default 10% threshold, so it should still report moves
	// rather than a rebuild.
	prev := keys("a", "b", "c", "d", "e", "f")
	next := keys("f", "e", "d", "c", "b", "a")

	plan := Diff(prev, next, DefaultStabilityThreshold)
	if plan.RebuildRegion {
		t.Fatalf("expected moves, ratio=%v is above threshold", plan.StableRatio)
	}
	if len(plan.Moves) != 5 {
		t.Errorf("expected 5 moves (all but the LIS survivor), got %d", len(plan.Moves))
	}
}

func TestDiffBelowThresholdRebuilds(t *testing.T) {
	prev := keys("a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	next := keys("j", "i", "h", "g", "f", "e", "d", "c", "b", "a")

	// With 10 items, a full reversal's LIS length is 1 -> ratio 0.10, right
	// at the default threshold boundary; use a stricter threshold to force
	// the rebuild branch and exercise it.
	plan := Diff(prev, next, 0.5)
	if !plan.RebuildRegion {
		t.Errorf("expected rebuild at strict threshold, got moves plan with ratio=%v", plan.StableRatio)
	}
}

func TestDiffEmptyNextChildren(t *testing.T) {
	plan := Diff(keys("a"), keys(), DefaultStabilityThreshold)
	if plan.RebuildRegion || len(plan.Moves) != 0 {
		t.Errorf("expected empty plan for empty next children, got %+v", plan)
	}
}
