// Package keyeddiff implements the LIS-based minimal-move planner for
// sibling reorders : given the same set of child keys under
// one parent in a new order, find the longest run of children that can stay
// in place and report the rest as moves, or signal that the caller should
// fall back to a full region rebuild above a density threshold.
package keyeddiff

import "github.com/speier/scribe/pkg/scribe/core"

// Move is one non-LIS child that must be deleted from its old position and
// reinserted at its new one.
type Move struct {
	Key      core.NodeKey
	FromIdx  int // index within prevChildren
	ToIdx    int // index within nextChildren
}

// Plan is the result of Diff: either a minimal set of moves, or a signal
// that the region should be rebuilt wholesale.
type Plan struct {
	Moves        []Move
	RebuildRegion bool
	StableRatio  float64
}

// DefaultStabilityThreshold is the default keyed-reorder cutoff: below this
// fraction of children remaining in place, a full region rebuild is cheaper
// than patching around the moves.
const DefaultStabilityThreshold = 0.10

// Diff compares prevChildren and nextChildren, which MUST contain the same
// set of keys (insertions/removals are the caller's job to detect and route
// to the insert/delete-block or slow-path classifiers instead). threshold
// is the configurable stability_threshold; pass DefaultStabilityThreshold
// absent other configuration.
func Diff(prevChildren, nextChildren []core.NodeKey, threshold float64) Plan {
	n := len(nextChildren)
	if n == 0 {
		return Plan{}
	}

	indexInPrev := make(map[core.NodeKey]int, len(prevChildren))
	for i, k := range prevChildren {
		indexInPrev[k] = i
	}

	// S: nextChildren mapped through indexInPrev.
	s := make([]int, n)
	for i, k := range nextChildren {
		s[i] = indexInPrev[k]
	}

	lisPositions := longestIncreasingSubsequence(s) // positions (into nextChildren) that form the LIS
	stableRatio := float64(len(lisPositions)) / float64(n)

	if stableRatio < threshold {
		return Plan{RebuildRegion: true, StableRatio: stableRatio}
	}

	inLIS := make([]bool, n)
	for _, p := range lisPositions {
		inLIS[p] = true
	}

	var moves []Move
	for i, k := range nextChildren {
		if inLIS[i] {
			continue
		}
		moves = append(moves, Move{Key: k, FromIdx: indexInPrev[k], ToIdx: i})
	}

	return Plan{Moves: moves, StableRatio: stableRatio}
}

// longestIncreasingSubsequence returns the index positions (into s) of one
// longest strictly-increasing subsequence, via patience sort with parent
// pointers — O(k log k).
func longestIncreasingSubsequence(s []int) []int {
	n := len(s)
	if n == 0 {
		return nil
	}

	// tails[len-1] = index into s of the smallest tail value for an
	// increasing subsequence of that length.
	tails := make([]int, 0, n)
	parent := make([]int, n)

	for i, v := range s {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if s[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			parent[i] = tails[lo-1]
		} else {
			parent[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	if len(tails) == 0 {
		return nil
	}

	result := make([]int, len(tails))
	k := tails[len(tails)-1]
	for i := len(tails) - 1; i >= 0; i-- {
		result[i] = k
		k = parent[k]
	}
	return result
}
