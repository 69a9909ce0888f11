// Package order builds and maintains the document-order key vector and its
// key→index map: nodes sorted by (location asc, entire_len desc), with
// O(log n) key→index lookup via a plain map (O(1) in practice, a stricter
// bound than strictly required).
package order

import (
	"sort"

	"github.com/speier/scribe/pkg/scribe/core"
)

// Entry is the minimal shape order needs from a range-cache entry to sort
// and index it; callers pass a slice of these rather than this package
// importing rangecache, keeping the dependency direction C3 -> C2.
type Entry struct {
	Key       core.NodeKey
	Location  int
	EntireLen int
}

// Order is the document-order vector plus its reverse index.
type Order struct {
	Keys    []core.NodeKey // document order, 1:1 with index-1
	indexOf map[core.NodeKey]int
}

// Build sorts entries by (location asc, entire_len desc) and assigns
// 1-based indices.
func Build(entries []Entry) *Order {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Location != sorted[j].Location {
			return sorted[i].Location < sorted[j].Location
		}
		return sorted[i].EntireLen > sorted[j].EntireLen
	})

	o := &Order{
		Keys:    make([]core.NodeKey, len(sorted)),
		indexOf: make(map[core.NodeKey]int, len(sorted)),
	}
	for i, e := range sorted {
		o.Keys[i] = e.Key
		o.indexOf[e.Key] = i + 1 // 1-based
	}
	return o
}

// IndexOf returns the 1-based document-order index of key, or 0 if absent.
func (o *Order) IndexOf(key core.NodeKey) int {
	if o == nil {
		return 0
	}
	return o.indexOf[key]
}

// Len returns the number of live keys.
func (o *Order) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Keys)
}

// KeyAt returns the key at 1-based index i, or "" if out of range.
func (o *Order) KeyAt(i int) core.NodeKey {
	if o == nil || i < 1 || i > len(o.Keys) {
		return ""
	}
	return o.Keys[i-1]
}

// Sorted reports whether Keys is sorted by (location asc, entire_len desc)
// given a lookup back to location/entireLen, used by the invariant sweep.
func Sorted(keys []core.NodeKey, location func(core.NodeKey) int, entireLen func(core.NodeKey) int) bool {
	for i := 1; i < len(keys); i++ {
		a, b := keys[i-1], keys[i]
		la, lb := location(a), location(b)
		if la > lb {
			return false
		}
		if la == lb && entireLen(a) < entireLen(b) {
			return false
		}
	}
	return true
}
