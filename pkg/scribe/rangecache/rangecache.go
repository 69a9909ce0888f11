// Package rangecache implements the range cache : a
// per-node record of absolute location and preamble/children/text/postamble
// lengths, invariant-checked, plus the auxiliary decorator position cache.
package rangecache

import (
	"fmt"
	"sort"

	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/fenwick"
	"github.com/speier/scribe/pkg/scribe/order"
)

// Part identifies which length component of an entry is changing. It is a
// type alias for core.Part so the diff planner (which must emit PartDeltas
// on core.Tape without importing this package) and the applier (which feeds
// them back into the cache) agree on one enumeration.
type Part = core.Part

const (
	PartPre  = core.PartPre
	PartText = core.PartText
	PartPost = core.PartPost
)

// Entry is one node's absolute-location and part-length record.
type Entry struct {
	Location int

	PreambleLen        int
	ChildrenLen        int
	TextLen            int
	PostambleLen       int
	PreambleSpecialLen int
}

// EntireLen returns the sum of all four parts.
func (e Entry) EntireLen() int {
	return e.PreambleLen + e.ChildrenLen + e.TextLen + e.PostambleLen
}

// Cache is the map NodeKey -> Entry, the document-order vector/key-index,
// and the decorator position mirror.
type Cache struct {
	Entries   map[core.NodeKey]Entry
	Decorator map[core.NodeKey]int // decorator key -> cached location

	order *order.Order
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		Entries:   make(map[core.NodeKey]Entry),
		Decorator: make(map[core.NodeKey]int),
	}
}

// Get returns the entry for key, if present.
func (c *Cache) Get(key core.NodeKey) (Entry, bool) {
	e, ok := c.Entries[key]
	return e, ok
}

// Set inserts or replaces key's entry.
func (c *Cache) Set(key core.NodeKey, e Entry) {
	c.Entries[key] = e
}

// Delete removes key's entry (and any decorator mirror) — node-detach
// lifecycle.
func (c *Cache) Delete(key core.NodeKey) {
	delete(c.Entries, key)
	delete(c.Decorator, key)
}

// Order returns the last-built document-order index; callers must call
// RebuildOrder after any structural change before trusting it.
func (c *Cache) Order() *order.Order { return c.order }

// RebuildOrder recomputes the document-order vector and key-index from the
// current entries . O(n log n).
func (c *Cache) RebuildOrder() {
	entries := make([]order.Entry, 0, len(c.Entries))
	for k, e := range c.Entries {
		entries = append(entries, order.Entry{Key: k, Location: e.Location, EntireLen: e.EntireLen()})
	}
	c.order = order.Build(entries)
}

// ApplyLengthDelta updates key's Part length by delta and propagates
// ChildrenLen += delta up the ancestor chain, O(depth). parentOf must
// return the node's parent and ok=false at the root.
func (c *Cache) ApplyLengthDelta(key core.NodeKey, part Part, delta int, parentOf func(core.NodeKey) (core.NodeKey, bool)) {
	if delta == 0 {
		return
	}
	e := c.Entries[key]
	switch part {
	case PartPre:
		e.PreambleLen += delta
	case PartText:
		e.TextLen += delta
	case PartPost:
		e.PostambleLen += delta
	}
	c.Entries[key] = e

	cur := key
	for {
		parent, ok := parentOf(cur)
		if !ok {
			break
		}
		pe := c.Entries[parent]
		pe.ChildrenLen += delta
		c.Entries[parent] = pe
		cur = parent
	}
}

// ApplyChildrenLenDelta grows or shrinks key's own ChildrenLen by delta and
// propagates the same delta up key's ancestors: inserting or removing a
// child subtree under key changes key's entire_len, which means key's own
// parent's children_len must change by the
// same amount, and so on to the root. Use this for structural edits (insert,
// delete, multi-node replace); use ApplyLengthDelta for a node's own
// preamble/text/postamble edits.
func (c *Cache) ApplyChildrenLenDelta(key core.NodeKey, delta int, parentOf func(core.NodeKey) (core.NodeKey, bool)) {
	if delta == 0 {
		return
	}
	e := c.Entries[key]
	e.ChildrenLen += delta
	c.Entries[key] = e

	cur := key
	for {
		parent, ok := parentOf(cur)
		if !ok {
			break
		}
		pe := c.Entries[parent]
		pe.ChildrenLen += delta
		c.Entries[parent] = pe
		cur = parent
	}
}

// MergeEntries installs a freshly-composed subtree's entries (e.g. from an
// insert-block or full-rebuild classifier) into the cache, overwriting any
// prior entry for the same key.
func (c *Cache) MergeEntries(entries map[core.NodeKey]Entry) {
	for k, e := range entries {
		c.Entries[k] = e
	}
}

// LengthChange is one (key, part, delta) request for ApplyLengthDeltasBatch.
type LengthChange struct {
	Key   core.NodeKey
	Part  Part
	Delta int
}

// ApplyLengthDeltasBatch applies every change, accumulating ancestor
// propagation, and returns {startKey -> total delta} suitable for a
// range-add finalization pass.
func (c *Cache) ApplyLengthDeltasBatch(changes []LengthChange, parentOf func(core.NodeKey) (core.NodeKey, bool)) map[core.NodeKey]int {
	totals := make(map[core.NodeKey]int, len(changes))
	for _, ch := range changes {
		c.ApplyLengthDelta(ch.Key, ch.Part, ch.Delta, parentOf)
		totals[ch.Key] += ch.Delta
	}
	return totals
}

// ShiftRequest is a closed document-order interval to add Delta
// to, expressed via the 1-based index range [FromIndex, ToIndex] inclusive
// (ToIndex may exceed the order's length to mean "to the last index").
type ShiftRequest struct {
	FromIndex int
	ToIndex   int
	Delta     int
}

// ApplyIncrementalLocationShifts applies every shift via a difference-array
// pass over the current document order, clamping final locations to >= 0
// . The order must already be
// current (call RebuildOrder first if structure changed).
func (c *Cache) ApplyIncrementalLocationShifts(shifts []ShiftRequest) {
	if c.order == nil || c.order.Len() == 0 || len(shifts) == 0 {
		return
	}
	da := fenwick.NewDiffArray(c.order.Len())
	for _, s := range shifts {
		da.RangeAdd(s.FromIndex, s.ToIndex, s.Delta)
	}
	deltas := da.Finalize()
	for i, key := range c.order.Keys {
		if deltas[i] == 0 {
			continue
		}
		e := c.Entries[key]
		e.Location += deltas[i]
		if e.Location < 0 {
			e.Location = 0
		}
		c.Entries[key] = e
	}
}

// ApplyShiftAfterLocation shifts every node whose pre-mutation cached
// location is >= afterLoc by delta, using the last-built order vector to
// resolve afterLoc to an index via binary search. Call RebuildOrder first
// if the order predates this update.
func (c *Cache) ApplyShiftAfterLocation(afterLoc, delta int) {
	if delta == 0 || c.order == nil || c.order.Len() == 0 {
		return
	}
	keys := c.order.Keys
	from := sort.Search(len(keys), func(i int) bool {
		return c.Entries[keys[i]].Location >= afterLoc
	})
	if from >= len(keys) {
		return
	}
	c.ApplyIncrementalLocationShifts([]ShiftRequest{{FromIndex: from + 1, ToIndex: len(keys), Delta: delta}})
}

// PruneGlobally drops entries whose keys no longer exist in pending.
func (c *Cache) PruneGlobally(exists func(core.NodeKey) bool) {
	for k := range c.Entries {
		if !exists(k) {
			c.Delete(k)
		}
	}
}

// PruneUnderAncestor drops entries under ancestor's old subtree whose keys
// disappeared in pending . oldDescendants
// lists every key that was under ancestor in prev_state (including ancestor
// itself is NOT included by convention — callers decide whether to keep the
// ancestor's own entry).
func (c *Cache) PruneUnderAncestor(oldDescendants []core.NodeKey, existsInPending func(core.NodeKey) bool) {
	for _, k := range oldDescendants {
		if !existsInPending(k) {
			c.Delete(k)
		}
	}
}

// SetDecoratorPosition mirrors key's cached location into the decorator
// position cache.
func (c *Cache) SetDecoratorPosition(key core.NodeKey) {
	if e, ok := c.Entries[key]; ok {
		c.Decorator[key] = e.Location
	}
}

// RemoveDecoratorPosition drops key from the decorator mirror.
func (c *Cache) RemoveDecoratorPosition(key core.NodeKey) {
	delete(c.Decorator, key)
}

// Violation describes one invariant failure.
type Violation struct {
	Rule string
	Key  core.NodeKey
	Detail string
}

func (v Violation) Error() string {
	if v.Key != "" {
		return fmt.Sprintf("%s (key=%s): %s", v.Rule, v.Key, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
}

// VerifyInvariants checks the cache against its structural invariants
// given the pending state's tree shape and the buffer length.
// It returns every violation found (nil/empty means the cache is sound).
func (c *Cache) VerifyInvariants(childrenOf func(core.NodeKey) []core.NodeKey, existsInPending func(core.NodeKey) bool, bufferLen int) []Violation {
	var violations []Violation

	root, ok := c.Entries[core.Root]
	if !ok {
		violations = append(violations, Violation{Rule: "root-present", Detail: "root missing from range cache"})
	} else if root.EntireLen() != bufferLen {
		violations = append(violations, Violation{
			Rule: "root-entire-len-equals-buffer-length", Key: core.Root,
			Detail: fmt.Sprintf("root entire_len=%d buffer.length=%d", root.EntireLen(), bufferLen),
		})
	}

	for key, e := range c.Entries {
		if e.PreambleLen < 0 || e.ChildrenLen < 0 || e.TextLen < 0 || e.PostambleLen < 0 {
			violations = append(violations, Violation{Rule: "non-negative-parts", Key: key, Detail: "a part length is negative"})
		}
		if e.PreambleSpecialLen > e.PreambleLen {
			violations = append(violations, Violation{Rule: "special-prefix-le-preamble", Key: key,
				Detail: fmt.Sprintf("special=%d preamble=%d", e.PreambleSpecialLen, e.PreambleLen)})
		}

		children := childrenOf(key)
		if len(children) == 0 {
			continue
		}
		sumChildren := 0
		expectedLoc := e.Location + e.PreambleLen
		for _, child := range children {
			ce, ok := c.Entries[child]
			if !ok {
				violations = append(violations, Violation{Rule: "child-present", Key: child, Detail: "child missing from range cache"})
				continue
			}
			sumChildren += ce.EntireLen()
			if ce.Location != expectedLoc {
				violations = append(violations, Violation{Rule: "contiguous-children", Key: child,
					Detail: fmt.Sprintf("location=%d expected=%d", ce.Location, expectedLoc)})
			}
			expectedLoc += ce.EntireLen()
		}
		if sumChildren != e.ChildrenLen {
			violations = append(violations, Violation{Rule: "children-len-sum", Key: key,
				Detail: fmt.Sprintf("children_len=%d sum(children)=%d", e.ChildrenLen, sumChildren)})
		}
	}

	for key := range c.Entries {
		if !existsInPending(key) {
			violations = append(violations, Violation{Rule: "no-stale-keys", Key: key, Detail: "key not present in pending state"})
		}
	}

	if c.order != nil {
		loc := func(k core.NodeKey) int { return c.Entries[k].Location }
		entireLen := func(k core.NodeKey) int { return c.Entries[k].EntireLen() }
		if !order.Sorted(c.order.Keys, loc, entireLen) {
			violations = append(violations, Violation{Rule: "document-order-sorted", Detail: "order vector not sorted by (location asc, entire_len desc)"})
		}
	}

	for key, loc := range c.Decorator {
		e, ok := c.Entries[key]
		if !ok {
			violations = append(violations, Violation{Rule: "decorator-cache-subset", Key: key, Detail: "decorator key missing from range cache"})
			continue
		}
		if e.Location != loc {
			violations = append(violations, Violation{Rule: "decorator-cache-location", Key: key,
				Detail: fmt.Sprintf("cached=%d actual=%d", loc, e.Location)})
		}
	}

	sort.Slice(violations, func(i, j int) bool { return violations[i].Rule < violations[j].Rule })
	return violations
}
