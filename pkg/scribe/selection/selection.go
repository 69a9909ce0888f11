// Package selection implements C7: mapping a logical Point (node key +
// offset + side) to and from an absolute buffer location, and carrying a
// selection across a reconcile cycle using the same tape the applier
// executed.
package selection

import (
	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/rangecache"
)

// Mapper resolves Points against one (cache, state) snapshot. It must be
// rebuilt (or re-pointed) after every reconcile — it is a view over the
// current cache, not a copy.
type Mapper struct {
	cache *rangecache.Cache
	src   core.NodeSource
}

// NewMapper returns a Mapper over cache and src. Both must describe the
// same state.
func NewMapper(cache *rangecache.Cache, src core.NodeSource) *Mapper {
	return &Mapper{cache: cache, src: src}
}

// ToLocation resolves p to an absolute UTF-16-code-unit location.
// SideText indexes into the node's own text/pre/post
// span; SideElement indexes into its children (offset == len(children)
// means "after the last child").
func (m *Mapper) ToLocation(p core.Point) (int, error) {
	entry, ok := m.cache.Get(p.Key)
	if !ok {
		return 0, core.PointMappingFailure(p)
	}

	if p.Side == core.SideElement {
		children := m.src.Children(p.Key)
		if p.Offset < 0 || p.Offset > len(children) {
			return 0, core.PointMappingFailure(p)
		}
		loc := entry.Location + entry.PreambleLen
		for i := 0; i < p.Offset; i++ {
			ce, ok := m.cache.Get(children[i])
			if !ok {
				return 0, core.PointMappingFailure(p)
			}
			loc += ce.EntireLen()
		}
		return loc, nil
	}

	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > entry.TextLen {
		offset = entry.TextLen
	}
	return entry.Location + entry.PreambleLen + offset, nil
}

// FromLocation resolves an absolute location to the innermost leaf Point
// covering it, or the enclosing Element/offset if loc falls between
// children or inside a preamble/postamble.
// It scans every cached entry, preferring the entry with the smallest
// entire_len that contains loc (the order vector's (location asc,
// entire_len desc) ordering already puts ancestors before descendants at
// the same location, but a full containment scan is simplest and this
// reference cache is not large enough for the O(log n) variant to matter).
func (m *Mapper) FromLocation(loc int) (core.Point, error) {
	var bestLeaf core.NodeKey
	bestLeafLen := -1
	var bestElem core.NodeKey
	bestElemLen := -1

	for key, e := range m.cache.Entries {
		if loc < e.Location || loc > e.Location+e.EntireLen() {
			continue
		}
		kind, ok := m.src.Kind(key)
		if !ok {
			continue
		}
		switch kind {
		case core.KindText, core.KindDecorator, core.KindLineBreak:
			if bestLeafLen == -1 || e.EntireLen() < bestLeafLen {
				bestLeaf, bestLeafLen = key, e.EntireLen()
			}
		default:
			if bestElemLen == -1 || e.EntireLen() < bestElemLen {
				bestElem, bestElemLen = key, e.EntireLen()
			}
		}
	}

	if bestLeaf != "" {
		e, _ := m.cache.Get(bestLeaf)
		textStart := e.Location + e.PreambleLen
		offset := loc - textStart
		if offset < 0 {
			offset = 0
		}
		if offset > e.TextLen {
			offset = e.TextLen
		}
		return core.Point{Key: bestLeaf, Offset: offset, Side: core.SideText}, nil
	}

	if bestElem != "" {
		e, _ := m.cache.Get(bestElem)
		relative := loc - (e.Location + e.PreambleLen)
		idx := 0
		for _, child := range m.src.Children(bestElem) {
			ce, ok := m.cache.Get(child)
			if !ok || relative < ce.EntireLen() {
				break
			}
			relative -= ce.EntireLen()
			idx++
		}
		return core.Point{Key: bestElem, Offset: idx, Side: core.SideElement}, nil
	}

	return core.Point{}, core.PointMappingFailure(core.Point{Offset: loc})
}

// RemapLocation replays tape's location shifts on a single absolute
// location, the same way the applier replays them across the range cache
// : a selection anchor is, in effect, a
// zero-width marker that moves exactly the way a node at that position
// would. A location that falls strictly inside a deleted span collapses to
// the span's start (bias-left), matching common editor convention for an
// edit that removes the text under the cursor.
func RemapLocation(oldLoc int, tape core.Tape) int {
	loc := oldLoc
	collapsed := false
	for _, instr := range tape.Instructions {
		if del, ok := instr.(core.DeleteInstr); ok {
			if loc >= del.Range.Location && loc < del.Range.End() {
				loc = del.Range.Location
				collapsed = true
			}
		}
	}
	base := loc
	for _, s := range tape.ShiftAfter {
		// A collapsed location sits at its deleted span's start, so only
		// shifts anchored strictly before that start move it.
		if (!collapsed && oldLoc >= s.AfterLocation) || (collapsed && base > s.AfterLocation) {
			loc += s.Delta
		}
	}
	return loc
}

// Captured is sel's geometry resolved to raw pre-mutation absolute
// locations, taken while its Mapper's cache still reflects the prior
// state. Carrying a selection across a reconcile is necessarily two-phase:
// the cache backing a Mapper mutates in place when the applier runs, so
// the old locations must be captured before Apply and only resolved back
// to Points afterward, against the same (now-mutated) cache.
type Captured struct {
	isRange            bool
	anchorLoc, focusLoc int
	anchorOK, focusOK  bool
	format             core.TextFormat
	nodeKeys           map[core.NodeKey]struct{}
	hasNode            bool
}

// Capture resolves sel's Points to absolute locations against mapper. Call
// this before the reconcile's Apply step runs.
func Capture(sel *core.Selection, mapper *Mapper) Captured {
	if sel == nil {
		return Captured{}
	}
	var c Captured
	if sel.Range != nil {
		c.isRange = true
		c.format = sel.Range.Format
		if loc, err := mapper.ToLocation(sel.Range.Anchor); err == nil {
			c.anchorLoc, c.anchorOK = loc, true
		}
		if loc, err := mapper.ToLocation(sel.Range.Focus); err == nil {
			c.focusLoc, c.focusOK = loc, true
		}
	}
	if sel.Node != nil {
		c.hasNode = true
		c.nodeKeys = make(map[core.NodeKey]struct{}, len(sel.Node.Keys))
		for k := range sel.Node.Keys {
			c.nodeKeys[k] = struct{}{}
		}
	}
	return c
}

// Resolve replays tape's shifts over c's captured locations and maps them
// back to Points against newMapper (whose cache already reflects the
// post-Apply state). A Point whose location no longer resolves is dropped;
// a Node selection drops any key the post-Apply cache no longer has.
func (c Captured) Resolve(tape core.Tape, newMapper *Mapper) *core.Selection {
	out := &core.Selection{}
	if c.isRange && c.anchorOK && c.focusOK {
		anchor, aerr := newMapper.FromLocation(RemapLocation(c.anchorLoc, tape))
		focus, ferr := newMapper.FromLocation(RemapLocation(c.focusLoc, tape))
		if aerr == nil && ferr == nil {
			out.Range = &core.RangeSelection{Anchor: anchor, Focus: focus, Format: c.format}
		}
	}
	if c.hasNode {
		keys := map[core.NodeKey]struct{}{}
		for k := range c.nodeKeys {
			if _, ok := newMapper.cache.Get(k); ok {
				keys[k] = struct{}{}
			}
		}
		out.Node = &core.NodeSelection{Keys: keys}
	}
	return out
}
