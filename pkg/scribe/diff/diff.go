// Package diff implements C4, the update classifier and instruction-tape
// planner: given a previous and a pending EditorState plus the
// set of keys the caller marked dirty, it picks the cheapest of several
// update paths and emits a core.Tape the applier (C6) can execute
// without re-deriving what changed.
//
// Classification order matters: cheaper, narrower paths
// are tried first and the first one whose preconditions hold wins; anything
// that fails every fast path falls through to the optimized full rebuild.
package diff

import (
	"sort"

	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/keyeddiff"
	"github.com/speier/scribe/pkg/scribe/rangecache"
	"github.com/speier/scribe/pkg/scribe/theme"
)

// Params bundles everything a classifier needs. Cache must still reflect
// Prev (the applier mutates it only after Plan returns).
type Params struct {
	Prev    core.NodeSource
	Pending core.NodeSource
	Dirty   map[core.NodeKey]struct{}
	Cache   *rangecache.Cache
	Theme   theme.Theme

	// MarkedText/CompositionKey carry an in-flight IME composition;
	// CompositionKey is the existing Text node being composed into,
	// empty if this composition's first keystroke also created the node (in
	// which case it falls through to insert-block/hydrate instead).
	MarkedText     *core.MarkedTextOperation
	CompositionKey core.NodeKey

	// StabilityThreshold overrides keyeddiff.DefaultStabilityThreshold; <= 0
	// means use the default.
	StabilityThreshold float64

	// DisableOptimizedReconciler forces every update through planFullRebuild,
	// skipping composition and every other fast path.
	DisableOptimizedReconciler bool

	// StrictMode rejects the full-rebuild fallback outright instead of
	// running it: Plan reports the attempt via Result.StrictModeViolation
	// rather than emitting a tape.
	StrictMode bool

	// DisableFenwickDelta skips planSingleTextEdit.
	DisableFenwickDelta bool

	// DisableCentralAggregation skips planAttributeOnly.
	DisableCentralAggregation bool

	// DisableKeyedDiff skips the LIS-based reorder inside
	// planSpliceOrReorder, always taking the region-rebuild splice instead.
	DisableKeyedDiff bool

	// DisableBlockRebuild skips planSpliceOrReorder entirely (both its
	// keyed-reorder and splice outcomes).
	DisableBlockRebuild bool

	// DisableInsertBlockFenwick skips splice's single-insert case (oldLen
	// == 0, newLen > 0).
	DisableInsertBlockFenwick bool

	// DisableDeleteBlockFenwick skips splice's single-delete case (oldLen >
	// 0, newLen == 0).
	DisableDeleteBlockFenwick bool

	// DisablePrePostOnly skips planPrePostOnly.
	DisablePrePostOnly bool

	// AttributeOnlyMaxTargets caps how many dirty keys planAttributeOnly
	// handles before bailing to the next classifier; <= 0 means unlimited.
	AttributeOnlyMaxTargets int
}

// DecoratorDiff is the decorator lifecycle transitions an update causes
// : Added nodes get create+mount+decorate, Removed get unmount,
// Redecorated (present before and after, but dirty) get decorate only.
type DecoratorDiff struct {
	Added       []core.NodeKey
	Removed     []core.NodeKey
	Redecorated []core.NodeKey
}

// Result is everything the applier needs beyond the raw buffer tape: the
// new cache entries a structural change introduces, the keys to prune, and
// the decorator/block-attribute follow-up work.
type Result struct {
	Tape         core.Tape
	NewEntries   map[core.NodeKey]rangecache.Entry
	PrunedKeys   []core.NodeKey
	RebuildOrder bool
	Decorators   DecoratorDiff
	BlockKeys    []core.NodeKey

	// StrictModeViolation is set instead of a tape when Params.StrictMode is
	// on and every fast path declined the update: the caller must reject
	// the update rather than commit a full rebuild.
	StrictModeViolation bool
}

// Plan classifies the update and returns the tape to execute.
func Plan(p Params) Result {
	if len(p.Cache.Entries) == 0 {
		return planHydrateFromEmpty(p)
	}

	// An empty dirty set means the caller observed no change since the last
	// reconcile : nothing to plan,
	// zero instructions, cache untouched.
	if len(p.Dirty) == 0 && p.MarkedText == nil {
		return Result{Tape: core.Tape{PathLabel: "no-op"}}
	}

	if !p.DisableOptimizedReconciler {
		if p.MarkedText != nil && p.CompositionKey != "" {
			return planComposition(p)
		}

		if !p.DisableFenwickDelta {
			if r, ok := planSingleTextEdit(p); ok {
				return r
			}
		}

		if !p.DisableCentralAggregation {
			if r, ok := planAttributeOnly(p); ok {
				return r
			}
		}

		if !p.DisablePrePostOnly {
			if r, ok := planPrePostOnly(p); ok {
				return r
			}
		}

		if !p.DisableBlockRebuild {
			if r, ok := planSpliceOrReorder(p); ok {
				return r
			}
		}
	}

	if p.StrictMode {
		return Result{StrictModeViolation: true}
	}
	return planFullRebuild(p)
}

func threshold(p Params) float64 {
	if p.StabilityThreshold > 0 {
		return p.StabilityThreshold
	}
	return keyeddiff.DefaultStabilityThreshold
}

// planHydrateFromEmpty composes the whole pending tree and inserts it
// wholesale.
func planHydrateFromEmpty(p Params) Result {
	composed := ComposeSubtree(p.Pending, core.Root, p.Theme)
	entries := map[core.NodeKey]rangecache.Entry{}
	total := BuildSubtreeEntries(p.Pending, core.Root, 0, entries)

	var tape core.Tape
	tape.PathLabel = "hydrate-from-empty"
	if composed.Len() > 0 {
		tape.Instructions = []core.Instruction{
			core.InsertInstr{At: 0, Text: composed},
			core.FixAttributesInstr{Range: core.Range{Location: 0, Length: total}},
		}
	}

	return Result{
		Tape:         tape,
		NewEntries:   entries,
		RebuildOrder: true,
		Decorators:   reconcileDecorators(nil, p.Pending, core.Root, nil),
		BlockKeys:    blockKeysForAffected(p.Pending, []core.NodeKey{core.Root}),
	}
}

// planComposition applies the IME's explicit replace range to the
// in-composition text node , bypassing the
// LCP/LCS diffing single-text-edit uses for a programmatic change.
func planComposition(p Params) Result {
	key := p.CompositionKey
	m := p.MarkedText
	entry, _ := p.Cache.Get(key)
	attrs := p.Pending.AttributedAttributes(key, p.Theme)

	textStart := entry.Location + entry.PreambleLen
	at := textStart + m.ReplaceRangeLoc
	insertLen := core.UTF16Len(m.Text)

	var instrs []core.Instruction
	if m.ReplaceRangeLen > 0 {
		instrs = append(instrs, core.DeleteInstr{Range: core.Range{Location: at, Length: m.ReplaceRangeLen}})
	}
	if insertLen > 0 {
		instrs = append(instrs, core.InsertInstr{At: at, Text: core.PlainAttrString(m.Text, attrs)})
	}
	instrs = append(instrs, core.FixAttributesInstr{Range: core.Range{Location: at, Length: insertLen}})

	delta := insertLen - m.ReplaceRangeLen
	tape := core.Tape{
		Instructions: instrs,
		PartDeltas:   []core.PartDelta{{Key: key, Part: core.PartText, Delta: delta}},
		ShiftAfter:   []core.Shift{{AfterLocation: textStart + m.ReplaceRangeLoc + m.ReplaceRangeLen, Delta: delta}},
		PathLabel:    "composition",
	}
	return Result{Tape: tape, BlockKeys: blockKeysForAffected(p.Pending, []core.NodeKey{key})}
}

// planSingleTextEdit handles exactly one dirty Text node whose preamble,
// postamble, and resolved attributes are unchanged : the
// edit is isolated to the text run, found via longest-common-prefix/suffix.
func planSingleTextEdit(p Params) (Result, bool) {
	if len(p.Dirty) != 1 {
		return Result{}, false
	}
	var key core.NodeKey
	for k := range p.Dirty {
		key = k
	}

	prevKind, prevOK := p.Prev.Kind(key)
	nextKind, nextOK := p.Pending.Kind(key)
	if !prevOK || !nextOK || prevKind != core.KindText || nextKind != core.KindText {
		return Result{}, false
	}
	if p.Prev.Preamble(key) != p.Pending.Preamble(key) || p.Prev.Postamble(key) != p.Pending.Postamble(key) {
		return Result{}, false
	}
	if !sameAttrs(p.Prev.AttributedAttributes(key, p.Theme), p.Pending.AttributedAttributes(key, p.Theme)) {
		return Result{}, false
	}

	oldText := []rune(p.Prev.Text(key))
	newText := []rune(p.Pending.Text(key))
	if string(oldText) == string(newText) {
		return Result{}, false
	}

	lcp := 0
	for lcp < len(oldText) && lcp < len(newText) && oldText[lcp] == newText[lcp] {
		lcp++
	}
	lcs := 0
	for lcs < len(oldText)-lcp && lcs < len(newText)-lcp && oldText[len(oldText)-1-lcs] == newText[len(newText)-1-lcs] {
		lcs++
	}
	oldMiddle := string(oldText[lcp : len(oldText)-lcs])
	newMiddle := string(newText[lcp : len(newText)-lcs])

	entry, ok := p.Cache.Get(key)
	if !ok {
		return Result{}, false
	}
	attrs := p.Pending.AttributedAttributes(key, p.Theme)
	textStart := entry.Location + entry.PreambleLen + core.UTF16Len(string(oldText[:lcp]))
	deleteLen := core.UTF16Len(oldMiddle)
	insertLen := core.UTF16Len(newMiddle)

	var instrs []core.Instruction
	if deleteLen > 0 {
		instrs = append(instrs, core.DeleteInstr{Range: core.Range{Location: textStart, Length: deleteLen}})
	}
	if insertLen > 0 {
		instrs = append(instrs, core.InsertInstr{At: textStart, Text: core.PlainAttrString(newMiddle, attrs)})
	}
	instrs = append(instrs, core.FixAttributesInstr{Range: core.Range{Location: textStart, Length: insertLen}})

	delta := insertLen - deleteLen
	tape := core.Tape{
		Instructions: instrs,
		PartDeltas:   []core.PartDelta{{Key: key, Part: core.PartText, Delta: delta}},
		ShiftAfter:   []core.Shift{{AfterLocation: textStart + deleteLen, Delta: delta}},
		PathLabel:    "single-text-edit",
	}
	return Result{Tape: tape, BlockKeys: blockKeysForAffected(p.Pending, []core.NodeKey{key})}, true
}

// planAttributeOnly handles dirty nodes whose own text/preamble/postamble
// and structure are unchanged but whose resolved attributes differ: a pure
// SetAttributes/FixAttributes pass, no length change.
func planAttributeOnly(p Params) (Result, bool) {
	if len(p.Dirty) == 0 {
		return Result{}, false
	}
	if p.AttributeOnlyMaxTargets > 0 && len(p.Dirty) > p.AttributeOnlyMaxTargets {
		return Result{}, false
	}
	var instrs []core.Instruction
	var affected []core.NodeKey
	minLoc, maxEnd := -1, -1

	for key := range p.Dirty {
		prevKind, prevOK := p.Prev.Kind(key)
		nextKind, nextOK := p.Pending.Kind(key)
		if !prevOK || !nextOK || prevKind != nextKind {
			return Result{}, false
		}
		if p.Prev.Text(key) != p.Pending.Text(key) ||
			p.Prev.Preamble(key) != p.Pending.Preamble(key) ||
			p.Prev.Postamble(key) != p.Pending.Postamble(key) {
			return Result{}, false
		}
		if !sameKeys(p.Prev.Children(key), p.Pending.Children(key)) {
			return Result{}, false
		}

		newAttrs := p.Pending.AttributedAttributes(key, p.Theme)
		if sameAttrs(p.Prev.AttributedAttributes(key, p.Theme), newAttrs) {
			continue
		}

		entry, ok := p.Cache.Get(key)
		if !ok {
			return Result{}, false
		}
		for _, r := range ownedRanges(entry, nextKind) {
			instrs = append(instrs, core.SetAttributesInstr{Range: r, Attrs: newAttrs})
			if minLoc == -1 || r.Location < minLoc {
				minLoc = r.Location
			}
			if r.End() > maxEnd {
				maxEnd = r.End()
			}
		}
		affected = append(affected, key)
	}

	if len(instrs) == 0 {
		return Result{}, false
	}
	instrs = append(instrs, core.FixAttributesInstr{Range: core.Range{Location: minLoc, Length: maxEnd - minLoc}})

	return Result{
		Tape:      core.Tape{Instructions: instrs, PathLabel: "attribute-only"},
		BlockKeys: blockKeysForAffected(p.Pending, affected),
	}, true
}

// planPrePostOnly handles a single dirty node whose preamble and/or
// postamble text changed (content and/or length) while its text, children,
// and kind are unchanged.
func planPrePostOnly(p Params) (Result, bool) {
	if len(p.Dirty) != 1 {
		return Result{}, false
	}
	var key core.NodeKey
	for k := range p.Dirty {
		key = k
	}

	prevKind, prevOK := p.Prev.Kind(key)
	nextKind, nextOK := p.Pending.Kind(key)
	if !prevOK || !nextOK || prevKind != nextKind {
		return Result{}, false
	}
	if p.Prev.Text(key) != p.Pending.Text(key) || !sameKeys(p.Prev.Children(key), p.Pending.Children(key)) {
		return Result{}, false
	}
	preChanged := p.Prev.Preamble(key) != p.Pending.Preamble(key)
	postChanged := p.Prev.Postamble(key) != p.Pending.Postamble(key)
	if !preChanged && !postChanged {
		return Result{}, false
	}

	entry, ok := p.Cache.Get(key)
	if !ok {
		return Result{}, false
	}
	attrs := p.Pending.AttributedAttributes(key, p.Theme)

	var instrs []core.Instruction
	var partDeltas []core.PartDelta
	var shifts []core.Shift
	loc := entry.Location

	if preChanged {
		newPre := p.Pending.Preamble(key)
		oldLen := entry.PreambleLen
		newLen := core.UTF16Len(newPre)
		if oldLen > 0 {
			instrs = append(instrs, core.DeleteInstr{Range: core.Range{Location: loc, Length: oldLen}})
		}
		if newLen > 0 {
			instrs = append(instrs, core.InsertInstr{At: loc, Text: core.PlainAttrString(newPre, attrs)})
		}
		instrs = append(instrs, core.FixAttributesInstr{Range: core.Range{Location: loc, Length: newLen}})
		delta := newLen - oldLen
		partDeltas = append(partDeltas, core.PartDelta{Key: key, Part: core.PartPre, Delta: delta})
		shifts = append(shifts, core.Shift{AfterLocation: loc + oldLen, Delta: delta})
		entry.PreambleLen = newLen // keep local view consistent for the postamble calc below
	}

	if postChanged {
		newPost := p.Pending.Postamble(key)
		oldLen := entry.PostambleLen
		newLen := core.UTF16Len(newPost)
		postLoc := entry.Location + entry.PreambleLen + entry.ChildrenLen + entry.TextLen
		if oldLen > 0 {
			instrs = append(instrs, core.DeleteInstr{Range: core.Range{Location: postLoc, Length: oldLen}})
		}
		if newLen > 0 {
			instrs = append(instrs, core.InsertInstr{At: postLoc, Text: core.PlainAttrString(newPost, attrs)})
		}
		instrs = append(instrs, core.FixAttributesInstr{Range: core.Range{Location: postLoc, Length: newLen}})
		delta := newLen - oldLen
		partDeltas = append(partDeltas, core.PartDelta{Key: key, Part: core.PartPost, Delta: delta})
		shifts = append(shifts, core.Shift{AfterLocation: postLoc + oldLen, Delta: delta})
	}

	tape := core.Tape{Instructions: instrs, PartDeltas: partDeltas, ShiftAfter: shifts, PathLabel: "pre-post-only"}
	return Result{Tape: tape, BlockKeys: blockKeysForAffected(p.Pending, []core.NodeKey{key})}, true
}

// planSpliceOrReorder covers insert-block, delete-block, multi-node
// contiguous replace, and keyed-reorder : it finds the
// single parent whose child list changed, splits off the common prefix/
// suffix, and either splices the differing middle or — if the middle is a
// reorder of the same key set — hands it to C5.
func planSpliceOrReorder(p Params) (Result, bool) {
	parent, ok := findChangedParent(p)
	if !ok {
		return Result{}, false
	}

	prevKids := p.Prev.Children(parent)
	nextKids := p.Pending.Children(parent)

	i := commonPrefixLen(prevKids, nextKids)
	j := commonSuffixLen(prevKids[i:], nextKids[i:])
	oldMiddle := prevKids[i : len(prevKids)-j]
	newMiddle := nextKids[i : len(nextKids)-j]

	if !p.DisableKeyedDiff && len(oldMiddle) == len(newMiddle) && sameKeySet(oldMiddle, newMiddle) && len(oldMiddle) > 1 {
		return planKeyedReorder(p, parent, prevKids, i, oldMiddle, newMiddle)
	}

	if len(oldMiddle) == 0 && len(newMiddle) > 0 && p.DisableInsertBlockFenwick {
		return Result{}, false
	}
	if len(oldMiddle) > 0 && len(newMiddle) == 0 && p.DisableDeleteBlockFenwick {
		return Result{}, false
	}

	return splice(p, parent, prevKids, i, oldMiddle, newMiddle), true
}

// splice replaces oldMiddle (a contiguous run of parent's previous
// children, possibly empty) with newMiddle (possibly empty) composed fresh,
// covering insert-block, delete-block, and multi-node contiguous replace
// with one implementation.
func splice(p Params, parent core.NodeKey, prevKids []core.NodeKey, i int, oldMiddle, newMiddle []core.NodeKey) Result {
	var start, oldLen int
	if len(oldMiddle) > 0 {
		first, _ := p.Cache.Get(oldMiddle[0])
		start = first.Location
		for _, k := range oldMiddle {
			e, _ := p.Cache.Get(k)
			oldLen += e.EntireLen()
		}
	} else if i > 0 {
		prevSib, _ := p.Cache.Get(prevKids[i-1])
		start = prevSib.Location + prevSib.EntireLen()
	} else {
		pe, _ := p.Cache.Get(parent)
		start = pe.Location + pe.PreambleLen
	}

	var composed core.AttrString
	for _, k := range newMiddle {
		composed = core.Concat(composed, ComposeSubtree(p.Pending, k, p.Theme))
	}
	newLen := composed.Len()

	var instrs []core.Instruction
	if oldLen > 0 {
		instrs = append(instrs, core.DeleteInstr{Range: core.Range{Location: start, Length: oldLen}})
	}
	if newLen > 0 {
		instrs = append(instrs, core.InsertInstr{At: start, Text: composed})
	}
	if newLen > 0 {
		instrs = append(instrs, core.FixAttributesInstr{Range: core.Range{Location: start, Length: newLen}})
	}

	entries := map[core.NodeKey]rangecache.Entry{}
	loc := start
	for _, k := range newMiddle {
		loc += BuildSubtreeEntries(p.Pending, k, loc, entries)
	}

	delta := newLen - oldLen
	label := "multi-node-replace"
	switch {
	case oldLen == 0 && newLen > 0:
		label = "insert-block"
	case oldLen > 0 && newLen == 0:
		label = "delete-block"
	}

	var pruned []core.NodeKey
	var removedDecorators []core.NodeKey
	for _, k := range oldMiddle {
		pruned = append(pruned, SubtreeKeys(p.Prev, k)...)
		removedDecorators = append(removedDecorators, decoratorsUnder(p.Prev, k)...)
	}
	var addedDecorators []core.NodeKey
	for _, k := range newMiddle {
		addedDecorators = append(addedDecorators, decoratorsUnder(p.Pending, k)...)
	}

	tape := core.Tape{
		Instructions:   instrs,
		ChildrenDeltas: []core.ChildrenDelta{{Key: parent, Delta: delta}},
		ShiftAfter:     []core.Shift{{AfterLocation: start + oldLen, Delta: delta}},
		PathLabel:      label,
	}

	return Result{
		Tape:         tape,
		NewEntries:   entries,
		PrunedKeys:   pruned,
		RebuildOrder: true,
		Decorators:   DecoratorDiff{Added: addedDecorators, Removed: removedDecorators},
		BlockKeys:    blockKeysForAffected(p.Pending, []core.NodeKey{parent}),
	}
}

// planKeyedReorder hands the unchanged-key-set middle run to C5 and, unless
// it reports the region too unstable, turns each move into a delete+insert
// pair of the single moved node.
func planKeyedReorder(p Params, parent core.NodeKey, prevKids []core.NodeKey, i int, oldMiddle, newMiddle []core.NodeKey) (Result, bool) {
	plan := keyeddiff.Diff(oldMiddle, newMiddle, threshold(p))
	if plan.RebuildRegion {
		return splice(p, parent, prevKids, i, oldMiddle, newMiddle), true
	}

	var instrs []core.Instruction
	entries := map[core.NodeKey]rangecache.Entry{}
	minLoc, maxEnd := -1, -1

	// Deletes must run in descending old-location order: deleting a later
	// range first never invalidates an
	// earlier range's still-to-be-deleted location.
	oldLocs := make([]rangecache.Entry, 0, len(plan.Moves))
	for _, mv := range plan.Moves {
		if e, ok := p.Cache.Get(mv.Key); ok {
			oldLocs = append(oldLocs, e)
		}
	}
	sort.Slice(oldLocs, func(a, b int) bool { return oldLocs[a].Location > oldLocs[b].Location })
	for _, e := range oldLocs {
		instrs = append(instrs, core.DeleteInstr{Range: core.Range{Location: e.Location, Length: e.EntireLen()}})
	}

	// Recompute contiguous locations for the whole middle region in its new
	// order: moved nodes are recomposed fresh, untouched ones keep content
	// but still need their cache entry relocated.
	var start int
	if i > 0 {
		prevSib, _ := p.Cache.Get(prevKids[i-1])
		start = prevSib.Location + prevSib.EntireLen()
	} else {
		pe, _ := p.Cache.Get(parent)
		start = pe.Location + pe.PreambleLen
	}
	loc := start
	for _, k := range newMiddle {
		l := BuildSubtreeEntries(p.Pending, k, loc, entries)
		loc += l
	}

	for _, mv := range plan.Moves {
		e := entries[mv.Key]
		composed := ComposeSubtree(p.Pending, mv.Key, p.Theme)
		instrs = append(instrs, core.InsertInstr{At: e.Location, Text: composed})
		if minLoc == -1 || e.Location < minLoc {
			minLoc = e.Location
		}
		if e.Location+composed.Len() > maxEnd {
			maxEnd = e.Location + composed.Len()
		}
	}
	if minLoc != -1 {
		instrs = append(instrs, core.FixAttributesInstr{Range: core.Range{Location: minLoc, Length: maxEnd - minLoc}})
	}

	tape := core.Tape{Instructions: instrs, PathLabel: "keyed-reorder"}
	return Result{
		Tape:         tape,
		NewEntries:   entries,
		RebuildOrder: true,
		Decorators:   reconcileDecorators(p.Prev, p.Pending, parent, p.Dirty),
		BlockKeys:    blockKeysForAffected(p.Pending, []core.NodeKey{parent}),
	}, true
}

// planFullRebuild is the slow path : recompose the whole
// document and let invariant verification  catch anything the
// fast paths would have gotten wrong. Still "optimized" in the sense that it
// diffs against the root's previously-cached length rather than assuming 0.
func planFullRebuild(p Params) Result {
	root, _ := p.Cache.Get(core.Root)
	composed := ComposeSubtree(p.Pending, core.Root, p.Theme)
	entries := map[core.NodeKey]rangecache.Entry{}
	total := BuildSubtreeEntries(p.Pending, core.Root, 0, entries)

	oldLen := root.EntireLen()
	var instrs []core.Instruction
	if oldLen > 0 {
		instrs = append(instrs, core.DeleteInstr{Range: core.Range{Location: 0, Length: oldLen}})
	}
	if composed.Len() > 0 {
		instrs = append(instrs, core.InsertInstr{At: 0, Text: composed})
		instrs = append(instrs, core.FixAttributesInstr{Range: core.Range{Location: 0, Length: total}})
	}

	var prunedAll []core.NodeKey
	for k := range p.Cache.Entries {
		prunedAll = append(prunedAll, k)
	}

	tape := core.Tape{Instructions: instrs, PathLabel: "full-rebuild"}
	return Result{
		Tape:         tape,
		NewEntries:   entries,
		PrunedKeys:   prunedAll,
		RebuildOrder: true,
		Decorators:   reconcileDecorators(p.Prev, p.Pending, core.Root, p.Dirty),
		BlockKeys:    blockKeysForAffected(p.Pending, []core.NodeKey{core.Root}),
	}
}
