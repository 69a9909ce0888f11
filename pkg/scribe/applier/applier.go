// Package applier implements C6: it takes a diff.Result and actually mutates
// the backing buffer, the range cache, and the decorator lifecycle, in a
// fixed order so every invariant holds again once it returns.
package applier

import (
	"sort"

	"github.com/speier/scribe/pkg/scribe/buffer"
	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/diff"
	"github.com/speier/scribe/pkg/scribe/rangecache"
	"github.com/speier/scribe/pkg/scribe/theme"
)

// Decorators is the host's decorator lifecycle collaborator: Mount/Unmount
// create and destroy the host view, Decorate re-renders an already-mounted
// one. A host with no decorators can pass NopDecorators.
type Decorators interface {
	Mount(key core.NodeKey)
	Decorate(key core.NodeKey)
	Unmount(key core.NodeKey)
}

// NopDecorators discards every lifecycle call.
type NopDecorators struct{}

func (NopDecorators) Mount(core.NodeKey)    {}
func (NopDecorators) Decorate(core.NodeKey) {}
func (NopDecorators) Unmount(core.NodeKey)  {}

// Apply executes result against buf and cache, bringing the cache back into
// an invariant-sound state for pending:
//
//  1. run the buffer instructions inside one edit session
//  2. propagate the planner's own-part and children-len deltas to ancestors
//  3. apply location shifts (while the pre-mutation order is still valid)
//  4. merge in any freshly-composed subtree entries
//  5. prune entries for keys pending no longer has
//  6. rebuild the document-order vector if the planner asked for it
//  7. run the decorator lifecycle transitions
//  8. re-apply block-level paragraph attributes to every affected block
func Apply(buf buffer.Buffer, cache *rangecache.Cache, pending core.NodeSource, th theme.Theme, dec Decorators, result diff.Result) {
	buf.BeginEdit()
	for _, instr := range result.Tape.Instructions {
		applyInstruction(buf, instr)
	}

	// The edited node and its ancestors keep their locations through the
	// shifts, even when the edit point is the node's own start.
	pinned := map[core.NodeKey]int{}
	pin := func(key core.NodeKey) {
		for ok := true; ok; key, ok = pending.Parent(key) {
			pinned[key] = cache.Entries[key].Location
		}
	}
	for _, pd := range result.Tape.PartDeltas {
		pin(pd.Key)
		cache.ApplyLengthDelta(pd.Key, pd.Part, pd.Delta, pending.Parent)
	}
	for _, cd := range result.Tape.ChildrenDeltas {
		pin(cd.Key)
		cache.ApplyChildrenLenDelta(cd.Key, cd.Delta, pending.Parent)
	}
	for _, s := range result.Tape.ShiftAfter {
		cache.ApplyShiftAfterLocation(s.AfterLocation, s.Delta)
	}
	for key, loc := range pinned {
		e := cache.Entries[key]
		e.Location = loc
		cache.Entries[key] = e
	}

	if len(result.NewEntries) > 0 {
		cache.MergeEntries(result.NewEntries)
	}
	for _, key := range result.PrunedKeys {
		cache.Delete(key)
	}
	if result.RebuildOrder {
		cache.RebuildOrder()
	}

	for _, key := range result.Decorators.Added {
		dec.Mount(key)
		dec.Decorate(key)
		cache.SetDecoratorPosition(key)
	}
	for _, key := range result.Decorators.Redecorated {
		dec.Decorate(key)
		cache.SetDecoratorPosition(key)
	}
	for _, key := range result.Decorators.Removed {
		dec.Unmount(key)
		cache.RemoveDecoratorPosition(key)
	}

	applyBlockAttributes(buf, cache, pending, th, result.BlockKeys)

	buf.EndEdit()
}

func applyInstruction(buf buffer.Buffer, instr core.Instruction) {
	switch v := instr.(type) {
	case core.DeleteInstr:
		buf.Replace(v.Range, core.AttrString{})
	case core.InsertInstr:
		buf.Replace(core.Range{Location: v.At, Length: 0}, v.Text)
	case core.SetAttributesInstr:
		buf.SetAttributes(v.Range, v.Attrs)
	case core.FixAttributesInstr:
		buf.FixAttributes(v.Range)
	case core.DecoratorOpInstr, core.ApplyBlockAttributesInstr:
		// Decorator and block-attribute instructions are carried on
		// diff.Result's own fields (Decorators, BlockKeys) rather than on
		// the tape, since they need the post-mutation cache to compute a
		// range; Apply handles them directly below instead of here.
	}
}

// paragraphSite is one paragraph-marker span inside a block's range: a node
// whose own preamble is the reserved, non-selectable span the paragraph-
// style pass writes into (so it never clobbers a child's independently
// attributed text run).
type paragraphSite struct {
	key   core.NodeKey
	entry rangecache.Entry
}

// paragraphSites walks root's subtree in document order and returns every
// node (root included) whose cached preamble carries a paragraph marker.
// Most blocks are a single paragraph (the block node is itself the only
// site); a block wrapping several paragraph children (e.g. a list or a
// quote) yields one site per child.
func paragraphSites(pending core.NodeSource, cache *rangecache.Cache, root core.NodeKey) []paragraphSite {
	var sites []paragraphSite
	var walk func(core.NodeKey)
	walk = func(key core.NodeKey) {
		if e, ok := cache.Get(key); ok && e.PreambleLen > 0 {
			sites = append(sites, paragraphSite{key: key, entry: e})
		}
		for _, child := range pending.Children(key) {
			walk(child)
		}
	}
	walk(root)
	sort.Slice(sites, func(i, j int) bool { return sites[i].entry.Location < sites[j].entry.Location })
	return sites
}

// applyBlockAttributes re-derives each affected block node's paragraph
// style and writes it into the reserved internal attribute keys, following
// each block's own per-paragraph walk: the first paragraph in document
// order gets spacing-before, the last gets spacing-after, and every
// paragraph gets the block's indent. When the block spans an extra
// trailing empty line, that line is itself the last paragraphSite, so
// spacing-after lands on its fragment rather than the prior substantive
// paragraph's without any special-casing.
func applyBlockAttributes(buf buffer.Buffer, cache *rangecache.Cache, pending core.NodeSource, th theme.Theme, keys []core.NodeKey) {
	for _, key := range keys {
		attrs, ok := pending.BlockLevelAttributes(key, th)
		if !ok {
			continue
		}
		sites := paragraphSites(pending, cache, key)
		if len(sites) == 0 {
			continue
		}
		last := len(sites) - 1

		// last_descendant_attributes: the trailing fragment's own resolved
		// attributes, merged in so a nested block's closing style isn't
		// lost under this block's spacing-after.
		lastDescendantAttrs := pending.AttributedAttributes(sites[last].key, th)

		for i, site := range sites {
			r := core.Range{Location: site.entry.Location, Length: site.entry.PreambleLen}
			vals := theme.AttrMap{
				theme.IndentInternal:                 attrs.IndentLevel * attrs.IndentSize,
				theme.AppliedBlockLevelStylesInternal: true,
			}
			if i == 0 {
				vals[theme.ParagraphSpacingBeforeInternal] = attrs.MarginTop + attrs.PaddingTop
			}
			if i == last {
				vals[theme.ParagraphSpacingInternal] = attrs.MarginBottom + attrs.PaddingBottom
				for k, v := range lastDescendantAttrs {
					if _, reserved := vals[k]; !reserved {
						vals[k] = v
					}
				}
			}
			buf.SetAttributes(r, vals)
			buf.FixAttributes(r)
		}
	}
}
