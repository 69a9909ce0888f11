package diff

import (
	"fmt"

	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/rangecache"
	"github.com/speier/scribe/pkg/scribe/theme"
)

func sameAttrs(a, b theme.AttrMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || fmt.Sprint(bv) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

func sameKeys(a, b []core.NodeKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameKeySet(a, b []core.NodeKey) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[core.NodeKey]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	for _, k := range b {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

func commonPrefixLen(a, b []core.NodeKey) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffixLen(a, b []core.NodeKey) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

// ownedRanges returns the buffer ranges key's own characters (not its
// children's) occupy: a leaf's preamble+text+postamble are contiguous, but
// an Element's preamble and postamble straddle its children and so are two
// disjoint ranges.
func ownedRanges(e rangecache.Entry, kind core.NodeKind) []core.Range {
	var out []core.Range
	if e.PreambleLen > 0 {
		out = append(out, core.Range{Location: e.Location, Length: e.PreambleLen})
	}
	switch kind {
	case core.KindElement, core.KindRoot:
		// children occupy the span between preamble and postamble
	default:
		if e.TextLen > 0 {
			out = append(out, core.Range{Location: e.Location + e.PreambleLen, Length: e.TextLen})
		}
	}
	if e.PostambleLen > 0 {
		out = append(out, core.Range{Location: e.Location + e.PreambleLen + e.ChildrenLen + e.TextLen, Length: e.PostambleLen})
	}
	return out
}

// findChangedParent locates the single Element whose Children list differs
// between prev and pending among the dirty set's ancestors. Dirty keys
// themselves may be newly-created or deleted nodes (absent from one side),
// so it walks each dirty key's pending-or-prev parent instead of assuming
// the key exists in both.
func findChangedParent(p Params) (core.NodeKey, bool) {
	candidates := map[core.NodeKey]struct{}{}
	for key := range p.Dirty {
		if parent, ok := p.Pending.Parent(key); ok {
			candidates[parent] = struct{}{}
		} else if parent, ok := p.Prev.Parent(key); ok {
			candidates[parent] = struct{}{}
		}
	}
	if _, ok := p.Dirty[core.Root]; ok {
		candidates[core.Root] = struct{}{}
	}

	var found core.NodeKey
	count := 0
	for parent := range candidates {
		if !sameKeys(p.Prev.Children(parent), p.Pending.Children(parent)) {
			found = parent
			count++
		}
	}
	if count != 1 {
		return "", false
	}
	return found, true
}

// decoratorsUnder lists the Decorator keys in src's copy of key's subtree.
func decoratorsUnder(src core.NodeSource, key core.NodeKey) []core.NodeKey {
	var out []core.NodeKey
	if kind, ok := src.Kind(key); ok && kind == core.KindDecorator {
		out = append(out, key)
	}
	for _, child := range src.Children(key) {
		out = append(out, decoratorsUnder(src, child)...)
	}
	return out
}

// reconcileDecorators computes the add/remove/redecorate sets for the
// subtree rooted at the same key in both states. prev == nil means
// "nothing existed before" (hydrate path):
// everything pending is Added.
func reconcileDecorators(prev, pending core.NodeSource, root core.NodeKey, dirty map[core.NodeKey]struct{}) DecoratorDiff {
	nextDecorators := decoratorsUnder(pending, root)
	if prev == nil {
		return DecoratorDiff{Added: nextDecorators}
	}
	prevSet := map[core.NodeKey]struct{}{}
	for _, k := range decoratorsUnder(prev, root) {
		prevSet[k] = struct{}{}
	}
	nextSet := map[core.NodeKey]struct{}{}
	var diff DecoratorDiff
	for _, k := range nextDecorators {
		nextSet[k] = struct{}{}
		if _, existed := prevSet[k]; !existed {
			diff.Added = append(diff.Added, k)
		} else if _, isDirty := dirty[k]; isDirty {
			diff.Redecorated = append(diff.Redecorated, k)
		}
	}
	for k := range prevSet {
		if _, stillThere := nextSet[k]; !stillThere {
			diff.Removed = append(diff.Removed, k)
		}
	}
	return diff
}

// blockKeysForAffected walks each affected key's ancestor chain (itself
// included) and returns the unique block-level nodes found, in no
// particular order.
func blockKeysForAffected(pending core.NodeSource, affected []core.NodeKey) []core.NodeKey {
	seen := map[core.NodeKey]struct{}{}
	var out []core.NodeKey
	for _, key := range affected {
		cur := key
		for {
			if _, ok := pending.BlockLevelAttributes(cur, nil); ok {
				if _, already := seen[cur]; !already {
					seen[cur] = struct{}{}
					out = append(out, cur)
				}
			}
			parent, ok := pending.Parent(cur)
			if !ok {
				break
			}
			cur = parent
		}
	}
	return out
}
