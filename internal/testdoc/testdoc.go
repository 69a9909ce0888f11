// Package testdoc builds a shared set of scripted node-tree editing
// scenarios, so cmd/scribe's demo and bench subcommands exercise the exact
// same updates: one helper type wrapping a
// scripted sequence of steps a caller replays against a live reconciler.
package testdoc

import (
	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/theme"
)

// Step is one call a driver makes to reconciler.Reconciler.Update.
type Step struct {
	Label          string
	Pending        *core.EditorState
	Dirty          map[core.NodeKey]struct{}
	Marked         *core.MarkedTextOperation
	CompositionKey core.NodeKey
}

// Scenario is a named scripted sequence: Hydrate seeds the reconciler, then
// each Step is applied in order.
type Scenario struct {
	Name    string
	Hydrate *core.EditorState
	Steps   []Step
}

// Scenarios returns the six scripted editing scenarios in a fixed order:
// a single text edit, an attribute-only toggle, a mid-document block
// insert, a minimal-move keyed reorder, a multi-node contiguous replace,
// and an IME composition sequence.
func Scenarios() []Scenario {
	return []Scenario{singleTextEdit(), attributeToggle(), insertBlock(), keyedReorder(), multiNodeReplace(), imeComposition()}
}

func dirty(keys ...core.NodeKey) map[core.NodeKey]struct{} {
	m := make(map[core.NodeKey]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

// singleTextEdit appends text to one paragraph, which should shift only
// the following sibling's cached location.
func singleTextEdit() Scenario {
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hello", Postamble: "\n"})
	st.AddChild(core.Root, &core.NodeRecord{Key: "b", Kind: core.KindText, Text: "World"})

	pending := st.Clone()
	pending.Nodes["a"].Text = "Hello there"

	return Scenario{
		Name:    "single-text-edit",
		Hydrate: st,
		Steps: []Step{
			{Label: "append 'there' to a", Pending: pending, Dirty: dirty("a")},
		},
	}
}

// attributeToggle toggles bold on, a pure attribute pass with no length
// change.
func attributeToggle() Scenario {
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hi"})

	pending := st.Clone()
	pending.Nodes["a"].Attrs = theme.AttrMap{"bold": true}

	return Scenario{
		Name:    "attribute-toggle",
		Hydrate: st,
		Steps: []Step{
			{Label: "bold a", Pending: pending, Dirty: dirty("a")},
		},
	}
}

// insertBlock inserts a node between two existing siblings, which should
// shift only what follows the insertion point.
func insertBlock() Scenario {
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "p1", Kind: core.KindText, Text: "A", Postamble: "\n"})
	st.AddChild(core.Root, &core.NodeRecord{Key: "p2", Kind: core.KindText, Text: "C"})

	pending := st.Clone()
	rec := &core.NodeRecord{Key: "p1.5", Kind: core.KindText, Text: "B", Postamble: "\n"}
	rec.Parent = core.Root
	rec.HasParent = true
	pending.Nodes["p1.5"] = rec
	pending.Nodes[core.Root].Children = []core.NodeKey{"p1", "p1.5", "p2"}

	return Scenario{
		Name:    "insert-block-at-middle",
		Hydrate: st,
		Steps: []Step{
			{Label: "insert p1.5 between p1 and p2", Pending: pending, Dirty: dirty("p1.5")},
		},
	}
}

// keyedReorder reorders five keyed siblings, exercising the minimal-move
// keyed-diff path.
func keyedReorder() Scenario {
	st := core.NewEditorState()
	for _, pair := range [][2]string{{"k1", "a"}, {"k2", "b"}, {"k3", "c"}, {"k4", "d"}, {"k5", "e"}} {
		st.AddChild(core.Root, &core.NodeRecord{Key: core.NodeKey(pair[0]), Kind: core.KindText, Text: pair[1]})
	}

	pending := st.Clone()
	pending.Nodes[core.Root].Children = []core.NodeKey{"k1", "k3", "k2", "k5", "k4"}

	return Scenario{
		Name:    "keyed-reorder-minimal-moves",
		Hydrate: st,
		Steps: []Step{
			{Label: "reorder to k1,k3,k2,k5,k4", Pending: pending, Dirty: dirty("k2", "k3", "k4", "k5")},
		},
	}
}

// multiNodeReplace replaces two contiguous text nodes with two different
// ones, which the planner handles as one splice of the root's children
// (the multi-node-replace path).
func multiNodeReplace() Scenario {
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "t1", Kind: core.KindText, Text: "Hello "})
	st.AddChild(core.Root, &core.NodeRecord{Key: "t2", Kind: core.KindText, Text: "world"})

	pending := core.NewEditorState()
	pending.AddChild(core.Root, &core.NodeRecord{Key: "t3", Kind: core.KindText, Text: "Hi"})
	pending.AddChild(core.Root, &core.NodeRecord{Key: "t4", Kind: core.KindText, Text: " there"})

	return Scenario{
		Name:    "multi-node-contiguous-replace",
		Hydrate: st,
		Steps: []Step{
			{Label: "replace t1,t2 with t3,t4", Pending: pending, Dirty: dirty("t1", "t2")},
		},
	}
}

// imeComposition hydrates a CJK text node, then composes a dakuten onto it
// against the already-cached node, taking the composition path.
func imeComposition() Scenario {
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "t1", Kind: core.KindText, Text: "か"})

	pending := st.Clone()
	pending.Nodes["t1"].Text = "か゛"
	marked := &core.MarkedTextOperation{Create: false, ReplaceRangeLoc: 0, ReplaceRangeLen: 1, Text: "か゛"}

	return Scenario{
		Name:    "ime-composition-cjk",
		Hydrate: st,
		Steps: []Step{
			{Label: "compose dakuten onto t1", Pending: pending, Dirty: dirty("t1"), Marked: marked, CompositionKey: "t1"},
		},
	}
}
