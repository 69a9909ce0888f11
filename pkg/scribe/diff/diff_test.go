package diff

import (
	"testing"

	"github.com/speier/scribe/pkg/scribe/buffer"
	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/rangecache"
	"github.com/speier/scribe/pkg/scribe/theme"
)

// execute runs a Result's instructions against a buffer.Memory, exercising
// Plan()'s output the way applier.Apply runs it, without the range-cache
// and decorator steps.
func execute(b *buffer.Memory, r Result) {
	b.BeginEdit()
	for _, instr := range r.Tape.Instructions {
		switch v := instr.(type) {
		case core.DeleteInstr:
			b.Replace(v.Range, core.AttrString{})
		case core.InsertInstr:
			b.Replace(core.Range{Location: v.At, Length: 0}, v.Text)
		case core.SetAttributesInstr:
			b.SetAttributes(v.Range, v.Attrs)
		case core.FixAttributesInstr:
			b.FixAttributes(v.Range)
		}
	}
	b.EndEdit()
}

// buildS1 matches the rangecache package's S1 fixture: Root -> A("Hello" +
// postamble "\n"), B("World").
func buildS1() (*core.EditorState, *rangecache.Cache) {
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hello", Postamble: "\n"})
	st.AddChild(core.Root, &core.NodeRecord{Key: "b", Kind: core.KindText, Text: "World"})

	c := rangecache.New()
	entries := map[core.NodeKey]rangecache.Entry{}
	BuildSubtreeEntries(st, core.Root, 0, entries)
	c.MergeEntries(entries)
	c.RebuildOrder()
	return st, c
}

func TestPlanHydrateFromEmpty(t *testing.T) {
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hi"})

	cache := rangecache.New()
	result := Plan(Params{Prev: core.NewEditorState(), Pending: st, Dirty: map[core.NodeKey]struct{}{"a": {}}, Cache: cache})
	if result.Tape.PathLabel != "hydrate-from-empty" {
		t.Fatalf("PathLabel = %q", result.Tape.PathLabel)
	}

	b := buffer.NewMemory()
	execute(b, result)
	if b.String() != "Hi" {
		t.Fatalf("String() = %q", b.String())
	}
	if len(result.Decorators.Added) != 0 {
		t.Errorf("expected no decorators, got %+v", result.Decorators)
	}
}

func TestPlanSingleTextEdit(t *testing.T) {
	prev, cache := buildS1()
	b := buffer.NewMemory()
	b.BeginEdit()
	b.Replace(core.Range{Location: 0, Length: 0}, core.PlainAttrString("Hello\nWorld", nil))
	b.EndEdit()

	pending := prev.Clone()
	pending.Nodes["a"].Text = "Hello there"

	result := Plan(Params{Prev: prev, Pending: pending, Dirty: map[core.NodeKey]struct{}{"a": {}}, Cache: cache})
	if result.Tape.PathLabel != "single-text-edit" {
		t.Fatalf("PathLabel = %q, want single-text-edit", result.Tape.PathLabel)
	}

	execute(b, result)
	if b.String() != "Hello there\nWorld" {
		t.Fatalf("String() = %q", b.String())
	}
}

func TestPlanAttributeOnly(t *testing.T) {
	prev, cache := buildS1()
	b := buffer.NewMemory()
	b.BeginEdit()
	b.Replace(core.Range{Location: 0, Length: 0}, core.PlainAttrString("Hello\nWorld", nil))
	b.EndEdit()

	pending := prev.Clone()
	pending.Nodes["a"].Attrs = theme.AttrMap{"bold": true}

	result := Plan(Params{Prev: prev, Pending: pending, Dirty: map[core.NodeKey]struct{}{"a": {}}, Cache: cache})
	if result.Tape.PathLabel != "attribute-only" {
		t.Fatalf("PathLabel = %q, want attribute-only", result.Tape.PathLabel)
	}

	execute(b, result)
	if b.String() != "Hello\nWorld" {
		t.Fatalf("attribute-only edit changed text: %q", b.String())
	}
	sub := b.AttributedSubstring(core.Range{Location: 0, Length: 5})
	if sub.Runs[0].Attrs["bold"] != true {
		t.Errorf("expected bold attribute applied, got %v", sub.Runs[0].Attrs)
	}
}

func TestPlanInsertBlock(t *testing.T) {
	prev, cache := buildS1()
	b := buffer.NewMemory()
	b.BeginEdit()
	b.Replace(core.Range{Location: 0, Length: 0}, core.PlainAttrString("Hello\nWorld", nil))
	b.EndEdit()

	pending := prev.Clone()
	pending.AddChild(core.Root, &core.NodeRecord{Key: "c", Kind: core.KindText, Text: "!"})

	result := Plan(Params{Prev: prev, Pending: pending, Dirty: map[core.NodeKey]struct{}{"c": {}}, Cache: cache})
	if result.Tape.PathLabel != "insert-block" {
		t.Fatalf("PathLabel = %q, want insert-block", result.Tape.PathLabel)
	}

	execute(b, result)
	if b.String() != "Hello\nWorld!" {
		t.Fatalf("String() = %q", b.String())
	}
	if _, ok := result.NewEntries["c"]; !ok {
		t.Errorf("expected a new cache entry for the inserted node")
	}
}

func TestPlanDeleteBlock(t *testing.T) {
	prev, cache := buildS1()
	b := buffer.NewMemory()
	b.BeginEdit()
	b.Replace(core.Range{Location: 0, Length: 0}, core.PlainAttrString("Hello\nWorld", nil))
	b.EndEdit()

	pending := core.NewEditorState()
	pending.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hello", Postamble: "\n"})

	result := Plan(Params{Prev: prev, Pending: pending, Dirty: map[core.NodeKey]struct{}{"b": {}}, Cache: cache})
	if result.Tape.PathLabel != "delete-block" {
		t.Fatalf("PathLabel = %q, want delete-block", result.Tape.PathLabel)
	}

	execute(b, result)
	if b.String() != "Hello\n" {
		t.Fatalf("String() = %q", b.String())
	}
	found := false
	for _, k := range result.PrunedKeys {
		if k == "b" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected b in PrunedKeys, got %v", result.PrunedKeys)
	}
}

func TestPlanKeyedReorder(t *testing.T) {
	st := core.NewEditorState()
	for _, k := range []core.NodeKey{"k1", "k2", "k3", "k4", "k5"} {
		st.AddChild(core.Root, &core.NodeRecord{Key: k, Kind: core.KindText, Text: string(k)})
	}
	cache := rangecache.New()
	entries := map[core.NodeKey]rangecache.Entry{}
	BuildSubtreeEntries(st, core.Root, 0, entries)
	cache.MergeEntries(entries)
	cache.RebuildOrder()

	b := buffer.NewMemory()
	b.BeginEdit()
	b.Replace(core.Range{Location: 0, Length: 0}, ComposeSubtree(st, core.Root, nil))
	b.EndEdit()

	pending := st.Clone()
	pending.Nodes[core.Root].Children = []core.NodeKey{"k1", "k3", "k2", "k5", "k4"}

	dirty := map[core.NodeKey]struct{}{"k2": {}, "k3": {}, "k4": {}, "k5": {}}
	result := Plan(Params{Prev: st, Pending: pending, Dirty: dirty, Cache: cache})
	if result.Tape.PathLabel != "keyed-reorder" {
		t.Fatalf("PathLabel = %q, want keyed-reorder", result.Tape.PathLabel)
	}

	execute(b, result)
	if b.String() != "k1k3k2k5k4" {
		t.Fatalf("String() = %q", b.String())
	}
}

// TestPlanFullRebuildFallback changes two different parents' children in
// one update (an insert under p1, a delete under p2), so no single-parent
// splice classifier applies and the planner must fall through to the slow
// path.
func TestPlanFullRebuildFallback(t *testing.T) {
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "p1", Kind: core.KindElement})
	st.AddChild(core.Root, &core.NodeRecord{Key: "p2", Kind: core.KindElement})
	st.AddChild("p1", &core.NodeRecord{Key: "t1", Kind: core.KindText, Text: "A"})
	st.AddChild("p2", &core.NodeRecord{Key: "t2", Kind: core.KindText, Text: "B"})

	cache := rangecache.New()
	entries := map[core.NodeKey]rangecache.Entry{}
	BuildSubtreeEntries(st, core.Root, 0, entries)
	cache.MergeEntries(entries)
	cache.RebuildOrder()

	b := buffer.NewMemory()
	b.BeginEdit()
	b.Replace(core.Range{Location: 0, Length: 0}, ComposeSubtree(st, core.Root, nil))
	b.EndEdit()

	pending := st.Clone()
	pending.AddChild("p1", &core.NodeRecord{Key: "t1x", Kind: core.KindText, Text: "X"})
	delete(pending.Nodes, "t2")
	pending.Nodes["p2"].Children = nil

	result := Plan(Params{Prev: st, Pending: pending, Dirty: map[core.NodeKey]struct{}{"t1x": {}, "t2": {}}, Cache: cache})
	if result.Tape.PathLabel != "full-rebuild" {
		t.Fatalf("PathLabel = %q, want full-rebuild", result.Tape.PathLabel)
	}

	execute(b, result)
	if b.String() != "AX" {
		t.Fatalf("String() = %q", b.String())
	}
}
