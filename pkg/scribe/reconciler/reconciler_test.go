package reconciler

import (
	"errors"
	"testing"

	"github.com/speier/scribe/pkg/scribe/applier"
	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/theme"
)

// TestS1SingleTextEditFenwickShift verifies that appending text to one
// paragraph shifts only the following sibling's cached location.
func TestS1SingleTextEditFenwickShift(t *testing.T) {
	r := New(nil, nil)

	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hello", Postamble: "\n"})
	st.AddChild(core.Root, &core.NodeRecord{Key: "b", Kind: core.KindText, Text: "World"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"a": {}, "b": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate Update: %v", err)
	}
	if got := r.Read().Text; got != "Hello\nWorld" {
		t.Fatalf("after hydrate: %q", got)
	}

	pending := st.Clone()
	pending.Nodes["a"].Text = "Hello there"
	if err := r.Update(pending, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap := r.Read()
	if snap.Text != "Hello there\nWorld" {
		t.Fatalf("Text = %q, want %q", snap.Text, "Hello there\nWorld")
	}
	bEntry, ok := r.cache.Get("b")
	if !ok {
		t.Fatalf("expected cache entry for b")
	}
	if bEntry.Location != 12 {
		t.Errorf("b.Location = %d, want 12", bEntry.Location)
	}
	aEntry, _ := r.cache.Get("a")
	if aEntry.Location != 0 {
		t.Errorf("a.Location = %d, want 0", aEntry.Location)
	}
}

// TestS2AttributeOnlyToggle mirrors S2: toggling bold is a pure attribute
// pass with no length change.
func TestS2AttributeOnlyToggle(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hi"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	before := r.buf.Length()

	pending := st.Clone()
	pending.Nodes["a"].Attrs = theme.AttrMap{"bold": true}
	if err := r.Update(pending, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.buf.Length() != before {
		t.Errorf("buffer length changed: before=%d after=%d", before, r.buf.Length())
	}
	if r.Read().Text != "Hi" {
		t.Errorf("text changed: %q", r.Read().Text)
	}
}

// TestS3InsertBlockAtMiddle mirrors S3: inserting a node between two
// existing siblings shifts only what follows the insertion point.
func TestS3InsertBlockAtMiddle(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "p1", Kind: core.KindText, Text: "A", Postamble: "\n"})
	st.AddChild(core.Root, &core.NodeRecord{Key: "p2", Kind: core.KindText, Text: "C"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"p1": {}, "p2": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if r.Read().Text != "A\nC" {
		t.Fatalf("Text = %q", r.Read().Text)
	}

	pending := st.Clone()
	rec := &core.NodeRecord{Key: "p1.5", Kind: core.KindText, Text: "B", Postamble: "\n"}
	rec.Parent = core.Root
	rec.HasParent = true
	pending.Nodes["p1.5"] = rec
	pending.Nodes[core.Root].Children = []core.NodeKey{"p1", "p1.5", "p2"}

	if err := r.Update(pending, map[core.NodeKey]struct{}{"p1.5": {}}, nil, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.Read().Text != "A\nB\nC" {
		t.Fatalf("Text = %q, want %q", r.Read().Text, "A\nB\nC")
	}
	p2, ok := r.cache.Get("p2")
	if !ok || p2.Location != 4 {
		t.Errorf("p2.Location = %+v, want 4", p2)
	}
	if _, ok := r.cache.Get("p1.5"); !ok {
		t.Errorf("expected a new cache entry for p1.5")
	}
}

// TestS4KeyedReorderMinimalMoves mirrors S4.
func TestS4KeyedReorderMinimalMoves(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	for _, pair := range [][2]string{{"k1", "a"}, {"k2", "b"}, {"k3", "c"}, {"k4", "d"}, {"k5", "e"}} {
		st.AddChild(core.Root, &core.NodeRecord{Key: core.NodeKey(pair[0]), Kind: core.KindText, Text: pair[1]})
	}
	dirty := map[core.NodeKey]struct{}{"k1": {}, "k2": {}, "k3": {}, "k4": {}, "k5": {}}
	if err := r.Update(st, dirty, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if r.Read().Text != "abcde" {
		t.Fatalf("Text = %q", r.Read().Text)
	}

	pending := st.Clone()
	pending.Nodes[core.Root].Children = []core.NodeKey{"k1", "k3", "k2", "k5", "k4"}
	if err := r.Update(pending, map[core.NodeKey]struct{}{"k2": {}, "k3": {}, "k4": {}, "k5": {}}, nil, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.Read().Text != "acbed" {
		t.Fatalf("Text = %q, want %q", r.Read().Text, "acbed")
	}
}

// TestS5MultiNodeContiguousReplace mirrors S5.
func TestS5MultiNodeContiguousReplace(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "t1", Kind: core.KindText, Text: "Hello "})
	st.AddChild(core.Root, &core.NodeRecord{Key: "t2", Kind: core.KindText, Text: "world"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"t1": {}, "t2": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	pending := core.NewEditorState()
	pending.AddChild(core.Root, &core.NodeRecord{Key: "t3", Kind: core.KindText, Text: "Hi"})
	pending.AddChild(core.Root, &core.NodeRecord{Key: "t4", Kind: core.KindText, Text: " there"})
	if err := r.Update(pending, map[core.NodeKey]struct{}{"t1": {}, "t2": {}}, nil, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.Read().Text != "Hi there" {
		t.Fatalf("Text = %q, want %q", r.Read().Text, "Hi there")
	}
	if _, ok := r.cache.Get("t1"); ok {
		t.Errorf("expected t1 pruned from cache")
	}
}

// TestS6IMECompositionCJK verifies that the first keystroke creates the
// node via hydrate (cache is still empty, so composition_key is withheld
// and the update falls through to insert-block/hydrate instead); only the
// second keystroke, against an already-cached node, takes the composition
// path.
func TestS6IMECompositionCJK(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "t1", Kind: core.KindText, Text: "か"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"t1": {}}, nil, ""); err != nil {
		t.Fatalf("update 1: %v", err)
	}
	if r.Read().Text != "か" {
		t.Fatalf("Text after update 1 = %q", r.Read().Text)
	}

	pending := st.Clone()
	pending.Nodes["t1"].Text = "か゛"
	marked := &core.MarkedTextOperation{Create: false, ReplaceRangeLoc: 0, ReplaceRangeLen: 1, Text: "か゛"}
	if err := r.Update(pending, map[core.NodeKey]struct{}{"t1": {}}, marked, "t1"); err != nil {
		t.Fatalf("update 2: %v", err)
	}
	if r.Read().Text != "か゛" {
		t.Fatalf("Text after update 2 = %q, want %q", r.Read().Text, "か゛")
	}
}

// TestCompositionSkipsSelectionReconcile verifies spec §4.7's composition
// guard: while compositionKey is set, Update must not touch
// pending.Selection at all, even though a normal Update would remap it
// against the post-apply cache. A caller-supplied selection (here
// deliberately left in a stale-looking state from before the composition
// keystroke) must come out of Update byte-for-byte identical.
func TestCompositionSkipsSelectionReconcile(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "t1", Kind: core.KindText, Text: "か"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"t1": {}}, nil, ""); err != nil {
		t.Fatalf("update 1: %v", err)
	}

	pending := st.Clone()
	pending.Nodes["t1"].Text = "か゛"
	stale := &core.Selection{Range: &core.RangeSelection{
		Anchor: core.Point{Key: "t1", Offset: 0, Side: core.SideText},
		Focus:  core.Point{Key: "t1", Offset: 0, Side: core.SideText},
	}}
	pending.Selection = stale
	marked := &core.MarkedTextOperation{Create: false, ReplaceRangeLoc: 0, ReplaceRangeLen: 1, Text: "か゛"}
	if err := r.Update(pending, map[core.NodeKey]struct{}{"t1": {}}, marked, "t1"); err != nil {
		t.Fatalf("composition update: %v", err)
	}

	got := r.committed.Selection
	if got != stale {
		t.Fatalf("Selection changed during composition: got %+v, want the untouched caller-supplied value %+v", got, stale)
	}
	if got.Range.Anchor.Offset != 0 || got.Range.Focus.Offset != 0 {
		t.Errorf("Selection offsets mutated during composition: %+v", got.Range)
	}
}

// TestDoubleReconcileIsNoOp verifies that reconciling twice with no
// intermediate mutation (empty dirty set, same pending) produces zero
// instructions and leaves the range cache and buffer unchanged.
func TestDoubleReconcileIsNoOp(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hello"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	before := r.Read().Text
	beforeEntry, _ := r.cache.Get("a")

	same := r.committed
	if err := r.Update(same, nil, nil, ""); err != nil {
		t.Fatalf("no-op Update: %v", err)
	}
	if r.Read().Text != before {
		t.Errorf("text changed on a no-op reconcile: %q -> %q", before, r.Read().Text)
	}
	afterEntry, _ := r.cache.Get("a")
	if afterEntry != beforeEntry {
		t.Errorf("cache entry changed on a no-op reconcile: %+v -> %+v", beforeEntry, afterEntry)
	}
}

// TestReentrantUpdateRejected exercises the re-entrancy guard: a
// decorator that tries to start a nested Update gets ErrReentrantUpdate
// instead of corrupting the in-flight reconcile.
func TestReentrantUpdateRejected(t *testing.T) {
	r := New(nil, nil)
	reentrant := &reentrantDecorators{r: r}
	r.dec = reentrant

	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "img", Kind: core.KindDecorator})
	if err := r.Update(st, map[core.NodeKey]struct{}{"img": {}}, nil, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !errors.Is(reentrant.gotErr, core.ErrReentrantUpdate) {
		t.Fatalf("nested Update error = %v, want ErrReentrantUpdate", reentrant.gotErr)
	}
}

// TestSingleCharInsertAtBoundaries exercises planSingleTextEdit with the
// inserted character at the start, middle, and end of the node's text.
func TestSingleCharInsertAtBoundaries(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "BCD"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	pending := st.Clone()
	pending.Nodes["a"].Text = "ABCD"
	if err := r.Update(pending, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("insert at start: %v", err)
	}
	if got := r.Read().Text; got != "ABCD" {
		t.Fatalf("Text = %q, want ABCD", got)
	}

	pending2 := pending.Clone()
	pending2.Nodes["a"].Text = "ABXCD"
	if err := r.Update(pending2, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("insert at middle: %v", err)
	}
	if got := r.Read().Text; got != "ABXCD" {
		t.Fatalf("Text = %q, want ABXCD", got)
	}

	pending3 := pending2.Clone()
	pending3.Nodes["a"].Text = "ABXCDE"
	if err := r.Update(pending3, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("insert at end: %v", err)
	}
	if got := r.Read().Text; got != "ABXCDE" {
		t.Fatalf("Text = %q, want ABXCDE", got)
	}
}

// TestSingleCharDeleteAtBoundaries mirrors TestSingleCharInsertAtBoundaries
// for deletion at the first, last, and a middle index.
func TestSingleCharDeleteAtBoundaries(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "ABCDE"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	pending := st.Clone()
	pending.Nodes["a"].Text = "BCDE"
	if err := r.Update(pending, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("delete first: %v", err)
	}
	if got := r.Read().Text; got != "BCDE" {
		t.Fatalf("Text = %q, want BCDE", got)
	}

	pending2 := pending.Clone()
	pending2.Nodes["a"].Text = "BCD"
	if err := r.Update(pending2, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("delete last: %v", err)
	}
	if got := r.Read().Text; got != "BCD" {
		t.Fatalf("Text = %q, want BCD", got)
	}

	pending3 := pending2.Clone()
	pending3.Nodes["a"].Text = "BD"
	if err := r.Update(pending3, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("delete middle: %v", err)
	}
	if got := r.Read().Text; got != "BD" {
		t.Fatalf("Text = %q, want BD", got)
	}
}

// TestInsertParagraphBreakCaretAtStartOfSecondHalf verifies that inserting a
// paragraph separator at the caret leaves the caret at the start of the text
// that followed it, not where it sat before the insert.
func TestInsertParagraphBreakCaretAtStartOfSecondHalf(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hello World"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	r.committed.Selection = &core.Selection{Range: &core.RangeSelection{
		Anchor: core.Point{Key: "a", Offset: 5, Side: core.SideText},
		Focus:  core.Point{Key: "a", Offset: 5, Side: core.SideText},
	}}

	pending := r.committed.Clone()
	pending.Nodes["a"].Text = "Hello\n World"
	if err := r.Update(pending, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := r.Read().Text; got != "Hello\n World" {
		t.Fatalf("Text = %q, want %q", got, "Hello\n World")
	}

	sel := r.committed.Selection
	if sel == nil || sel.Range == nil {
		t.Fatalf("expected a resolved range selection, got %+v", sel)
	}
	if sel.Range.Anchor.Key != "a" || sel.Range.Anchor.Offset != 6 {
		t.Errorf("caret after split = %+v, want {a 6 text}", sel.Range.Anchor)
	}
}

// TestBackspaceMergesParagraphsCaretAtJoin verifies that removing a
// paragraph separator leaves the caret at the join point rather than
// wherever it sat relative to the now-gone second half.
func TestBackspaceMergesParagraphsCaretAtJoin(t *testing.T) {
	r := New(nil, nil)
	st := core.NewEditorState()
	st.AddChild(core.Root, &core.NodeRecord{Key: "a", Kind: core.KindText, Text: "Hello\n World"})
	if err := r.Update(st, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	r.committed.Selection = &core.Selection{Range: &core.RangeSelection{
		Anchor: core.Point{Key: "a", Offset: 6, Side: core.SideText},
		Focus:  core.Point{Key: "a", Offset: 6, Side: core.SideText},
	}}

	pending := r.committed.Clone()
	pending.Nodes["a"].Text = "Hello World"
	if err := r.Update(pending, map[core.NodeKey]struct{}{"a": {}}, nil, ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := r.Read().Text; got != "Hello World" {
		t.Fatalf("Text = %q, want %q", got, "Hello World")
	}

	sel := r.committed.Selection
	if sel == nil || sel.Range == nil {
		t.Fatalf("expected a resolved range selection, got %+v", sel)
	}
	if sel.Range.Anchor.Key != "a" || sel.Range.Anchor.Offset != 5 {
		t.Errorf("caret after merge = %+v, want {a 5 text}", sel.Range.Anchor)
	}
}

type reentrantDecorators struct {
	r      *Reconciler
	gotErr error
}

func (d *reentrantDecorators) Mount(key core.NodeKey) {
	nested := core.NewEditorState()
	d.gotErr = d.r.Update(nested, nil, nil, "")
}
func (d *reentrantDecorators) Decorate(core.NodeKey) {}
func (d *reentrantDecorators) Unmount(core.NodeKey)  {}

var _ applier.Decorators = (*reentrantDecorators)(nil)
