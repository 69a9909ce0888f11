package core

import "github.com/speier/scribe/pkg/scribe/theme"

// AttrString is the minimal attributed-string payload the planner composes
// and the applier inserts: a slice of Runs, each a span of text with its
// own attribute map. Multi-run composition (e.g. an inserted subtree with
// several differently-attributed children) has one run per span; single-run
// inserts (the common case) have exactly one.
type AttrString struct {
	Runs []Run
}

// Run is one contiguous span of text sharing one attribute map.
type Run struct {
	Text  string
	Attrs theme.AttrMap
}

// Len returns the run's total length in UTF-16 code units, matching the
// buffer's native length unit.
func (a AttrString) Len() int {
	n := 0
	for _, r := range a.Runs {
		n += UTF16Len(r.Text)
	}
	return n
}

// String concatenates the runs' text.
func (a AttrString) String() string {
	var out []byte
	for _, r := range a.Runs {
		out = append(out, r.Text...)
	}
	return string(out)
}

// PlainAttrString builds a single-run AttrString.
func PlainAttrString(text string, attrs theme.AttrMap) AttrString {
	return AttrString{Runs: []Run{{Text: text, Attrs: attrs}}}
}

// Concat appends b's runs after a's.
func Concat(a, b AttrString) AttrString {
	return AttrString{Runs: append(append([]Run(nil), a.Runs...), b.Runs...)}
}

// Range is a half-open [Location, Location+Length) span in the backing
// buffer, measured in UTF-16 code units.
type Range struct {
	Location int
	Length   int
}

func (r Range) End() int { return r.Location + r.Length }

// DecoratorOpKind enumerates the decorator lifecycle transitions.
type DecoratorOpKind int

const (
	DecoratorAdd DecoratorOpKind = iota
	DecoratorRemove
	DecoratorDecorate
	DecoratorMove
)

// Instruction is one entry of the tape the planner emits and the applier
// executes.
type Instruction interface {
	isInstruction()
}

type DeleteInstr struct{ Range Range }
type InsertInstr struct {
	At   int
	Text AttrString
}
type SetAttributesInstr struct {
	Range Range
	Attrs theme.AttrMap
}
type FixAttributesInstr struct{ Range Range }
type DecoratorOpInstr struct {
	Key  NodeKey
	Kind DecoratorOpKind
}
type ApplyBlockAttributesInstr struct {
	Key   NodeKey
	Attrs theme.BlockLevelAttributes
}

func (DeleteInstr) isInstruction()               {}
func (InsertInstr) isInstruction()                {}
func (SetAttributesInstr) isInstruction()         {}
func (FixAttributesInstr) isInstruction()         {}
func (DecoratorOpInstr) isInstruction()           {}
func (ApplyBlockAttributesInstr) isInstruction()  {}

// Part names which of a node's own (pre/text/post) spans a length delta
// applies to — shared with C3's range cache so the planner never has to
// import it directly (rangecache.Part is a type alias for this).
type Part int

const (
	PartPre Part = iota
	PartText
	PartPost
)

// PartDelta is a net UTF-16-code-unit length change to one of a node's own
// parts : single-text-edit changes PartText, a preamble/postamble
// rewrite changes PartPre/PartPost. The applier propagates each delta to the
// node's ancestors' children_len.
type PartDelta struct {
	Key   NodeKey
	Part  Part
	Delta int
}

// ChildrenDelta is a net length change to a node's children_len caused by a
// structural edit (insert/delete/replace a child subtree) rather than a
// change to the node's own parts. The applier propagates it to the node's
// ancestors the same way.
type ChildrenDelta struct {
	Key   NodeKey
	Delta int
}

// Tape is the ordered sequence of instructions a classifier branch emits.
type Tape struct {
	Instructions []Instruction
	PartDeltas   []PartDelta
	ChildrenDeltas []ChildrenDelta
	// ShiftAfter lists location shifts (see Shift): every node whose
	// pre-mutation location is >= AfterLocation moves by Delta, except the
	// nodes named in PartDeltas/ChildrenDeltas and their ancestors, which
	// the applier keeps in place.
	ShiftAfter []Shift
	PathLabel  string
}

// Shift is a range-add request over document order expressed by location
// rather than by index, so planner code never has to know about C2's index
// assignment : every node whose pre-mutation
// cached location is >= AfterLocation moves by Delta. The applier resolves
// AfterLocation to an order-vector index via the still-current (pre-prune)
// order before applying the Fenwick/diff-array pass.
type Shift struct {
	AfterLocation int
	Delta         int
}
