package core

import "github.com/speier/scribe/pkg/scribe/theme"

// NodeRecord is one node's full data in a state snapshot . The
// reconciler never mutates these; a new pending EditorState is built by the
// caller of an update scope, and the reconciler only ever reads it.
type NodeRecord struct {
	Key    NodeKey
	Kind   NodeKind
	Parent NodeKey
	HasParent bool

	Children []NodeKey // Element only

	Text   string // Text only
	Format TextFormat

	Preamble         string
	Postamble        string
	SpecialPrefixLen int

	Inline          bool
	CanBeEmpty      bool
	ExcludeFromCopy bool

	Attrs theme.AttrMap
	Block *theme.BlockLevelAttributes
}

// EditorState is an immutable logical snapshot of the node tree.
// It is a concrete, map-backed NodeSource so tests (and simple embedders)
// can build trees directly; richer node-tree implementations may wrap their
// own storage in a type satisfying NodeSource instead.
type EditorState struct {
	Nodes     map[NodeKey]*NodeRecord
	Selection *Selection
	Version   uint64
}

// NewEditorState returns an empty state with only a root Element.
func NewEditorState() *EditorState {
	return &EditorState{
		Nodes: map[NodeKey]*NodeRecord{
			Root: {Key: Root, Kind: KindRoot, Children: nil},
		},
	}
}

// Clone returns a deep-enough copy for building a pending state from a prev
// state: node records are copied by value (slices re-sliced), so mutating
// the clone's Children/Attrs does not alias the original.
func (s *EditorState) Clone() *EditorState {
	out := &EditorState{
		Nodes:     make(map[NodeKey]*NodeRecord, len(s.Nodes)),
		Selection: s.Selection,
		Version:   s.Version + 1,
	}
	for k, rec := range s.Nodes {
		cp := *rec
		if rec.Children != nil {
			cp.Children = append([]NodeKey(nil), rec.Children...)
		}
		if rec.Attrs != nil {
			cp.Attrs = make(theme.AttrMap, len(rec.Attrs))
			for ak, av := range rec.Attrs {
				cp.Attrs[ak] = av
			}
		}
		out.Nodes[k] = &cp
	}
	return out
}

var _ NodeSource = (*EditorState)(nil)

func (s *EditorState) rec(key NodeKey) *NodeRecord { return s.Nodes[key] }

func (s *EditorState) Kind(key NodeKey) (NodeKind, bool) {
	r := s.rec(key)
	if r == nil {
		return 0, false
	}
	return r.Kind, true
}

func (s *EditorState) Preamble(key NodeKey) string {
	if r := s.rec(key); r != nil {
		return r.Preamble
	}
	return ""
}

func (s *EditorState) Postamble(key NodeKey) string {
	if r := s.rec(key); r != nil {
		return r.Postamble
	}
	return ""
}

func (s *EditorState) SpecialPrefixLen(key NodeKey) int {
	if r := s.rec(key); r != nil {
		return r.SpecialPrefixLen
	}
	return 0
}

func (s *EditorState) Text(key NodeKey) string {
	if r := s.rec(key); r != nil {
		return r.Text
	}
	return ""
}

func (s *EditorState) Format(key NodeKey) TextFormat {
	if r := s.rec(key); r != nil {
		return r.Format
	}
	return 0
}

func (s *EditorState) IsInline(key NodeKey) bool {
	if r := s.rec(key); r != nil {
		return r.Inline
	}
	return false
}

func (s *EditorState) CanBeEmpty(key NodeKey) bool {
	if r := s.rec(key); r != nil {
		return r.CanBeEmpty
	}
	return false
}

func (s *EditorState) ExcludeFromCopy(key NodeKey) bool {
	if r := s.rec(key); r != nil {
		return r.ExcludeFromCopy
	}
	return false
}

func (s *EditorState) AttributedAttributes(key NodeKey, _ theme.Theme) theme.AttrMap {
	if r := s.rec(key); r != nil {
		return r.Attrs
	}
	return nil
}

func (s *EditorState) BlockLevelAttributes(key NodeKey, _ theme.Theme) (theme.BlockLevelAttributes, bool) {
	r := s.rec(key)
	if r == nil || r.Block == nil {
		return theme.BlockLevelAttributes{}, false
	}
	return *r.Block, true
}

func (s *EditorState) Children(key NodeKey) []NodeKey {
	if r := s.rec(key); r != nil {
		return r.Children
	}
	return nil
}

func (s *EditorState) Parent(key NodeKey) (NodeKey, bool) {
	if r := s.rec(key); r != nil && r.HasParent {
		return r.Parent, true
	}
	return "", false
}

// Exists reports whether key is present in this state.
func (s *EditorState) Exists(key NodeKey) bool {
	_, ok := s.Nodes[key]
	return ok
}

// AddChild attaches a new child record under parent, appending it to the
// parent's child list. It is a convenience for building states in tests and
// demos; production node-tree implementations have their own mutation API
// and only ever hand the reconciler a finished NodeSource.
func (s *EditorState) AddChild(parent NodeKey, rec *NodeRecord) {
	rec.Parent = parent
	rec.HasParent = true
	s.Nodes[rec.Key] = rec
	if p := s.Nodes[parent]; p != nil {
		p.Children = append(p.Children, rec.Key)
	}
}
