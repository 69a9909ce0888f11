package core

import "github.com/speier/scribe/pkg/scribe/theme"

// NodeSource is the read-only node-tree interface the reconciler consumes
// during a reconcile cycle . It is the reconciler's only contact
// with the node tree's internals; everything else about node behavior is
// opaque. Implementations are expected to be cheap, pure-value lookups —
// the reconciler may call any of these methods many times per update.
type NodeSource interface {
	// Kind returns the node's tagged kind.
	Kind(key NodeKey) (NodeKind, bool)

	// Preamble/Postamble return the characters a node contributes before
	// and after its children/text.
	Preamble(key NodeKey) string
	Postamble(key NodeKey) string

	// SpecialPrefixLen returns how many leading code units of Preamble(key)
	// are a "special" (non-selectable) prefix; it must be <= len(Preamble(key))
	// in UTF-16 code units. EditorState returns each NodeRecord's
	// SpecialPrefixLen field as the caller set it (0 by default); the
	// reconciler applies no per-kind rule of its own.
	SpecialPrefixLen(key NodeKey) int

	// Text and Format are only meaningful for Text nodes.
	Text(key NodeKey) string
	Format(key NodeKey) TextFormat

	// IsInline, CanBeEmpty and ExcludeFromCopy are policy predicates a node
	// kind may override.
	IsInline(key NodeKey) bool
	CanBeEmpty(key NodeKey) bool
	ExcludeFromCopy(key NodeKey) bool

	// AttributedAttributes derives the run-level attribute map for key
	// under the given theme.
	AttributedAttributes(key NodeKey, th theme.Theme) theme.AttrMap

	// BlockLevelAttributes returns the paragraph-style knobs for key, or
	// ok=false if key is not a block node.
	BlockLevelAttributes(key NodeKey, th theme.Theme) (attrs theme.BlockLevelAttributes, ok bool)

	// Children returns key's ordered child keys (Element nodes only).
	Children(key NodeKey) []NodeKey

	// Parent returns key's parent, or ok=false for the root.
	Parent(key NodeKey) (NodeKey, bool)
}
