// Package theme defines the stable, string-keyed attribute namespace the
// reconciler and node tree share, and the internal keys reserved for the
// reconciler's own bookkeeping.
package theme

// AttrKey identifies a single attributed-string attribute (color, font,
// link, attachment metadata, paragraph style, or one of the internal keys
// below). It is an opaque string so node implementations can register their
// own keys without the reconciler needing to know about them.
type AttrKey string

// Value is whatever a node's attribute map wants to associate with an
// AttrKey; the reconciler never interprets it, only plumbs it through to the
// backing buffer.
type Value any

// AttrMap is the per-run attribute set a node contributes.
type AttrMap map[AttrKey]Value

// Internal keys reserved for the reconciler's own paragraph-style pass.
// Node implementations and platform code MUST NOT set these directly;
// the applier owns them.
const (
	IndentInternal                   AttrKey = "indent_internal"
	ParagraphSpacingBeforeInternal   AttrKey = "paragraph_spacing_before_internal"
	ParagraphSpacingInternal         AttrKey = "paragraph_spacing_internal"
	AppliedBlockLevelStylesInternal  AttrKey = "applied_block_level_styles_internal"
)

// reservedKeys lists the internal namespace for collision checks.
var reservedKeys = map[AttrKey]bool{
	IndentInternal:                  true,
	ParagraphSpacingBeforeInternal:  true,
	ParagraphSpacingInternal:        true,
	AppliedBlockLevelStylesInternal: true,
}

// IsReserved reports whether key collides with the internal namespace.
func IsReserved(key AttrKey) bool {
	return reservedKeys[key]
}

// BlockLevelAttributes are the margin/padding/indent knobs a block node
// contributes to the paragraph-style pass.
type BlockLevelAttributes struct {
	MarginTop     int
	MarginBottom  int
	PaddingTop    int
	PaddingBottom int
	IndentLevel   int
	IndentSize    int
}

// Theme is an opaque handle a node implementation uses to derive attributes;
// the reconciler never inspects it, only forwards it to NodeSource methods.
type Theme any
