package diff

import (
	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/rangecache"
	"github.com/speier/scribe/pkg/scribe/theme"
)

// ComposeSubtree renders key's subtree to an attributed string in document
// order , the slow-path building block every
// structural classifier (hydrate, insert-block, multi-node replace, full
// rebuild) reduces to for the region it touches.
func ComposeSubtree(src core.NodeSource, key core.NodeKey, th theme.Theme) core.AttrString {
	kind, _ := src.Kind(key)
	attrs := src.AttributedAttributes(key, th)
	pre := src.Preamble(key)
	post := src.Postamble(key)

	var out core.AttrString
	if pre != "" {
		out = core.Concat(out, core.PlainAttrString(pre, attrs))
	}

	switch kind {
	case core.KindText:
		out = core.Concat(out, core.PlainAttrString(src.Text(key), attrs))
	case core.KindDecorator:
		out = core.Concat(out, core.PlainAttrString(string(core.AttachmentChar), attrs))
	case core.KindLineBreak:
		out = core.Concat(out, core.PlainAttrString("\n", attrs))
	case core.KindElement, core.KindRoot:
		for _, child := range src.Children(key) {
			out = core.Concat(out, ComposeSubtree(src, child, th))
		}
	}

	if post != "" {
		out = core.Concat(out, core.PlainAttrString(post, attrs))
	}
	return out
}

// BuildSubtreeEntries recomposes key's subtree starting at startLoc and
// records a rangecache.Entry for every node in it, returning the subtree's
// total entire_len.
// Structural classifiers use this to produce the cache entries a freshly
// inserted or wholesale-rebuilt region needs; the caller merges the result
// into the live cache via Cache.MergeEntries.
func BuildSubtreeEntries(src core.NodeSource, key core.NodeKey, startLoc int, out map[core.NodeKey]rangecache.Entry) int {
	kind, _ := src.Kind(key)
	pre := core.UTF16Len(src.Preamble(key))
	post := core.UTF16Len(src.Postamble(key))
	special := src.SpecialPrefixLen(key)

	switch kind {
	case core.KindText:
		textLen := core.UTF16Len(src.Text(key))
		out[key] = rangecache.Entry{Location: startLoc, PreambleLen: pre, TextLen: textLen, PostambleLen: post, PreambleSpecialLen: special}
		return pre + textLen + post
	case core.KindDecorator, core.KindLineBreak:
		out[key] = rangecache.Entry{Location: startLoc, PreambleLen: pre, TextLen: 1, PostambleLen: post, PreambleSpecialLen: special}
		return pre + 1 + post
	default: // KindElement, KindRoot
		childStart := startLoc + pre
		childrenLen := 0
		for _, child := range src.Children(key) {
			childrenLen += BuildSubtreeEntries(src, child, childStart+childrenLen, out)
		}
		out[key] = rangecache.Entry{Location: startLoc, PreambleLen: pre, ChildrenLen: childrenLen, PostambleLen: post, PreambleSpecialLen: special}
		return pre + childrenLen + post
	}
}

// SubtreeKeys lists key and every descendant, document order not required.
func SubtreeKeys(src core.NodeSource, key core.NodeKey) []core.NodeKey {
	out := []core.NodeKey{key}
	for _, child := range src.Children(key) {
		out = append(out, SubtreeKeys(src, child)...)
	}
	return out
}
