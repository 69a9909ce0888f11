package core

import "unicode/utf16"

// UTF16Len returns the length of s in UTF-16 code units — the buffer's
// native length unit, so surrogate-pair characters (outside the BMP, e.g.
// most emoji) count as 2, matching what a platform keyboard's deletion
// boundary actually spans.
func UTF16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// UTF16Slice returns the substring covering UTF-16 code units [start, end)
// of s. It is safe to call with start==end==len in UTF-16 units.
func UTF16Slice(s string, start, end int) string {
	units := utf16.Encode([]rune(s))
	if start < 0 {
		start = 0
	}
	if end > len(units) {
		end = len(units)
	}
	if start > end {
		start = end
	}
	return string(utf16.Decode(units[start:end]))
}
