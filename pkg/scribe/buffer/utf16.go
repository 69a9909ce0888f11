package buffer

import "unicode/utf16"

func runesToUTF16(rs []rune) []uint16 {
	return utf16.Encode(rs)
}

func utf16ToRunes(units []uint16) []rune {
	return utf16.Decode(units)
}
