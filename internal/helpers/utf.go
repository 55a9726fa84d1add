package helpers

import "unicode/utf8"

func ContainsNonBMPCodePoint(text string) bool {
	for _, c := range text {
		if c > 0xFFFF {
			return true
		}
	}
	return false
}

// The number of UTF-16 code units needed to encode the text
func UTF16Len(text string) int {
	if !ContainsNonBMPCodePoint(text) {
		return utf8.RuneCountInString(text)
	}
	n := 0
	for _, c := range text {
		if c <= 0xFFFF {
			n++
		} else {
			n += 2
		}
	}
	return n
}

// Converts an offset in UTF-16 code units into a byte offset. An offset that
// lands in the middle of a surrogate pair is moved to the end of that pair.
// Offsets past the end of the text are clamped to the end.
func UTF16ToByteOffset(text string, units int) int {
	for i, c := range text {
		if units <= 0 {
			return i
		}
		if c <= 0xFFFF {
			units--
		} else {
			units -= 2
		}
	}
	return len(text)
}
