package processor

import (
	"iter"
	"slices"
	"unicode"
)

// sentenceBoundaries end a sentence; a cut after one keeps the punctuation
// with the left part.
var sentenceBoundaries = []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}

// Chunks splits text into pieces of at most maxLength runes. Cuts prefer
// the newline marker, then a sentence boundary, then a space, and fall back
// to a hard cut at maxLength. Whitespace around each cut is trimmed.
//
// The sequence is lazy and can be ranged over any number of times.
func Chunks(text string, maxLength int, newlineMarker string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := []rune(text)
		if maxLength <= 0 || len(rest) <= maxLength {
			if len(rest) > 0 {
				yield(text)
			}
			return
		}

		marker := []rune(newlineMarker)
		for len(rest) > 0 {
			if len(rest) <= maxLength {
				yield(string(rest))
				return
			}

			cut := cutPoint(rest, maxLength, marker)
			part := trimSpace(rest[:cut])
			rest = trimSpace(rest[cut:])

			if len(part) > 0 && !yield(string(part)) {
				return
			}
		}
	}
}

// Split collects Chunks into a slice.
func Split(text string, maxLength int, newlineMarker string) []string {
	return slices.Collect(Chunks(text, maxLength, newlineMarker))
}

// cutPoint returns the end of the next part.
func cutPoint(text []rune, maxLength int, marker []rune) int {
	if len(marker) > 0 {
		if pos := lastIndex(text, marker, maxLength); pos > 0 {
			return pos + len(marker)
		}
	}

	best := -1
	for _, boundary := range sentenceBoundaries {
		b := []rune(boundary)
		if pos := lastIndex(text, b, maxLength); pos >= 0 && pos+len(b) > best {
			best = pos + len(b)
		}
	}
	if best > 0 {
		return best
	}

	if pos := lastIndex(text, []rune{' '}, maxLength); pos > 0 {
		return pos
	}

	return maxLength
}

// lastIndex finds the last occurrence of sub that ends at or before limit.
func lastIndex(text, sub []rune, limit int) int {
	if limit > len(text) {
		limit = len(text)
	}
	for i := limit - len(sub); i >= 0; i-- {
		if slices.Equal(text[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func trimSpace(r []rune) []rune {
	start, end := 0, len(r)
	for start < end && unicode.IsSpace(r[start]) {
		start++
	}
	for end > start && unicode.IsSpace(r[end-1]) {
		end--
	}
	return r[start:end]
}
