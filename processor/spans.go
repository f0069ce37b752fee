package processor

import "strings"

// Segment is one piece of text split on protected span markers.
type Segment struct {
	Text      string // Content without the delimiting markers
	Protected bool   // True for text between a marker pair
	Offset    int    // Byte offset of Text in the source
}

// EscapeMarker doubles every occurrence of marker so the text reads as
// literal markers to SplitProtected.
func EscapeMarker(text, marker string) string {
	if marker == "" {
		return text
	}
	return strings.ReplaceAll(text, marker, marker+marker)
}

// UnescapeMarker collapses doubled markers back to single ones.
func UnescapeMarker(text, marker string) string {
	if marker == "" {
		return text
	}
	return strings.ReplaceAll(text, marker+marker, marker)
}

// SplitProtected splits text into translatable fragments and protected
// spans.
//
// Outside a span a doubled marker is an escaped literal and stays in the
// fragment as written. A single marker opens a span that ends at the next
// marker. An opening marker without a partner is kept as literal text.
// Fragments and spans alternate in source order, and Offset locates each
// segment's text in the source.
func SplitProtected(text, marker string) []Segment {
	if marker == "" || !strings.Contains(text, marker) {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	m := len(marker)
	start := 0

	for i := 0; i < len(text); {
		if !strings.HasPrefix(text[i:], marker) {
			i++
			continue
		}
		if strings.HasPrefix(text[i+m:], marker) {
			i += 2 * m
			continue
		}

		end := strings.Index(text[i+m:], marker)
		if end < 0 {
			i += m
			continue
		}
		end += i + m

		if i > start {
			segments = append(segments, Segment{Text: text[start:i], Offset: start})
		}
		segments = append(segments, Segment{Text: text[i+m : end], Protected: true, Offset: i + m})

		i = end + m
		start = i
	}

	if start < len(text) {
		segments = append(segments, Segment{Text: text[start:], Offset: start})
	}
	return segments
}
