package models

import "strings"

// Segment is a run of assistant message text. Bold marks a span that was
// delimited by a paired ** marker in the raw content.
type Segment struct {
	Text string
	Bold bool
}

// ParseEmphasis splits raw assistant content into plain and emphasized
// segments. Only paired ** delimiters produce emphasis; a dangling opener
// stays literal text. Newlines are preserved inside segment text. The view
// layer renders segments itself, raw markup never reaches the terminal.
func ParseEmphasis(s string) []Segment {
	parts := strings.Split(s, "**")
	if len(parts) == 1 {
		if s == "" {
			return nil
		}
		return []Segment{{Text: s}}
	}

	// An even part count means an odd number of delimiters: the final
	// opener has no closer and is kept as literal text.
	dangling := len(parts)%2 == 0

	segs := make([]Segment, 0, len(parts))
	for i, p := range parts {
		bold := i%2 == 1
		if bold && dangling && i == len(parts)-1 {
			p = "**" + p
			bold = false
		}
		if p == "" {
			continue
		}
		segs = append(segs, Segment{Text: p, Bold: bold})
	}
	return segs
}
