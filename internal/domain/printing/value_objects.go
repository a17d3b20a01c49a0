package printing

import (
	"fmt"
	"strings"
)

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`    // Top margin in mm
	Right  int `json:"right"`  // Right margin in mm
	Bottom int `json:"bottom"` // Bottom margin in mm
	Left   int `json:"left"`   // Left margin in mm
}

// FullBleed returns zero margins; the invoice layout draws its own bands edge to edge
func FullBleed() Margins {
	return Margins{}
}

// RGB is an 8-bit colour
type RGB struct {
	R, G, B uint8
}

// Hex returns the colour as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Ints returns the channels as ints, the form PDF drawing calls take
func (c RGB) Ints() (int, int, int) {
	return int(c.R), int(c.G), int(c.B)
}

// TextSegment is a run of text that is either emphasized or plain
type TextSegment struct {
	Text       string `json:"text"`
	Emphasized bool   `json:"emphasized"`
}

// SplitEmphasis cuts text into segments so that every occurrence of a phrase
// (matched case-insensitively) becomes its own emphasized segment. Overlapping
// matches resolve to the earliest, then longest, phrase.
func SplitEmphasis(text string, phrases []string) []TextSegment {
	if text == "" {
		return nil
	}
	var segs []TextSegment
	plainStart := 0

	for i := 0; i < len(text); {
		match := 0
		for _, p := range phrases {
			if p == "" || len(p) <= match {
				continue
			}
			if len(text)-i >= len(p) && strings.EqualFold(text[i:i+len(p)], p) {
				match = len(p)
			}
		}
		if match == 0 {
			i++
			continue
		}
		if plainStart < i {
			segs = append(segs, TextSegment{Text: text[plainStart:i]})
		}
		segs = append(segs, TextSegment{Text: text[i : i+match], Emphasized: true})
		i += match
		plainStart = i
	}
	if plainStart < len(text) {
		segs = append(segs, TextSegment{Text: text[plainStart:]})
	}
	return segs
}
