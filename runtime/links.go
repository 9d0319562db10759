package runtime

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// linkMarkers are the scheme tokens that open a URL in free-form chat text.
var linkMarkers = []string{"http://", "https://"}

// LinkFinder locates URLs inside chat lines with a multi-pattern scan for
// scheme markers, then extends each hit to the surrounding whitespace
// boundary.
type LinkFinder struct {
	matcher *goahocorasick.Machine
}

func NewLinkFinder() (*LinkFinder, error) {
	patterns := make([][]rune, len(linkMarkers))
	for i, marker := range linkMarkers {
		patterns[i] = []rune(marker)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &LinkFinder{matcher: m}, nil
}

// Find returns every URL in text, in order of appearance, without duplicates.
func (f *LinkFinder) Find(text string) []string {
	runes := []rune(text)
	spans := f.matcher.MultiPatternSearch(runes, false)
	if len(spans) == 0 {
		return nil
	}

	var links []string
	lastEnd := -1
	for _, span := range spans {
		start := span.Pos
		if start <= lastEnd {
			// "https://" also contains no other marker, but overlapping
			// hits inside an already collected URL are skipped.
			continue
		}
		end := start
		for end < len(runes) && !unicode.IsSpace(runes[end]) {
			end++
		}
		link := strings.TrimRight(string(runes[start:end]), ".,;!?)'\"")
		// A bare scheme marker with nothing after it is not a link.
		if len(link) > len(string(span.Word)) {
			links = append(links, link)
			lastEnd = end
		}
	}
	return links
}
