package classify

import (
	"strings"
	"unicode/utf8"
)

const snippetContext = 50

// snippet returns the evidence at [start, end) with up to snippetContext bytes
// either side, widened to rune boundaries.
func snippet(text string, start, end int) string {
	from := start - snippetContext
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}

	to := end + snippetContext
	if to > len(text) {
		to = len(text)
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	s := strings.Join(strings.Fields(text[from:to]), " ")

	if from > 0 {
		s = "... " + s
	}
	if to < len(text) {
		s = s + " ..."
	}

	return s
}
