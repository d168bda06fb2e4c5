/*
Package classify decides from a rendered page's visible text whether any trip is
bookable. Matching is case-insensitive. An explicit "no availability" phrase
always wins; otherwise the first positive rule to match decides.
*/
package classify

import (
	"regexp"
	"strings"

	"github.com/shanehull/tripwatch/internal/types"
)

// NoAvailabilityPhrases short-circuit classification to unavailable. They are
// matched against lowercased text with runs of whitespace collapsed.
var NoAvailabilityPhrases = []string{
	"sorry, there are no trips available",
	"there are no trips available",
	"no trips available",
	"no trips found",
	"no available trips",
	"no trains available",
	"no seats available",
	"no results",
	"sold out",
}

// Rule is one positive signal. Find returns the [start, end) byte offsets of
// the evidence in the page text, or nil. Reason builds the matched reason from
// the evidence text.
type Rule struct {
	Name   string
	Find   func(text string) []int
	Reason func(match string) string
}

type Classifier struct {
	negatives []string
	rules     []Rule
}

// New returns a classifier with the default phrases and rules.
func New() *Classifier {
	return NewWithRules(NoAvailabilityPhrases, DefaultRules())
}

// NewWithRules returns a classifier that checks negatives, then rules in the
// given order.
func NewWithRules(negatives []string, rules []Rule) *Classifier {
	lowered := make([]string, 0, len(negatives))
	for _, n := range negatives {
		lowered = append(lowered, normalize(n))
	}
	return &Classifier{negatives: lowered, rules: rules}
}

// Classify never fails; empty or unrecognised text is unavailable.
func (c *Classifier) Classify(text string) types.Classification {
	if strings.TrimSpace(text) == "" {
		return types.Unavailable()
	}

	if c.NegativePhrase(text) != "" {
		return types.Unavailable()
	}

	for _, r := range c.rules {
		if res, ok := r.Apply(text); ok {
			return res
		}
	}

	return types.Unavailable()
}

// zeroTripsRe is the zero-count form of "there are N trips available".
var zeroTripsRe = regexp.MustCompile(`\bthere (?:is|are) 0+ trips? available\b`)

// NegativePhrase returns the first no-availability phrase found in text. A
// zero trip count always counts as one.
func (c *Classifier) NegativePhrase(text string) string {
	norm := normalize(text)
	for _, n := range c.negatives {
		if strings.Contains(norm, n) {
			return n
		}
	}
	return zeroTripsRe.FindString(norm)
}

// Apply runs a single rule against text.
func (r Rule) Apply(text string) (types.Classification, bool) {
	loc := r.Find(text)
	if loc == nil {
		return types.Unavailable(), false
	}
	match := text[loc[0]:loc[1]]
	return types.Available(r.Reason(match), snippet(text, loc[0], loc[1])), true
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func fixed(reason string) func(string) string {
	return func(string) string { return reason }
}

var digitsRe = regexp.MustCompile(`\d+`)
