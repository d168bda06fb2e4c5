package classify

import (
	"regexp"
	"strings"
)

var (
	tripCountRe = regexp.MustCompile(`(?i)\bthere\s+(?:is|are)\s+\d+\s+trips?\s+available\b`)
	trainRe     = regexp.MustCompile(`(?i)\btrain\s+\d+\b`)
	fareRe      = regexp.MustCompile(`\b\d{2,4}\b`)
	scheduleRe  = regexp.MustCompile(`\b(?:[01]?\d|2[0-3]):[0-5]\d\s*(?:->|-|–|—|→|⟶|➔|➜)\s*(?:[01]?\d|2[0-3]):[0-5]\d\b`)
	nightTripRe = regexp.MustCompile(`(?i)\bnight\s+trip\b`)
	stopsRe     = regexp.MustCompile(`(?i)\b\d+\s+stops?\b`)
	durationRe  = regexp.MustCompile(`(?i)\b\d+\s*h\s*\d+\s*m(?:in)?\b`)

	fareClassRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\beconomy\b`),
		regexp.MustCompile(`(?i)\bbusiness\b`),
		regexp.MustCompile(`(?i)\bfirst\s+class\b`),
	}
)

// DefaultRules lists the positive signals from most to least specific.
func DefaultRules() []Rule {
	return []Rule{
		TripCountRule,
		TrainRule,
		FareClassRule,
		ScheduleRule,
		NightTripRule,
		DurationRule,
	}
}

// TripCountRule matches "there is/are N trip(s) available" with N above zero.
var TripCountRule = Rule{
	Name: "trip count",
	Find: func(text string) []int {
		for _, loc := range tripCountRe.FindAllStringIndex(text, -1) {
			if strings.Trim(digitsRe.FindString(text[loc[0]:loc[1]]), "0") != "" {
				return loc
			}
		}
		return nil
	},
	Reason: func(match string) string {
		return digitsRe.FindString(match) + " trip(s)"
	},
}

// TrainRule matches a train identifier such as "Train 76".
var TrainRule = Rule{
	Name: "train",
	Find: trainRe.FindStringIndex,
	Reason: func(match string) string {
		return "train " + digitsRe.FindString(match)
	},
}

// FareClassRule needs two distinct fare classes plus a plausible fare amount.
// Class names alone show up in page chrome.
var FareClassRule = Rule{
	Name: "ticket classes",
	Find: func(text string) []int {
		var first []int
		found := 0
		for _, re := range fareClassRes {
			loc := re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			found++
			if first == nil || loc[0] < first[0] {
				first = loc
			}
		}
		if found < 2 || !fareRe.MatchString(text) {
			return nil
		}
		return first
	},
	Reason: fixed("ticket classes"),
}

// ScheduleRule matches a paired departure/arrival such as "21:00 → 07:33".
// Unpaired timestamps are ignored.
var ScheduleRule = Rule{
	Name:   "schedule",
	Find:   scheduleRe.FindStringIndex,
	Reason: fixed("schedule"),
}

// NightTripRule needs the night trip badge together with a stop count.
var NightTripRule = Rule{
	Name: "night trip",
	Find: func(text string) []int {
		loc := nightTripRe.FindStringIndex(text)
		if loc == nil || !stopsRe.MatchString(text) {
			return nil
		}
		return loc
	},
	Reason: fixed("night trip"),
}

// DurationRule matches a journey duration such as "10h 33m".
var DurationRule = Rule{
	Name:   "duration",
	Find:   durationRe.FindStringIndex,
	Reason: fixed("duration"),
}

// RuleNames returns the names of rules in evaluation order.
func RuleNames(rules []Rule) string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return strings.Join(names, " > ")
}
