package types

import (
	"time"
)

// DateLayout is the calendar date format used in configuration and queries.
const DateLayout = "2006-01-02"

type RouteSpec struct {
	From      string
	To        string
	FromName  string
	ToName    string
	Direction string
}

// DisplayName is the human-readable route label, e.g. "Riyadh to Qurayyat".
func (r RouteSpec) DisplayName() string {
	return r.FromName + " to " + r.ToName
}

// ScanWindow is a route plus an inclusive date range. Weekdays holds ordinals
// with Monday=0..Sunday=6; an empty filter includes every day.
type ScanWindow struct {
	Route    RouteSpec
	Start    time.Time
	End      time.Time
	Weekdays []int
}

type CandidateDate struct {
	Date    time.Time
	Weekday string
}

// String returns the date as YYYY-MM-DD.
func (c CandidateDate) String() string {
	return c.Date.Format(DateLayout)
}

// SearchRequest is the canonical query for one route and date.
type SearchRequest struct {
	Route RouteSpec
	Date  CandidateDate
	URL   string
}

// Classification is the outcome of classifying one page. The zero value is
// unavailable.
type Classification struct {
	Available bool
	Reason    string
	Evidence  string
}

func Unavailable() Classification {
	return Classification{}
}

func Available(reason, evidence string) Classification {
	return Classification{Available: true, Reason: reason, Evidence: evidence}
}

type AvailabilityRecord struct {
	Route    string
	Date     time.Time
	Weekday  string
	URL      string
	Reason   string
	Evidence string
	Digest   []string
}

// ScanResult is every positive date found in one run, in scan order.
type ScanResult struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Records    []AvailabilityRecord
}
