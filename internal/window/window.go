/*
Package window expands scan windows into the chronological list of dates to probe.
*/
package window

import (
	"time"

	"github.com/shanehull/tripwatch/internal/types"
)

// Ordinal maps a time.Weekday onto Monday=0..Sunday=6.
func Ordinal(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Generate returns every date in [w.Start, w.End] that passes the weekday
// filter, in ascending order. Start after End yields an empty slice.
func Generate(w types.ScanWindow) []types.CandidateDate {
	start := civil(w.Start)
	end := civil(w.End)
	if start.After(end) {
		return nil
	}

	var allowed map[int]struct{}
	if len(w.Weekdays) > 0 {
		allowed = make(map[int]struct{}, len(w.Weekdays))
		for _, d := range w.Weekdays {
			allowed[d] = struct{}{}
		}
	}

	var dates []types.CandidateDate
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if allowed != nil {
			if _, ok := allowed[Ordinal(d.Weekday())]; !ok {
				continue
			}
		}
		dates = append(dates, types.CandidateDate{Date: d, Weekday: d.Weekday().String()})
	}

	return dates
}

// civil drops the clock and zone so stepping by days never drifts across DST.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
