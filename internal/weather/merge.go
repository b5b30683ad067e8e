package weather

import (
	"sort"
	"time"
)

type stampedEntry struct {
	entry HourlyEntry
	at    time.Time
}

// stampAndSort drops entries without a parseable timestamp and returns the
// rest sorted ascending.
func stampAndSort(entries []HourlyEntry) []stampedEntry {
	out := make([]stampedEntry, 0, len(entries))
	for _, e := range entries {
		at, err := e.Timestamp()
		if err != nil {
			continue
		}
		out = append(out, stampedEntry{entry: e, at: at})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	return out
}

// MergeHourly combines the fine (1h) and coarse (3h) forecast series into
// one ascending sequence. The fine series is authoritative for every
// instant it covers: coarse entries survive only with a timestamp strictly
// after the last fine timestamp, so retained coarse hours extend the series
// beyond the fine horizon. Duplicate timestamps are dropped, first
// occurrence wins. A nil result means no hourly forecast is available,
// which callers treat differently from an empty series.
func MergeHourly(fine, coarse []HourlyEntry) []HourlyEntry {
	merged := make([]HourlyEntry, 0, len(fine)+len(coarse))
	seen := make(map[int64]struct{}, len(fine)+len(coarse))

	var lastFine time.Time
	haveFine := false
	for _, s := range stampAndSort(fine) {
		if _, dup := seen[s.at.Unix()]; dup {
			continue
		}
		seen[s.at.Unix()] = struct{}{}
		merged = append(merged, s.entry)
		lastFine = s.at
		haveFine = true
	}

	for _, s := range stampAndSort(coarse) {
		if haveFine && !s.at.After(lastFine) {
			continue
		}
		if _, dup := seen[s.at.Unix()]; dup {
			continue
		}
		seen[s.at.Unix()] = struct{}{}
		merged = append(merged, s.entry)
	}

	if len(merged) == 0 {
		return nil
	}
	return merged
}
