package restriction

import (
	"sort"
	"time"

	"github.com/username/rangeselect/pkg/dateutil"
)

// DefaultBackgroundColor is used when the caller supplies no highlight color
const DefaultBackgroundColor = "#ffe4e1"

// BackgroundRange is one static highlight segment for the rendering layer.
// Dates are ISO YYYY-MM-DD strings.
type BackgroundRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Color     string `json:"color"`
}

// GenerateBackgroundData converts a rule set into static highlight segments:
// daterange rules map 1:1, boundary rules span out to a sentinel date in the
// blocked direction, and allowedranges rules map to the complement of their
// allowed windows. Weekday and restricted_boundary rules have no static
// representation and contribute nothing. Malformed input is skipped; this
// function never fails.
func GenerateBackgroundData(rules []Rule, color string) []BackgroundRange {
	if color == "" {
		color = DefaultBackgroundColor
	}

	out := []BackgroundRange{}
	for _, r := range rules {
		if !r.Enabled {
			continue
		}

		switch r.Type {
		case TypeDateRange:
			out = append(out, dateRangeBackgrounds(r, color)...)
		case TypeBoundary:
			out = append(out, boundaryBackgrounds(r, color)...)
		case TypeAllowedRanges:
			out = append(out, allowedRangesBackgrounds(r, color)...)
		}
	}
	return out
}

func dateRangeBackgrounds(r Rule, color string) []BackgroundRange {
	var out []BackgroundRange
	for _, spec := range r.Ranges {
		start, end, err := parseRangeSpec(spec)
		if err != nil || end.Before(start) {
			continue
		}
		out = append(out, BackgroundRange{
			StartDate: dateutil.FormatDate(start),
			EndDate:   dateutil.FormatDate(end),
			Color:     color,
		})
	}
	return out
}

func boundaryBackgrounds(r Rule, color string) []BackgroundRange {
	boundary, err := dateutil.ParseDate(r.Date)
	if err != nil {
		return nil
	}

	switch r.Direction {
	case DirectionBefore:
		return []BackgroundRange{{
			StartDate: dateutil.FormatDate(dateutil.MinDate()),
			EndDate:   dateutil.FormatDate(boundary),
			Color:     color,
		}}
	case DirectionAfter:
		return []BackgroundRange{{
			StartDate: dateutil.FormatDate(boundary),
			EndDate:   dateutil.FormatDate(dateutil.MaxDate()),
			Color:     color,
		}}
	}
	return nil
}

// allowedRangesBackgrounds highlights everything outside the allowed windows,
// producing up to len(ranges)+1 segments bracketed by the sentinel dates
func allowedRangesBackgrounds(r Rule, color string) []BackgroundRange {
	type window struct {
		start, end time.Time
	}

	var windows []window
	for _, spec := range r.Ranges {
		start, end, err := parseRangeSpec(spec)
		if err != nil || end.Before(start) {
			continue
		}
		windows = append(windows, window{start: start, end: end})
	}
	if len(windows) == 0 {
		return nil
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].start.Before(windows[j].start)
	})

	var out []BackgroundRange
	cursor := dateutil.MinDate()
	for _, w := range windows {
		if w.start.After(cursor) {
			out = append(out, BackgroundRange{
				StartDate: dateutil.FormatDate(cursor),
				EndDate:   dateutil.FormatDate(dateutil.PrevDay(w.start)),
				Color:     color,
			})
		}
		next := dateutil.NextDay(w.end)
		if next.After(cursor) {
			cursor = next
		}
	}
	if !cursor.After(dateutil.MaxDate()) {
		out = append(out, BackgroundRange{
			StartDate: dateutil.FormatDate(cursor),
			EndDate:   dateutil.FormatDate(dateutil.MaxDate()),
			Color:     color,
		})
	}
	return out
}
