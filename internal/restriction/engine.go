package restriction

import (
	"strings"
	"time"

	"github.com/username/rangeselect/pkg/dateutil"
)

// Engine evaluates candidate selections against an ordered, immutable rule
// set. It holds no other state: a configuration change is expressed by
// constructing a new Engine, never by mutating an existing one.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the given rules. Entries without a type
// discriminator are dropped here so that evaluation never trips over them;
// everything else is kept in order, including disabled rules (they are
// skipped per call, preserving message ordering for the rest).
func NewEngine(rules []Rule) *Engine {
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Type == "" {
			continue
		}
		kept = append(kept, r)
	}
	return &Engine{rules: kept}
}

// Rules returns the engine's rule set in evaluation order
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// CheckSelection validates the chronologically ordered range [start, end],
// treating start as the gesture anchor. Callers that know the real anchor
// should use CheckSelectionFrom instead; for backward gestures the two can
// differ on restricted-boundary rules.
func (e *Engine) CheckSelection(start, end time.Time) ValidationResult {
	return e.CheckSelectionFrom(start, start, end)
}

// CheckSelectionFrom validates [start, end] with an explicit gesture anchor.
// Every enabled rule is evaluated (no short-circuit); all violation messages
// are joined with newlines, in rule-list order.
func (e *Engine) CheckSelectionFrom(anchor, start, end time.Time) ValidationResult {
	anchor = dateutil.DateOnly(anchor)
	start = dateutil.DateOnly(start)
	end = dateutil.DateOnly(end)

	var messages []string
	for _, r := range e.rules {
		if !r.Enabled {
			continue
		}

		var msg string
		switch r.Type {
		case TypeBoundary:
			msg = checkBoundary(r, start, end)
		case TypeDateRange:
			msg = checkDateRange(r, start, end)
		case TypeAllowedRanges:
			msg = checkAllowedRanges(r, start, end)
		case TypeRestrictedBoundary:
			msg = checkRestrictedBoundary(r, anchor, start, end)
		case TypeWeekday:
			msg = checkWeekday(r, start, end)
		}

		if msg != "" {
			messages = append(messages, msg)
		}
	}

	if len(messages) == 0 {
		return ValidationResult{Allowed: true}
	}
	return ValidationResult{Allowed: false, Message: strings.Join(messages, "\n")}
}

// RestrictedBoundaries returns the enabled restricted_boundary rules in
// rule-list order
func (e *Engine) RestrictedBoundaries() []Rule {
	var out []Rule
	for _, r := range e.rules {
		if r.Type == TypeRestrictedBoundary && r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// RestrictedRangeContaining looks up the first enabled restricted_boundary
// range containing the anchor day. ok is false when the anchor is not
// confined by any such range.
func (e *Engine) RestrictedRangeContaining(anchor time.Time) (start, end time.Time, message string, ok bool) {
	anchor = dateutil.DateOnly(anchor)
	for _, r := range e.RestrictedBoundaries() {
		for _, spec := range r.Ranges {
			rs, re, err := parseRangeSpec(spec)
			if err != nil {
				continue
			}
			if dateutil.WithinInclusive(anchor, rs, re) {
				msg := spec.Message
				if msg == "" {
					msg = r.messageOr(defaultRestrictedBoundaryMessage)
				}
				return rs, re, msg, true
			}
		}
	}
	return time.Time{}, time.Time{}, "", false
}

// checkBoundary disallows dates strictly before a "before" boundary, or
// strictly after the end of day of an "after" boundary. Unparseable boundary
// dates make the rule inert.
func checkBoundary(r Rule, start, end time.Time) string {
	boundary, err := dateutil.ParseDate(r.Date)
	if err != nil {
		return ""
	}

	switch r.Direction {
	case DirectionBefore:
		if start.Before(boundary) || end.Before(boundary) {
			return r.messageOr(defaultBoundaryMessage)
		}
	case DirectionAfter:
		boundaryEnd := dateutil.EndOfDay(boundary)
		if start.After(boundaryEnd) || end.After(boundaryEnd) {
			return r.messageOr(defaultBoundaryMessage)
		}
	}
	return ""
}

// checkDateRange disallows any selection overlapping a listed range in either
// direction: an endpoint inside the range, or the range swallowed by the
// selection. Malformed ranges are skipped.
func checkDateRange(r Rule, start, end time.Time) string {
	for _, spec := range r.Ranges {
		rs, re, err := parseRangeSpec(spec)
		if err != nil {
			continue
		}

		overlaps := dateutil.WithinInclusive(start, rs, re) ||
			dateutil.WithinInclusive(end, rs, re) ||
			dateutil.WithinInclusive(rs, start, end) ||
			dateutil.WithinInclusive(re, start, end)
		if overlaps {
			if spec.Message != "" {
				return spec.Message
			}
			return r.messageOr(defaultDateRangeMessage)
		}
	}
	return ""
}

// checkAllowedRanges requires both endpoints to fall inside the same single
// listed range. A rule with zero ranges is inert. On violation the message
// comes from the first configured range regardless of which range was closest.
func checkAllowedRanges(r Rule, start, end time.Time) string {
	if len(r.Ranges) == 0 {
		return ""
	}

	for _, spec := range r.Ranges {
		rs, re, err := parseRangeSpec(spec)
		if err != nil {
			continue
		}
		if dateutil.WithinInclusive(start, rs, re) && dateutil.WithinInclusive(end, rs, re) {
			return ""
		}
	}

	if r.Ranges[0].Message != "" {
		return r.Ranges[0].Message
	}
	return r.messageOr(defaultAllowedRangesMessage)
}

// checkRestrictedBoundary applies only when the gesture anchor lies inside
// one of the listed ranges; the non-anchor endpoint must then stay inside
// that same range. The candidate endpoint is whichever of start/end is not
// the anchor, so the predicate holds for backward gestures too.
func checkRestrictedBoundary(r Rule, anchor, start, end time.Time) string {
	candidate := end
	if candidate.Equal(anchor) && !start.Equal(anchor) {
		candidate = start
	}

	for _, spec := range r.Ranges {
		rs, re, err := parseRangeSpec(spec)
		if err != nil {
			continue
		}
		if !dateutil.WithinInclusive(anchor, rs, re) {
			continue
		}
		if candidate.Before(rs) || candidate.After(re) {
			if spec.Message != "" {
				return spec.Message
			}
			return r.messageOr(defaultRestrictedBoundaryMessage)
		}
	}
	return ""
}

// checkWeekday disallows a selection when any day of the inclusive day-by-day
// walk from start to end falls on a restricted UTC weekday
func checkWeekday(r Rule, start, end time.Time) string {
	if len(r.Days) == 0 {
		return ""
	}

	restricted := make(map[int]bool, len(r.Days))
	for _, d := range r.Days {
		restricted[d] = true
	}

	for day := start; !day.After(end); day = dateutil.NextDay(day) {
		if restricted[int(day.Weekday())] {
			return r.messageOr(defaultWeekdayMessage)
		}
	}
	return ""
}

// parseRangeSpec parses a range's date strings, normalized to UTC days
func parseRangeSpec(spec RangeSpec) (start, end time.Time, err error) {
	start, err = dateutil.ParseDate(spec.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = dateutil.ParseDate(spec.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
