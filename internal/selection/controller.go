package selection

import (
	"time"

	"github.com/username/rangeselect/internal/restriction"
	"github.com/username/rangeselect/pkg/dateutil"
	"go.uber.org/zap"
)

// Range is one in-progress two-endpoint selection. Start and End are always
// kept in chronological order regardless of gesture direction; Anchor is the
// day the gesture began and is always a member of [Start, End] when present.
// IsBackward records whether the current extension moves earlier than the
// anchor; it is informational only and never feeds validation.
type Range struct {
	Start      *time.Time
	End        *time.Time
	Anchor     *time.Time
	IsBackward bool
}

// RangeDTO is the ISO-string form of Range handed to the UI layer
type RangeDTO struct {
	Start      *string `json:"start"`
	End        *string `json:"end"`
	Anchor     *string `json:"anchor"`
	IsBackward bool    `json:"isBackward,omitempty"`
}

// DTO converts the range to its ISO-string form
func (r Range) DTO() RangeDTO {
	format := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := dateutil.FormatDate(*t)
		return &s
	}
	return RangeDTO{
		Start:      format(r.Start),
		End:        format(r.End),
		Anchor:     format(r.Anchor),
		IsBackward: r.IsBackward,
	}
}

// Result is the outcome of a selection operation. Message carries the rule
// message: blocking when Success is false, informational (e.g. the selection
// was clamped or truncated) when Success is true.
type Result struct {
	Success bool
	Range   Range
	Message string
}

// Controller manages one in-progress selection against a restriction engine.
// It holds no selection state itself: the caller owns the current Range and
// passes it back in on every update.
type Controller struct {
	engine *restriction.Engine
	logger *zap.Logger
}

// NewController creates a new selection controller
func NewController(engine *restriction.Engine, logger *zap.Logger) *Controller {
	return &Controller{
		engine: engine,
		logger: logger,
	}
}

// StartSelection anchors a new selection at the given date. The selection
// only starts if the single day itself is selectable.
func (c *Controller) StartSelection(date time.Time) Result {
	d := dateutil.DateOnly(date)

	check := c.engine.CheckSelection(d, d)
	if !check.Allowed {
		c.logger.Debug("Selection start rejected",
			zap.Time("date", d),
			zap.String("message", check.Message))
		return Result{Success: false, Message: check.Message}
	}

	return Result{
		Success: true,
		Range:   Range{Start: &d, End: &d, Anchor: &d},
	}
}

// UpdateSelection extends the current selection toward newDate. When the
// naive extension is invalid the selection is clamped to the nearest valid
// day between the anchor and newDate; the rule message is then returned as
// an informational notice alongside a successful result.
func (c *Controller) UpdateSelection(current Range, newDate time.Time) Result {
	// 1. Resolve the anchor; a range without one falls back to its start.
	anchorPtr := current.Anchor
	if anchorPtr == nil {
		anchorPtr = current.Start
	}
	if anchorPtr == nil {
		return c.StartSelection(newDate)
	}

	anchor := dateutil.DateOnly(*anchorPtr)
	candidate := dateutil.DateOnly(newDate)

	// 2. Gesture direction.
	isBackward := candidate.Before(anchor)

	// 3. Restricted-boundary pre-clamp: when the anchor sits inside a
	// restricted boundary and the extension would cross its edge, clamp to
	// the edge immediately instead of walking day by day.
	if bStart, bEnd, bMsg, ok := c.engine.RestrictedRangeContaining(anchor); ok {
		if isBackward && candidate.Before(bStart) {
			c.logger.Debug("Clamped to restricted boundary start",
				zap.Time("anchor", anchor),
				zap.Time("candidate", candidate),
				zap.Time("clamped_to", bStart))
			return Result{
				Success: true,
				Range:   Range{Start: &bStart, End: &anchor, Anchor: &anchor, IsBackward: true},
				Message: bMsg,
			}
		}
		if !isBackward && candidate.After(bEnd) {
			c.logger.Debug("Clamped to restricted boundary end",
				zap.Time("anchor", anchor),
				zap.Time("candidate", candidate),
				zap.Time("clamped_to", bEnd))
			return Result{
				Success: true,
				Range:   Range{Start: &anchor, End: &bEnd, Anchor: &anchor},
				Message: bMsg,
			}
		}
	}

	// 4. Direct validation of the naive candidate range.
	start, end := chronological(anchor, candidate)
	check := c.engine.CheckSelectionFrom(anchor, start, end)
	if check.Allowed {
		return Result{
			Success: true,
			Range:   Range{Start: &start, End: &end, Anchor: &anchor, IsBackward: isBackward},
		}
	}

	// 5. Incremental nearest-valid-day search: walk from the anchor toward
	// the candidate one day at a time and keep the last day that validated.
	// The walk commits to the first obstruction encountered; it never skips
	// past a violation looking for valid days beyond it.
	step := 1
	if isBackward {
		step = -1
	}

	var lastValid *time.Time
	failMsg := check.Message
	for d := anchor.AddDate(0, 0, step); ; d = d.AddDate(0, 0, step) {
		if isBackward && d.Before(candidate) {
			break
		}
		if !isBackward && d.After(candidate) {
			break
		}

		s, e := chronological(anchor, d)
		stepCheck := c.engine.CheckSelectionFrom(anchor, s, e)
		if !stepCheck.Allowed {
			failMsg = stepCheck.Message
			break
		}
		dd := d
		lastValid = &dd
	}

	// 6. Nothing beyond the anchor validated: collapse to the anchor.
	if lastValid == nil {
		c.logger.Debug("No valid extension found",
			zap.Time("anchor", anchor),
			zap.Time("candidate", candidate),
			zap.String("message", failMsg))
		return Result{
			Success: false,
			Range:   Range{Start: &anchor, End: &anchor, Anchor: &anchor, IsBackward: isBackward},
			Message: failMsg,
		}
	}

	s, e := chronological(anchor, *lastValid)
	c.logger.Debug("Selection truncated to nearest valid day",
		zap.Time("anchor", anchor),
		zap.Time("candidate", candidate),
		zap.Time("truncated_to", *lastValid))
	return Result{
		Success: true,
		Range:   Range{Start: &s, End: &e, Anchor: &anchor, IsBackward: isBackward},
		Message: failMsg,
	}
}

// CanSelectDate reports whether a single day is selectable
func (c *Controller) CanSelectDate(date time.Time) restriction.ValidationResult {
	d := dateutil.DateOnly(date)
	return c.engine.CheckSelection(d, d)
}

// CanSelectRange reports whether the range [start, end] is selectable.
// Invalid or non-chronological inputs are rejected as a structured failure,
// never a panic. anchor may be nil when the gesture origin is unknown.
func (c *Controller) CanSelectRange(start, end time.Time, anchor *time.Time) restriction.ValidationResult {
	if start.IsZero() || end.IsZero() || start.After(end) && !dateutil.IsSameDay(start, end) {
		return restriction.ValidationResult{Allowed: false, Message: "Invalid date range"}
	}

	s := dateutil.DateOnly(start)
	e := dateutil.DateOnly(end)
	a := s
	if anchor != nil {
		a = dateutil.DateOnly(*anchor)
	}
	return c.engine.CheckSelectionFrom(a, s, e)
}

// chronological orders a gesture's two endpoints as start <= end
func chronological(a, b time.Time) (start, end time.Time) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}
