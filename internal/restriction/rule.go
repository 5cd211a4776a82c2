package restriction

// Rule kind discriminators, matching the wire-level "type" field
const (
	TypeBoundary           = "boundary"
	TypeDateRange          = "daterange"
	TypeAllowedRanges      = "allowedranges"
	TypeRestrictedBoundary = "restricted_boundary"
	TypeWeekday            = "weekday"
)

// Boundary directions
const (
	DirectionBefore = "before"
	DirectionAfter  = "after"
)

// Default messages used when a rule carries none
const (
	defaultBoundaryMessage           = "Date is outside the allowed boundary"
	defaultDateRangeMessage          = "Selection overlaps a restricted period"
	defaultAllowedRangesMessage      = "Selection must stay within an allowed period"
	defaultRestrictedBoundaryMessage = "Selection must stay within the restricted period"
	defaultWeekdayMessage            = "Selection includes a restricted weekday"
)

// RangeSpec is a single date range inside a rule.
// Dates are ISO YYYY-MM-DD strings; malformed values cause the range to be
// skipped during evaluation, never an error.
type RangeSpec struct {
	Start   string `mapstructure:"start" json:"start"`
	End     string `mapstructure:"end" json:"end"`
	Message string `mapstructure:"message" json:"message,omitempty"`
}

// Rule describes one selectability restriction. It is a tagged union over
// Type: boundary rules use Date/Direction, range-based rules use Ranges,
// weekday rules use Days (0=Sunday .. 6=Saturday, UTC day-of-week).
type Rule struct {
	Type      string      `mapstructure:"type" json:"type"`
	Enabled   bool        `mapstructure:"enabled" json:"enabled"`
	Message   string      `mapstructure:"message" json:"message,omitempty"`
	Date      string      `mapstructure:"date" json:"date,omitempty"`
	Direction string      `mapstructure:"direction" json:"direction,omitempty"`
	Ranges    []RangeSpec `mapstructure:"ranges" json:"ranges,omitempty"`
	Days      []int       `mapstructure:"days" json:"days,omitempty"`
}

// KnownType reports whether t is one of the supported rule kinds
func KnownType(t string) bool {
	switch t {
	case TypeBoundary, TypeDateRange, TypeAllowedRanges, TypeRestrictedBoundary, TypeWeekday:
		return true
	}
	return false
}

// messageOr returns the rule's own message, or def when it has none
func (r Rule) messageOr(def string) string {
	if r.Message != "" {
		return r.Message
	}
	return def
}

// ValidationResult is the verdict for a candidate selection. Message is only
// meaningful when Allowed is false and may concatenate several rule messages
// separated by newlines, in rule-list order.
type ValidationResult struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}
