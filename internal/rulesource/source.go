package rulesource

import "github.com/username/rangeselect/internal/restriction"

// Source supplies a restriction rule set for the selection engine
type Source interface {
	// FetchRestrictions returns the current rule set in configured order
	FetchRestrictions() ([]restriction.Rule, error)
}
