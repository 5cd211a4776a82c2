package rulesource

import (
	"fmt"

	"github.com/username/rangeselect/internal/restriction"
	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: HTTPSource (remote endpoint)
// Fallback: FileSource (local file) or StaticSource (embedded config)
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// FetchRestrictions returns the primary rule set, falling back when the
// primary fails
func (cs *CompositeSource) FetchRestrictions() ([]restriction.Rule, error) {
	rules, err := cs.primary.FetchRestrictions()
	if err == nil {
		return rules, nil
	}

	cs.logger.Warn("Primary restriction source failed, falling back",
		zap.Error(err))

	rules, fallbackErr := cs.fallback.FetchRestrictions()
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}

	return rules, nil
}

// StaticSource implements Source over an in-memory rule set,
// used as the fallback when rules come straight from the app config
type StaticSource struct {
	rules []restriction.Rule
}

// NewStaticSource creates a new StaticSource instance
func NewStaticSource(rules []restriction.Rule) *StaticSource {
	return &StaticSource{rules: rules}
}

// FetchRestrictions returns the in-memory rule set
func (ss *StaticSource) FetchRestrictions() ([]restriction.Rule, error) {
	return ss.rules, nil
}
