package rulesource

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/username/rangeselect/internal/restriction"
	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// HTTPSource implements Source using a remote JSON endpoint serving
// { "restrictions": [...] }. Responses are cached for the configured TTL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	cacheTTL   time.Duration

	cacheMu   sync.RWMutex
	cached    []restriction.Rule
	fetchedAt time.Time
}

// NewHTTPSource creates a new HTTPSource instance
func NewHTTPSource(url string, cacheTTL time.Duration, logger *zap.Logger) *HTTPSource {
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// FetchRestrictions returns the remote rule set, serving from cache while
// the TTL has not expired
func (hs *HTTPSource) FetchRestrictions() ([]restriction.Rule, error) {
	hs.cacheMu.RLock()
	if hs.cached != nil && time.Since(hs.fetchedAt) < hs.cacheTTL {
		rules := hs.cached
		hs.cacheMu.RUnlock()
		hs.logger.Debug("Using cached restrictions",
			zap.String("url", hs.url),
			zap.Int("rules", len(rules)))
		return rules, nil
	}
	hs.cacheMu.RUnlock()

	rules, err := hs.fetch()
	if err != nil {
		return nil, err
	}

	hs.cacheMu.Lock()
	hs.cached = rules
	hs.fetchedAt = time.Now()
	hs.cacheMu.Unlock()

	return rules, nil
}

func (hs *HTTPSource) fetch() ([]restriction.Rule, error) {
	resp, err := hs.httpClient.Get(hs.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch restrictions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("restriction endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var payload struct {
		Restrictions []restriction.Rule `json:"restrictions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse restrictions: %w", err)
	}

	rules := make([]restriction.Rule, 0, len(payload.Restrictions))
	for i, rule := range payload.Restrictions {
		if !restriction.KnownType(rule.Type) {
			hs.logger.Warn("Skipping rule with unknown type",
				zap.Int("index", i),
				zap.String("type", rule.Type))
			continue
		}
		rules = append(rules, rule)
	}

	hs.logger.Info("Restrictions fetched",
		zap.String("url", hs.url),
		zap.Int("rules", len(rules)))

	return rules, nil
}
