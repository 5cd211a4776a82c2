package rulesource

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/rangeselect/internal/restriction"
	"go.uber.org/zap"
)

func TestFileSource_FetchRestrictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
restrictions:
  - type: daterange
    enabled: true
    ranges:
      - start: "2025-06-10"
        end: "2025-06-15"
  - type: blackout
    enabled: true
  - type: weekday
    enabled: true
    days: [0, 6]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	source := NewFileSource(path, zap.NewNop())

	rules, err := source.FetchRestrictions()
	if err != nil {
		t.Fatalf("FetchRestrictions() error = %v", err)
	}

	// The unknown "blackout" entry is skipped, the rest survive in order.
	if len(rules) != 2 {
		t.Fatalf("len(rules) = %d, want 2", len(rules))
	}
	if rules[0].Type != restriction.TypeDateRange || rules[1].Type != restriction.TypeWeekday {
		t.Errorf("rules = [%s, %s], want [daterange, weekday]", rules[0].Type, rules[1].Type)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop())

	if _, err := source.FetchRestrictions(); err == nil {
		t.Errorf("FetchRestrictions() expected error for missing file")
	}
}

func TestHTTPSource_FetchRestrictions(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{
			"restrictions": [
				{"type": "boundary", "enabled": true, "date": "2025-01-01", "direction": "before"},
				{"type": "mystery", "enabled": true}
			]
		}`))
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, time.Hour, zap.NewNop())

	rules, err := source.FetchRestrictions()
	if err != nil {
		t.Fatalf("FetchRestrictions() error = %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("len(rules) = %d, want 1 (unknown type skipped)", len(rules))
	}
	if rules[0].Type != restriction.TypeBoundary || rules[0].Date != "2025-01-01" {
		t.Errorf("rule = %+v, want boundary 2025-01-01", rules[0])
	}

	// Second call within the TTL must hit the cache.
	if _, err := source.FetchRestrictions(); err != nil {
		t.Fatalf("cached FetchRestrictions() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1 (second fetch cached)", calls)
	}
}

func TestHTTPSource_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL, time.Hour, zap.NewNop())

	if _, err := source.FetchRestrictions(); err == nil {
		t.Errorf("FetchRestrictions() expected error on HTTP 500")
	}
}

type failingSource struct{}

func (failingSource) FetchRestrictions() ([]restriction.Rule, error) {
	return nil, errors.New("unreachable")
}

func TestCompositeSource_FallsBack(t *testing.T) {
	fallbackRules := []restriction.Rule{
		{Type: restriction.TypeWeekday, Enabled: true, Days: []int{0}},
	}
	source := NewCompositeSource(failingSource{}, NewStaticSource(fallbackRules), zap.NewNop())

	rules, err := source.FetchRestrictions()
	if err != nil {
		t.Fatalf("FetchRestrictions() error = %v", err)
	}
	if len(rules) != 1 || rules[0].Type != restriction.TypeWeekday {
		t.Errorf("rules = %+v, want fallback weekday rule", rules)
	}
}

func TestCompositeSource_PrefersPrimary(t *testing.T) {
	primaryRules := []restriction.Rule{
		{Type: restriction.TypeBoundary, Enabled: true, Date: "2025-01-01", Direction: "before"},
	}
	source := NewCompositeSource(NewStaticSource(primaryRules), failingSource{}, zap.NewNop())

	rules, err := source.FetchRestrictions()
	if err != nil {
		t.Fatalf("FetchRestrictions() error = %v", err)
	}
	if len(rules) != 1 || rules[0].Type != restriction.TypeBoundary {
		t.Errorf("rules = %+v, want primary boundary rule", rules)
	}
}

func TestCompositeSource_BothFail(t *testing.T) {
	source := NewCompositeSource(failingSource{}, failingSource{}, zap.NewNop())

	if _, err := source.FetchRestrictions(); err == nil {
		t.Errorf("FetchRestrictions() expected error when both sources fail")
	}
}
