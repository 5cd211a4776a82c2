package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/username/rangeselect/internal/restriction"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
restrictions:
  - type: boundary
    enabled: true
    date: "2025-01-01"
    direction: before
    message: "Too early"
  - type: weekday
    enabled: true
    days: [0, 6]
  - type: allowedranges
    enabled: true
    ranges:
      - start: "2025-06-01"
        end: "2025-06-30"
background:
  color: "#fdd"
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Restrictions) != 3 {
		t.Fatalf("len(Restrictions) = %d, want 3", len(cfg.Restrictions))
	}
	if cfg.Restrictions[0].Type != restriction.TypeBoundary ||
		cfg.Restrictions[0].Direction != restriction.DirectionBefore {
		t.Errorf("first rule = %+v, want boundary/before", cfg.Restrictions[0])
	}
	if got := cfg.Restrictions[1].Days; len(got) != 2 || got[0] != 0 || got[1] != 6 {
		t.Errorf("weekday days = %v, want [0 6]", got)
	}
	if len(cfg.Restrictions[2].Ranges) != 1 {
		t.Errorf("allowedranges ranges = %v, want one range", cfg.Restrictions[2].Ranges)
	}
	if cfg.Background.Color != "#fdd" {
		t.Errorf("Background.Color = %q, want #fdd", cfg.Background.Color)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("Load() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rules   []restriction.Rule
		wantErr bool
	}{
		{
			name:    "empty rule list",
			rules:   nil,
			wantErr: false,
		},
		{
			name: "unknown type",
			rules: []restriction.Rule{
				{Type: "blackout", Enabled: true},
			},
			wantErr: true,
		},
		{
			name: "missing type",
			rules: []restriction.Rule{
				{Enabled: true},
			},
			wantErr: true,
		},
		{
			name: "boundary with bad direction",
			rules: []restriction.Rule{
				{Type: restriction.TypeBoundary, Date: "2025-01-01", Direction: "sideways"},
			},
			wantErr: true,
		},
		{
			name: "boundary without date",
			rules: []restriction.Rule{
				{Type: restriction.TypeBoundary, Direction: restriction.DirectionBefore},
			},
			wantErr: true,
		},
		{
			name: "weekday out of range",
			rules: []restriction.Rule{
				{Type: restriction.TypeWeekday, Days: []int{7}},
			},
			wantErr: true,
		},
		{
			name: "weekday without days",
			rules: []restriction.Rule{
				{Type: restriction.TypeWeekday},
			},
			wantErr: true,
		},
		{
			name: "valid mixed rules",
			rules: []restriction.Rule{
				{Type: restriction.TypeBoundary, Date: "2025-01-01", Direction: restriction.DirectionAfter},
				{Type: restriction.TypeDateRange, Ranges: []restriction.RangeSpec{{Start: "a", End: "b"}}},
				{Type: restriction.TypeWeekday, Days: []int{1, 2}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Restrictions: tt.rules}

			err := cfg.Validate()

			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
