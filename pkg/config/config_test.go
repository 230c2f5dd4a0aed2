package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("default timeout = %v, want 10s", cfg.Timeout)
	}
	if diff := cmp.Diff([]string{"LED", "BJ"}, cfg.Filters); diff != "" {
		t.Errorf("default filters mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"no filters", func(c *Config) { c.Filters = nil }, true},
		{"blank filters", func(c *Config) { c.Filters = []string{" ", ""} }, true},
		{"json format", func(c *Config) { c.Format = FormatJSON }, false},
		{"unknown format", func(c *Config) { c.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFilters(t *testing.T) {
	got := ParseFilters("LED, BJ", "", " bulb ,,")
	want := []string{"LED", "BJ", "bulb"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseFilters mismatch (-want +got):\n%s", diff)
	}
	if got := ParseFilters(); got != nil {
		t.Errorf("ParseFilters() = %v, want nil", got)
	}
}

func TestTimeoutFromSeconds(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
		wantErr bool
	}{
		{10, 10 * time.Second, false},
		{1, time.Second, false},
		{int(maxTimeoutSeconds), time.Duration(maxTimeoutSeconds) * time.Second, false},
		{0, 0, true},
		{-5, 0, true},
		{int(maxTimeoutSeconds) + 1, 0, true},
	}

	for _, tt := range tests {
		got, err := TimeoutFromSeconds(tt.seconds)
		if (err != nil) != tt.wantErr {
			t.Errorf("TimeoutFromSeconds(%d) error = %v, wantErr %v", tt.seconds, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("TimeoutFromSeconds(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}
