package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// FormatText renders the human readable report
	FormatText = "text"
	// FormatJSON renders a single JSON document
	FormatJSON = "json"
)

// Config holds the finder configuration
type Config struct {
	Timeout     time.Duration // How long to listen for advertisements
	Filters     []string      // Name substrings that mark a device as a bulb
	Format      string        // Output format (text, json)
	OUIDatabase string        // Optional path to a MAC vendor CSV
	TestMode    bool          // Run with simulated devices instead of the radio
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() Config {
	return Config{
		Timeout: 10 * time.Second,
		Filters: []string{"LED", "BJ"},
		Format:  FormatText,
	}
}

// maxTimeoutSeconds is the largest whole-second timeout a time.Duration holds
const maxTimeoutSeconds = math.MaxInt64 / int64(time.Second)

// TimeoutFromSeconds converts a --timeout value to a duration, rejecting
// values that are not positive or would overflow.
func TimeoutFromSeconds(seconds int) (time.Duration, error) {
	if seconds <= 0 {
		return 0, fmt.Errorf("scan timeout must be positive, got %d seconds", seconds)
	}
	if int64(seconds) > maxTimeoutSeconds {
		return 0, fmt.Errorf("scan timeout of %d seconds is too large (max %d)", seconds, maxTimeoutSeconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

// ParseFilters splits comma separated filter values, trimming whitespace and
// dropping empty entries. Input order is kept.
func ParseFilters(values ...string) []string {
	var filters []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				filters = append(filters, part)
			}
		}
	}
	return filters
}

// Validate checks the configuration before a scan is started
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("scan timeout must be positive, got %v", c.Timeout)
	}
	if len(ParseFilters(c.Filters...)) == 0 {
		return fmt.Errorf("at least one name filter is required")
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", c.Format, FormatText, FormatJSON)
	}
	return nil
}
