package report

import (
	"strings"

	"github.com/ExclusiveAccount/bulb-finder/pkg/models"
)

// Matcher decides whether a device looks like a bulb by its advertised name.
// Matching is a case-insensitive substring test, so "ledger" matches "LED".
type Matcher struct {
	filters []string
}

// NewMatcher creates a matcher for the given name substrings. Empty
// substrings are ignored.
func NewMatcher(filters []string) *Matcher {
	m := &Matcher{}
	for _, f := range filters {
		f = strings.TrimSpace(f)
		if f != "" {
			m.filters = append(m.filters, strings.ToUpper(f))
		}
	}
	return m
}

// Match reports whether the device has a name containing any filter
func (m *Matcher) Match(d models.Device) bool {
	if !d.HasName() {
		return false
	}
	name := strings.ToUpper(d.Name)
	for _, f := range m.filters {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// Result is the outcome of filtering one scan
type Result struct {
	Found   bool            `json:"found"`
	Filters []string        `json:"filters"`
	Matches []models.Device `json:"matches"`
	Devices []models.Device `json:"devices"`
}

// Evaluate filters the devices, keeping scan order
func Evaluate(devices []models.Device, filters []string) Result {
	m := NewMatcher(filters)
	result := Result{
		Filters: filters,
		Matches: []models.Device{},
		Devices: devices,
	}
	if result.Devices == nil {
		result.Devices = []models.Device{}
	}
	for _, d := range devices {
		if m.Match(d) {
			result.Matches = append(result.Matches, d)
		}
	}
	result.Found = len(result.Matches) > 0
	return result
}
