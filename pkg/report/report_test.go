package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/ExclusiveAccount/bulb-finder/pkg/config"
	"github.com/ExclusiveAccount/bulb-finder/pkg/models"
)

var defaultFilters = []string{"LED", "BJ"}

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestMatcher(t *testing.T) {
	m := NewMatcher(defaultFilters)

	tests := []struct {
		name string
		want bool
	}{
		{"led-bulb-01", true},
		{"LEDGE", true},
		{"ledger", true},
		{"bj_m", true},
		{"QHM-LEDBLE", true},
		{"Phone", false},
		{"LE D", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := m.Match(models.Device{Name: tt.name, Address: "AA:BB:CC:DD:EE:FF"}); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMatcherIgnoresBlankFilters(t *testing.T) {
	m := NewMatcher([]string{"", "  "})
	if m.Match(models.Device{Name: "anything"}) {
		t.Error("blank filters must not match every name")
	}
}

func TestEvaluateKeepsScanOrder(t *testing.T) {
	devices := []models.Device{
		{Name: "ledger", Address: "00:00:00:00:00:03"},
		{Name: "Phone", Address: "00:00:00:00:00:02"},
		{Name: "BJ_LED_01", Address: "00:00:00:00:00:01"},
	}
	result := Evaluate(devices, defaultFilters)

	want := []models.Device{devices[0], devices[2]}
	if diff := cmp.Diff(want, result.Matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
	if !result.Found {
		t.Error("Found should be true")
	}
}

func render(t *testing.T, format string, devices []models.Device) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewReporter(&buf, format, defaultFilters)
	if err := r.Report(Evaluate(devices, defaultFilters)); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	return buf.String()
}

func TestReportMatchOnly(t *testing.T) {
	out := render(t, config.FormatText, []models.Device{
		{Name: "BJ_LED_01", Address: "AA:BB:CC:DD:EE:01"},
		{Name: "Phone", Address: "11:22:33:44:55:66"},
	})

	want := border + "\n" +
		">>> POTENTIAL BULB FOUND! <<<\n" +
		"    Name: BJ_LED_01\n" +
		"    MAC Address: AA:BB:CC:DD:EE:01\n" +
		"Please copy this MAC Address into the sync script.\n" +
		border + "\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(out, "Phone") || strings.Contains(out, "Here is a list") {
		t.Error("fallback listing must not run when a match exists")
	}
}

func TestReportFallbackWithUnnamedDevice(t *testing.T) {
	out := render(t, config.FormatText, []models.Device{
		{Address: "00:00:00:00:00:01"},
	})

	want := "\nNo 'LED' or 'BJ' devices found. Here is a list of all devices found:\n" +
		"    Name: <unknown> (Address: 00:00:00:00:00:01)\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestReportFallbackListsEveryDeviceOnce(t *testing.T) {
	devices := []models.Device{
		{Name: "Phone", Address: "11:22:33:44:55:66"},
		{Address: "00:00:00:00:00:01"},
		{Name: "Watch", Address: "22:33:44:55:66:77", Vendor: "Acme"},
	}
	out := render(t, config.FormatText, devices)

	for _, d := range devices {
		if n := strings.Count(out, d.Address); n != 1 {
			t.Errorf("address %s printed %d times, want 1", d.Address, n)
		}
	}
	if !strings.Contains(out, "    Name: Watch (Address: 22:33:44:55:66:77, Vendor: Acme)\n") {
		t.Errorf("vendor missing from fallback line:\n%s", out)
	}
	if strings.Contains(out, "POTENTIAL BULB FOUND") {
		t.Error("no match block expected")
	}
}

func TestReportNoDevices(t *testing.T) {
	out := render(t, config.FormatText, nil)

	want := "\nNo 'LED' or 'BJ' devices found. Here is a list of all devices found:\n" +
		"    (no devices discovered)\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(out, "Name:") {
		t.Error("no device lines expected")
	}
}

func TestReportIsIdempotent(t *testing.T) {
	for _, format := range []string{config.FormatText, config.FormatJSON} {
		devices := []models.Device{
			{Name: "Phone", Address: "11:22:33:44:55:66"},
			{Address: "00:00:00:00:00:01"},
			{Name: "led strip", Address: "AA:BB:CC:DD:EE:02"},
		}
		first := render(t, format, devices)
		second := render(t, format, devices)
		if first != second {
			t.Errorf("%s output differs between runs:\n%s\n---\n%s", format, first, second)
		}
	}
}

func TestReportJSON(t *testing.T) {
	out := render(t, config.FormatJSON, []models.Device{
		{Name: "BJ_LED_01", Address: "AA:BB:CC:DD:EE:01", RSSI: -60},
		{Name: "Phone", Address: "11:22:33:44:55:66"},
	})

	var got Result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if !got.Found || len(got.Matches) != 1 || got.Matches[0].Address != "AA:BB:CC:DD:EE:01" {
		t.Errorf("unexpected matches: %+v", got.Matches)
	}
	if len(got.Devices) != 2 {
		t.Errorf("got %d devices, want 2", len(got.Devices))
	}
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, config.FormatText, defaultFilters).Banner(10 * time.Second)
	want := "Scanning for Bluetooth devices for 10 seconds...\n" +
		"Ensure your bulb is plugged in and NOT connected to your phone.\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("banner mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	NewReporter(&buf, config.FormatJSON, defaultFilters).Banner(10 * time.Second)
	if buf.Len() != 0 {
		t.Errorf("JSON format should not print a banner, got %q", buf.String())
	}
}

func TestQuoteFilters(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"LED"}, "'LED'"},
		{[]string{"LED", "BJ"}, "'LED' or 'BJ'"},
		{[]string{"LED", "BJ", "bulb"}, "'LED', 'BJ' or 'bulb'"},
	}
	for _, tt := range tests {
		if got := quoteFilters(tt.in); got != tt.want {
			t.Errorf("quoteFilters(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
