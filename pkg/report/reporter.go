package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/ExclusiveAccount/bulb-finder/pkg/config"
	"github.com/ExclusiveAccount/bulb-finder/pkg/models"
)

const border = "----------------------------------------"

var (
	bannerColor   = color.New(color.FgCyan)
	foundColor    = color.New(color.FgGreen, color.Bold)
	fallbackColor = color.New(color.FgYellow)
)

// Reporter renders scan results to a writer
type Reporter struct {
	out     io.Writer
	format  string
	filters []string
}

// NewReporter creates a reporter writing in the given format (text or json)
func NewReporter(out io.Writer, format string, filters []string) *Reporter {
	return &Reporter{
		out:     out,
		format:  format,
		filters: filters,
	}
}

// Banner prints the start instructions. JSON output has no banner.
func (r *Reporter) Banner(timeout time.Duration) {
	if r.format == config.FormatJSON {
		return
	}
	bannerColor.Fprintf(r.out, "Scanning for Bluetooth devices for %g seconds...\n", timeout.Seconds())
	bannerColor.Fprintln(r.out, "Ensure your bulb is plugged in and NOT connected to your phone.")
}

// Report prints the matches, or every discovered device when nothing matched
func (r *Reporter) Report(result Result) error {
	if r.format == config.FormatJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Found {
		for i := range result.Matches {
			r.printMatch(&result.Matches[i])
		}
		return nil
	}

	fallbackColor.Fprintf(r.out, "\nNo %s devices found. Here is a list of all devices found:\n", quoteFilters(r.filters))
	if len(result.Devices) == 0 {
		fmt.Fprintln(r.out, "    (no devices discovered)")
		return nil
	}
	for i := range result.Devices {
		d := &result.Devices[i]
		if d.Vendor != "" {
			fmt.Fprintf(r.out, "    Name: %s (Address: %s, Vendor: %s)\n", d.DisplayName(), d.Address, d.Vendor)
		} else {
			fmt.Fprintf(r.out, "    Name: %s (Address: %s)\n", d.DisplayName(), d.Address)
		}
	}
	return nil
}

func (r *Reporter) printMatch(d *models.Device) {
	fmt.Fprintln(r.out, border)
	foundColor.Fprintln(r.out, ">>> POTENTIAL BULB FOUND! <<<")
	fmt.Fprintf(r.out, "    Name: %s\n", d.Name)
	fmt.Fprintf(r.out, "    MAC Address: %s\n", d.Address)
	if d.Vendor != "" {
		fmt.Fprintf(r.out, "    Vendor: %s\n", d.Vendor)
	}
	fmt.Fprintln(r.out, "Please copy this MAC Address into the sync script.")
	fmt.Fprintln(r.out, border)
}

// quoteFilters renders filters as 'A', 'B' or 'C'
func quoteFilters(filters []string) string {
	quoted := make([]string, len(filters))
	for i, f := range filters {
		quoted[i] = "'" + f + "'"
	}
	if len(quoted) <= 1 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}
