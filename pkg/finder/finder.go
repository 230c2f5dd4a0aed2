// Package finder runs one scan and reports which devices look like smart bulbs.
package finder

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ExclusiveAccount/bulb-finder/pkg/config"
	"github.com/ExclusiveAccount/bulb-finder/pkg/discovery"
	"github.com/ExclusiveAccount/bulb-finder/pkg/fingerprint"
	"github.com/ExclusiveAccount/bulb-finder/pkg/models"
	"github.com/ExclusiveAccount/bulb-finder/pkg/report"
)

// Finder ties a scanner to a reporter
type Finder struct {
	config   config.Config
	scanner  discovery.Scanner
	vendors  *fingerprint.MacVendorDB
	reporter *report.Reporter
	logger   *logrus.Logger
}

// NewFinder creates a finder. vendors may be nil to skip vendor lookup.
func NewFinder(cfg config.Config, scanner discovery.Scanner, vendors *fingerprint.MacVendorDB, out io.Writer, logger *logrus.Logger) *Finder {
	if logger == nil {
		logger = logrus.New()
	}
	cfg.Filters = config.ParseFilters(cfg.Filters...)
	return &Finder{
		config:   cfg,
		scanner:  scanner,
		vendors:  vendors,
		reporter: report.NewReporter(out, cfg.Format, cfg.Filters),
		logger:   logger,
	}
}

// ScanAndReport prints the start banner, scans for the configured timeout and
// reports the devices whose names match a filter. When nothing matches every
// discovered device is listed instead. An interrupted scan still reports the
// devices seen before the interruption.
func (f *Finder) ScanAndReport(ctx context.Context) (report.Result, error) {
	if err := f.config.Validate(); err != nil {
		return report.Result{}, errors.Wrap(err, "invalid configuration")
	}

	f.reporter.Banner(f.config.Timeout)
	if f.config.Format == config.FormatJSON {
		// stdout carries only the JSON document
		f.logger.Warnf("Scanning for Bluetooth devices for %g seconds. Ensure your bulb is plugged in and NOT connected to your phone.",
			f.config.Timeout.Seconds())
	}
	f.logger.WithFields(logrus.Fields{
		"timeout": f.config.Timeout,
		"filters": f.config.Filters,
	}).Info("Starting Bluetooth scan")

	devices, err := f.scanner.Discover(ctx, f.config.Timeout)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		f.logger.Warnf("Scan interrupted, reporting %d devices seen so far", len(devices))
	default:
		return report.Result{}, errors.Wrap(err, "bluetooth scan failed")
	}
	f.logger.Infof("Scan completed, found %d devices", len(devices))

	f.resolveVendors(devices)

	result := report.Evaluate(devices, f.config.Filters)
	if err := f.reporter.Report(result); err != nil {
		return result, errors.Wrap(err, "failed to write report")
	}
	return result, nil
}

func (f *Finder) resolveVendors(devices []models.Device) {
	if f.vendors == nil {
		return
	}
	for i := range devices {
		// Random addresses carry no vendor prefix.
		if devices[i].RandomAddress {
			continue
		}
		devices[i].Vendor = f.vendors.LookupVendor(devices[i].Address)
	}
}
