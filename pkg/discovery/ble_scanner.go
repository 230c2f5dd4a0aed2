package discovery

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"
)

// stopRetryInterval is how long to wait before asking the adapter to stop
// again when the scan had not started yet.
const stopRetryInterval = 50 * time.Millisecond

// radio is the subset of *bluetooth.Adapter used for discovery
type radio interface {
	Enable() error
	Scan(callback func(*bluetooth.Adapter, bluetooth.ScanResult)) error
	StopScan() error
}

// BLEScanner discovers devices with the platform Bluetooth stack
type BLEScanner struct {
	adapter radio
	logger  *logrus.Logger
}

// NewBLEScanner creates a scanner on the system's default adapter
func NewBLEScanner(logger *logrus.Logger) *BLEScanner {
	if logger == nil {
		logger = logrus.New()
	}
	return &BLEScanner{
		adapter: bluetooth.DefaultAdapter,
		logger:  logger,
	}
}

// Discover enables the adapter and collects advertisements until the timeout
// elapses or ctx is cancelled. On cancellation the devices seen so far are
// returned together with the context error.
func (s *BLEScanner) Discover(ctx context.Context, timeout time.Duration) ([]Device, error) {
	if err := s.adapter.Enable(); err != nil {
		return nil, errors.Wrapf(ErrAdapterUnavailable, "enable adapter: %v", err)
	}

	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := newCollector()
	done := make(chan struct{})
	go s.stopWhenDone(scanCtx, done)

	s.logger.Debugf("Listening for advertisements for %v", timeout)
	err := s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		adv := toAdvertisement(result)
		if results.observe(adv) {
			s.logger.WithFields(logrus.Fields{
				"address": adv.Address,
				"name":    adv.Name,
				"rssi":    adv.RSSI,
			}).Debug("Discovered device")
		}
	})
	close(done)
	if err != nil {
		return nil, errors.Wrapf(ErrAdapterUnavailable, "scan: %v", err)
	}

	devices := results.snapshot()
	if ctx.Err() != nil {
		return devices, ctx.Err()
	}
	s.logger.Debugf("Scan finished with %d devices", len(devices))
	return devices, nil
}

// stopWhenDone stops the running scan once ctx is done. Scan may not have
// started yet when ctx expires, so StopScan is retried until it succeeds or
// the scan has returned.
func (s *BLEScanner) stopWhenDone(ctx context.Context, done <-chan struct{}) {
	select {
	case <-ctx.Done():
	case <-done:
		return
	}

	for {
		if err := s.adapter.StopScan(); err == nil {
			return
		}
		select {
		case <-done:
			return
		case <-time.After(stopRetryInterval):
		}
	}
}

func toAdvertisement(result bluetooth.ScanResult) advertisement {
	adv := advertisement{
		Address: result.Address.String(),
		Name:    result.LocalName(),
		RSSI:    result.RSSI,
	}
	// Only some platforms expose the address type.
	if r, ok := any(result.Address).(interface{ IsRandom() bool }); ok {
		adv.IsRandom = r.IsRandom()
	}
	return adv
}
