package discovery

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// TestScanner returns a fixed set of simulated devices without touching the
// radio. It backs the --test mode and unit tests.
type TestScanner struct {
	logger  *logrus.Logger
	devices []Device
}

// NewTestScanner creates a test scanner. Without explicit devices a small
// simulated neighbourhood is used.
func NewTestScanner(logger *logrus.Logger, devices ...Device) *TestScanner {
	if logger == nil {
		logger = logrus.New()
	}
	if devices == nil {
		devices = generateTestDevices()
	}
	return &TestScanner{
		logger:  logger,
		devices: devices,
	}
}

// Discover returns the simulated devices immediately
func (s *TestScanner) Discover(ctx context.Context, timeout time.Duration) ([]Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.logger.Infof("Test scan returning %d simulated devices (timeout %v ignored)", len(s.devices), timeout)

	devices := make([]Device, len(s.devices))
	copy(devices, s.devices)
	return devices, nil
}

func generateTestDevices() []Device {
	return []Device{
		{Name: "BJ_LED_M", Address: "BE:58:30:00:CC:11", RSSI: -58},
		{Name: "Galaxy Buds", Address: "64:1B:2F:8A:03:9E", RSSI: -71},
		{Address: "5A:3C:91:0E:44:D2", RandomAddress: true, RSSI: -88},
		{Name: "QHM-LEDBLE", Address: "FF:FF:10:2A:7B:05", RSSI: -63},
	}
}
