package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ExclusiveAccount/bulb-finder/pkg/models"
)

// Device is an alias for models.Device
type Device = models.Device

// ErrAdapterUnavailable is returned when no usable Bluetooth radio is present,
// it is powered off, or access to it was denied.
var ErrAdapterUnavailable = errors.New("bluetooth adapter unavailable")

// Scanner discovers advertising devices within a time window
type Scanner interface {
	// Discover listens for advertisements for up to timeout and returns the
	// devices seen, in the order they were first observed.
	Discover(ctx context.Context, timeout time.Duration) ([]Device, error)
}

// advertisement is the part of a received advertisement the finder cares about
type advertisement struct {
	Address  string
	Name     string
	RSSI     int16
	IsRandom bool
}

// collector aggregates advertisements into one record per address. It is safe
// for concurrent use since radio drivers may deliver results from several
// goroutines.
type collector struct {
	mu      sync.Mutex
	index   map[string]int
	devices []Device
	now     func() time.Time
}

func newCollector() *collector {
	return &collector{
		index: make(map[string]int),
		now:   time.Now,
	}
}

// observe records an advertisement. It returns true the first time an
// address is seen.
func (c *collector) observe(adv advertisement) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[adv.Address]; ok {
		d := &c.devices[i]
		// Names often only arrive in the scan response.
		if d.Name == "" && adv.Name != "" {
			d.Name = adv.Name
		}
		d.RSSI = adv.RSSI
		d.LastSeen = c.now()
		return false
	}

	c.index[adv.Address] = len(c.devices)
	c.devices = append(c.devices, Device{
		Name:          adv.Name,
		Address:       adv.Address,
		RandomAddress: adv.IsRandom,
		RSSI:          adv.RSSI,
		LastSeen:      c.now(),
	})
	return true
}

// snapshot returns a copy of the devices collected so far
func (c *collector) snapshot() []Device {
	c.mu.Lock()
	defer c.mu.Unlock()

	devices := make([]Device, len(c.devices))
	copy(devices, c.devices)
	return devices
}

var (
	_ Scanner = (*BLEScanner)(nil)
	_ Scanner = (*TestScanner)(nil)
)
