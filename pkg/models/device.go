package models

import (
	"time"
)

// UnknownName is shown in place of a device name that was never advertised
const UnknownName = "<unknown>"

// Device represents a Bluetooth Low Energy device seen during a scan
type Device struct {
	Name          string    `json:"name,omitempty"`   // Advertised local name, empty when absent
	Address       string    `json:"address"`          // Hardware address, e.g. AA:BB:CC:DD:EE:01
	RandomAddress bool      `json:"random_address"`   // Whether the address is a random (non-public) one
	RSSI          int16     `json:"rssi"`             // Signal strength of the latest advertisement
	Vendor        string    `json:"vendor,omitempty"` // Vendor resolved from the address prefix
	LastSeen      time.Time `json:"last_seen"`        // Time of the latest advertisement
}
