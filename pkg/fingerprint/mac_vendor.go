package fingerprint

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MacVendorDB represents a database of MAC address prefixes mapped to vendors
type MacVendorDB struct {
	vendors     map[string]string // MAC prefix -> vendor name
	lastUpdated time.Time
	mutex       sync.RWMutex
	logger      *logrus.Logger
}

// NewMacVendorDB creates an empty MAC vendor database
func NewMacVendorDB(logger *logrus.Logger) *MacVendorDB {
	if logger == nil {
		logger = logrus.New()
	}
	return &MacVendorDB{
		vendors: make(map[string]string),
		logger:  logger,
	}
}

// LoadMacVendorDB reads a vendor database from a local CSV file
func LoadMacVendorDB(path string, logger *logrus.Logger) (*MacVendorDB, error) {
	db := NewMacVendorDB(logger)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MAC vendor database: %v", err)
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil {
		db.lastUpdated = info.ModTime()
	}
	if err := db.Load(file); err != nil {
		return nil, fmt.Errorf("failed to read MAC vendor database %s: %v", path, err)
	}
	return db, nil
}

// Load parses vendor records and merges them into the database. Two layouts
// are accepted: the IEEE oui.csv export
// (Registry,Assignment,Organization Name,Organization Address) and plain
// "PREFIX,Vendor" lines.
func (db *MacVendorDB) Load(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	vendors := make(map[string]string)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			db.logger.Warnf("Error reading CSV line: %v", err)
			continue
		}

		if len(record) < 2 {
			continue
		}
		var prefix, vendor string
		if isRegistryRecord(record) {
			prefix, vendor = record[1], record[2]
		} else {
			// Unquoted commas in plain records belong to the vendor name.
			prefix, vendor = record[0], strings.Join(record[1:], ",")
		}

		prefix = normalizeMAC(prefix)
		vendor = strings.TrimSpace(vendor)
		// Skips the header row as well.
		if !isHex(prefix) || len(prefix) < 6 || vendor == "" {
			continue
		}
		vendors[prefix] = vendor
	}

	db.mutex.Lock()
	for prefix, vendor := range vendors {
		db.vendors[prefix] = vendor
	}
	count := len(db.vendors)
	db.mutex.Unlock()

	db.logger.Debugf("Loaded %d MAC vendor entries", count)
	return nil
}

// LookupVendor looks up a vendor by MAC address
func (db *MacVendorDB) LookupVendor(macAddress string) string {
	macAddress = normalizeMAC(macAddress)
	if len(macAddress) < 6 {
		return ""
	}

	db.mutex.RLock()
	defer db.mutex.RUnlock()

	// MA-S and MA-M blocks use 36 and 28 bit prefixes, so odd lengths count too
	for i := len(macAddress); i >= 6; i-- {
		if vendor, exists := db.vendors[macAddress[:i]]; exists {
			return vendor
		}
	}

	return ""
}

// GetLastUpdated returns the modification time of the loaded database file
func (db *MacVendorDB) GetLastUpdated() time.Time {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return db.lastUpdated
}

// Count returns the number of entries in the MAC vendor database
func (db *MacVendorDB) Count() int {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	return len(db.vendors)
}

// isRegistryRecord reports whether a record uses the IEEE export layout,
// including its header row.
func isRegistryRecord(record []string) bool {
	if len(record) < 3 {
		return false
	}
	switch strings.ToUpper(strings.TrimSpace(record[0])) {
	case "MA-L", "MA-M", "MA-S", "CID", "IAB", "REGISTRY":
		return true
	}
	return false
}

// normalizeMAC removes separators and converts to uppercase
func normalizeMAC(mac string) string {
	mac = strings.TrimSpace(mac)
	mac = strings.ReplaceAll(mac, ":", "")
	mac = strings.ReplaceAll(mac, "-", "")
	mac = strings.ReplaceAll(mac, ".", "")
	return strings.ToUpper(mac)
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return false
		}
	}
	return s != ""
}
