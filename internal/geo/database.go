package geo

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
	log "github.com/sirupsen/logrus"
)

// Database is a Locator backed by a MaxMind country or city database.
type Database struct {
	reader *geoip2.Reader
	path   string
}

// OpenDatabase opens the .mmdb file at path.
func OpenDatabase(path string) (*Database, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseUnavailable, path, err)
	}
	meta := reader.Metadata()
	log.Debugf("geo: opened %s (%s, built %d)", path, meta.DatabaseType, meta.BuildEpoch)
	return &Database{reader: reader, path: path}, nil
}

// Locate returns the ISO country code of ip, falling back to the registered
// country. Unparsable addresses and lookup errors are treated as no match.
func (d *Database) Locate(ip string) (string, bool) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return "", false
	}
	record, err := d.reader.Country(addr)
	if err != nil {
		log.Debugf("geo: lookup %s: %v", ip, err)
		return "", false
	}
	if code := record.Country.IsoCode; code != "" {
		return code, true
	}
	if code := record.RegisteredCountry.IsoCode; code != "" {
		return code, true
	}
	return "", false
}

// Path returns the database file path.
func (d *Database) Path() string { return d.path }

// Close releases the database.
func (d *Database) Close() error {
	return d.reader.Close()
}
