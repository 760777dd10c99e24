package model

// Shared defaults used by the CLI and the library packages.
const (
	// Unlocated is the location of a record whose IP has no geolocation match.
	Unlocated = "unlocated"

	DefaultLogfilesFolder   = "./Logfiles/access*.log*"
	DefaultGeoIPDatabase    = "./db.mmdb"
	DefaultReadConcurrency  = 4
	DefaultMaxLineSize      = 1024 * 1024 // 1MB
	DefaultLookupCacheSize  = 4096
	DefaultDailyChartKeys   = 8
	DefaultRankingChartBars = 20
)
