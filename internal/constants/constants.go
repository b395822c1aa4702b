package constants

import "time"

const (
	// ResultCacheTTL is how long a settled result stays answerable without
	// touching the store.
	ResultCacheTTL = 30 * time.Second
	// LookbackWindow bounds how far back the attempt-log scan searches for
	// an already-settled duplicate.
	LookbackWindow = 5 * time.Minute
)

const (
	RequestTimeout    = 30 * time.Second
	DatabaseTimeout   = 5 * time.Second
	EnrichmentTimeout = 10 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	HistoryDefaultLimit = 20
	HistoryMaxLimit     = 100
)
