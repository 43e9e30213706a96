package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 15 * time.Second
	ServerReadTimeout     = 10 * time.Second
	ServerWriteTimeout    = 20 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Store timeouts. StoreWriteTimeout bounds writes that are detached from the
// request context.
const (
	StoreOpTimeout    = 3 * time.Second
	StoreWriteTimeout = 5 * time.Second
	StorePingTimeout  = 5 * time.Second
)

// Request limits
const MaxBodyBytes = 16 << 10

// CORS preflight cache
const CORSMaxAgeSeconds = 600
