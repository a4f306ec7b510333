package types

import "errors"

// Config holds backend selection and connection parameters for a Store.
type Config struct {
	Backend       string `json:"backend" yaml:"backend"`
	MaxOpenConns  int    `json:"max_open_conns" yaml:"max_open_conns"`
	BusyTimeoutMS int    `json:"busy_timeout_ms" yaml:"busy_timeout_ms"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Connection defaults applied when the corresponding field is zero.
const (
	DefaultMaxOpenConns  = 4
	DefaultBusyTimeoutMS = 5000
)

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrInvalidPoolSize = errors.New("pool size must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// DefaultConfig returns a SQLite configuration with default pool settings.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendSQLite,
		MaxOpenConns:  DefaultMaxOpenConns,
		BusyTimeoutMS: DefaultBusyTimeoutMS,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.MaxOpenConns < 0 || c.BusyTimeoutMS < 0 {
		return ErrInvalidPoolSize
	}
	return nil
}

// WithDefaults returns c with zero connection parameters replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.BusyTimeoutMS == 0 {
		c.BusyTimeoutMS = DefaultBusyTimeoutMS
	}
	return c
}
