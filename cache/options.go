package cache

import (
	"errors"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate when a Storage cannot
// be constructed from the given configuration.
var ErrInvalidConfig = errors.New("cache: invalid configuration")

// Config configures a Storage instance. Unlike the fields of the
// factory argument string (HOST:PORT), these are the knobs a caller
// sets in code rather than in the module's textual arguments.
type Config struct {
	// SoftTTL and HardTTL bound how long a Put's value remains valid.
	// This module, like the remote store it wraps, does not distinguish
	// the two: if they differ, Storage logs one warning at construction
	// and uses HardTTL for every Put. HardTTL == 0 means no expiry.
	SoftTTL time.Duration
	HardTTL time.Duration

	// MaxSize and MaxCount are accepted for interface compatibility
	// with callers that configure every storage module uniformly, but
	// this module never evicts locally -- the remote store is
	// authoritative for its own memory. A non-zero value is warned
	// about once at construction and otherwise ignored.
	MaxSize  int64
	MaxCount int64

	// PoolSize is the number of goroutines available to run blocking
	// Redis I/O across all of this Storage's tokens.
	PoolSize int

	// QueueCapacity bounds how many jobs may be queued against the
	// shared pool before Submit blocks. Each token's own FIFO is not
	// bounded by it.
	QueueCapacity int

	// CommandTimeout bounds each Redis round trip a token issues. Zero
	// means no deadline beyond the caller's own context.
	CommandTimeout time.Duration

	// Logger receives this module's diagnostics. Defaults to a no-op
	// logger.
	Logger Logger

	// Activity, if set, is notified after every completed operation on
	// every token minted from this Storage. Defaults to a no-op
	// publisher.
	Activity ActivityPublisher
}

// DefaultConfig returns a Config with conservative, production-safe
// defaults: no expiry, a small worker pool, and no-op logging/activity
// collaborators.
func DefaultConfig() Config {
	return Config{
		SoftTTL:        0,
		HardTTL:        0,
		PoolSize:       8,
		QueueCapacity:  64,
		CommandTimeout: 5 * time.Second,
	}
}

// Validate reports whether cfg can be used to construct a Storage.
func (cfg *Config) Validate() error {
	if cfg.PoolSize <= 0 {
		return ErrInvalidConfig
	}
	if cfg.QueueCapacity <= 0 {
		return ErrInvalidConfig
	}
	if cfg.SoftTTL < 0 || cfg.HardTTL < 0 {
		return ErrInvalidConfig
	}
	return nil
}
