// Package maxscalestorageredis is the root-level entry point for this
// module: a shared, invalidatable cache storage backed by a remote
// key/value store, reachable from a single import for the common case.
// Callers that want the lower-level packages directly -- cache, rconn,
// wpool, cachekey -- can still import them individually.
package maxscalestorageredis

import (
	"github.com/mariadb-corporation/maxscale-storage-redis/cache"
	"github.com/mariadb-corporation/maxscale-storage-redis/wpool"
)

// New parses args as "HOST:PORT" and constructs a Storage bound to that
// endpoint, per cfg. name is used only for diagnostics.
func New(name string, cfg Config, args string) (*Storage, error) {
	return cache.New(name, cfg, args)
}

// DefaultConfig returns a Config with conservative, production-safe
// defaults.
func DefaultConfig() Config {
	return cache.DefaultConfig()
}

// NewEventLoop returns a reference Worker implementation backed by one
// goroutine draining a FIFO queue, for callers that do not already have
// their own event loop to bind a token to.
func NewEventLoop(queueCapacity int) *wpool.EventLoop {
	return wpool.NewEventLoop(queueCapacity)
}
