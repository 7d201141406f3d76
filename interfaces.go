package maxscalestorageredis

import (
	"github.com/mariadb-corporation/maxscale-storage-redis/cache"
	"github.com/mariadb-corporation/maxscale-storage-redis/cachekey"
	"github.com/mariadb-corporation/maxscale-storage-redis/wpool"
)

// Config is an alias for cache.Config.
type Config = cache.Config

// Storage is an alias for cache.Storage.
type Storage = cache.Storage

// Token is an alias for cache.Token.
type Token = cache.Token

// ResultCode is an alias for cache.ResultCode.
type ResultCode = cache.ResultCode

// Stats is an alias for cache.Stats.
type Stats = cache.Stats

// Logger is an alias for cache.Logger.
type Logger = cache.Logger

// Event is an alias for cache.Event.
type Event = cache.Event

// ActivityPublisher is an alias for cache.ActivityPublisher.
type ActivityPublisher = cache.ActivityPublisher

// Key is an alias for cachekey.Key.
type Key = cachekey.Key

// Value is an alias for cachekey.Value.
type Value = cachekey.Value

// Words is an alias for cachekey.Words.
type Words = cachekey.Words

// Word is an alias for cachekey.Word.
type Word = cachekey.Word

// Worker is an alias for wpool.Worker.
type Worker = wpool.Worker

const (
	ResultOK       = cache.ResultOK
	ResultNotFound = cache.ResultNotFound
	ResultError    = cache.ResultError
	ResultPending  = cache.ResultPending
)

const (
	KindShared = cache.KindShared
)

const (
	CapST           = cache.CapST
	CapMT           = cache.CapMT
	CapInvalidation = cache.CapInvalidation
)

// NewKey is an alias for cachekey.NewKey.
func NewKey(b []byte) Key { return cachekey.NewKey(b) }

// NewValue is an alias for cachekey.NewValue.
func NewValue(b []byte) Value { return cachekey.NewValue(b) }

// NewConsoleLogger is an alias for cache.NewConsoleLogger.
func NewConsoleLogger(prefix string) Logger { return cache.NewConsoleLogger(prefix) }

// NewNoOpLogger is an alias for cache.NewNoOpLogger.
func NewNoOpLogger() Logger { return cache.NewNoOpLogger() }
