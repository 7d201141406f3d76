package maxscalestorageredis

import "github.com/mariadb-corporation/maxscale-storage-redis/cache"

// ErrInvalidArguments is returned when the factory argument string
// cannot be parsed as HOST:PORT.
var ErrInvalidArguments = cache.ErrInvalidArguments

// ErrInvalidConfig is returned when the supplied Config fails
// validation.
var ErrInvalidConfig = cache.ErrInvalidConfig

// ErrConnect is returned when a token cannot open its dedicated
// connection to the remote store.
var ErrConnect = cache.ErrConnect
