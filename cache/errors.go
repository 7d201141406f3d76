package cache

import "errors"

// ErrInvalidArguments is returned by New when its args string is not a
// valid HOST:PORT pair.
var ErrInvalidArguments = errors.New("cache: invalid arguments, expected HOST:PORT")

// ErrConnect is returned by Storage.CreateToken when the token's
// dedicated connection could not be established.
var ErrConnect = errors.New("cache: could not connect to remote store")
