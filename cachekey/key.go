// Package cachekey holds the value types passed across the cache boundary:
// fingerprint keys, value buffers, and invalidation words. None of them
// know about Redis; they are plain data, compared through Key.Equal
// rather than ==.
package cachekey

import "bytes"

// Key is an opaque, caller-produced fingerprint identifying one cached
// result. The cache never interprets its bytes, only stores and compares
// them.
type Key struct {
	raw []byte
}

// NewKey copies b into a new Key. The caller's slice may be reused or
// mutated afterwards without affecting the Key.
func NewKey(b []byte) Key {
	return Key{raw: append([]byte(nil), b...)}
}

// Equal reports whether two keys carry the same bytes.
func (k Key) Equal(other Key) bool {
	return bytes.Equal(k.raw, other.raw)
}

// IsZero reports whether the key was never assigned a fingerprint.
func (k Key) IsZero() bool {
	return len(k.raw) == 0
}

// ToVector returns the key's backing byte vector, as used for the Redis
// string key and as a member of every secondary-index hash. The returned
// slice is a defensive copy.
func (k Key) ToVector() []byte {
	return append([]byte(nil), k.raw...)
}

// String renders the key's bytes for logging; it makes no claim to be
// human readable for arbitrary fingerprints.
func (k Key) String() string {
	return string(k.raw)
}
