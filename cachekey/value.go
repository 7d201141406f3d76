package cachekey

// Value is an immutable view of a cached result body. The cache clones
// incoming values before handing them to background work so that a
// caller reusing its own buffer afterwards can never race with an
// in-flight Put.
type Value struct {
	raw []byte
}

// NewValue wraps b without copying. Callers that intend to keep writing
// to b after this call should use Clone first, or pass a buffer they are
// done with.
func NewValue(b []byte) Value {
	return Value{raw: b}
}

// Clone returns a Value with its own backing array, safe to hand to a
// goroutine that will outlive the caller's reference to the original
// buffer.
func (v Value) Clone() Value {
	return Value{raw: append([]byte(nil), v.raw...)}
}

// Bytes returns the value's bytes. Callers must not mutate the returned
// slice.
func (v Value) Bytes() []byte {
	return v.raw
}

// Len returns the length of the value in bytes.
func (v Value) Len() int {
	return len(v.raw)
}

// IsZero reports whether the value has a nil backing slice, as the zero
// Value does. A Value built from a non-nil, zero-length slice is not
// zero, while Clone of an empty Value is. Callers that need to
// distinguish "absent" from "empty" should carry that separately, as
// the cache itself does via ResultCode.
func (v Value) IsZero() bool {
	return v.raw == nil
}
