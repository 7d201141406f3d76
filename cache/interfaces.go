package cache

// ResultCode is the outcome of a cache operation, delivered either
// synchronously (ResultPending, from every async call's return value) or
// through that call's completion callback (every other value --
// ResultPending itself is never passed to a callback).
type ResultCode int

const (
	// ResultOK indicates the operation completed successfully.
	ResultOK ResultCode = iota
	// ResultNotFound indicates a Get or Delete found nothing for the key.
	ResultNotFound
	// ResultError indicates a transport, typing, semantic, shape, or
	// configuration failure; the cause is logged, never threaded through
	// the callback.
	ResultError
	// ResultPending is returned synchronously by every async call and
	// is never itself passed to a callback.
	ResultPending
)

func (r ResultCode) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultNotFound:
		return "NOT_FOUND"
	case ResultError:
		return "ERROR"
	case ResultPending:
		return "PENDING"
	default:
		return "UNKNOWN"
	}
}

// Kind describes the storage topology a Storage instance implements.
type Kind int

const (
	// KindShared indicates every token talks to the same remote store;
	// there is no per-process tier.
	KindShared Kind = iota
)

// Capabilities is a bitmask of optional behaviors a Storage advertises.
type Capabilities uint32

const (
	// CapST indicates single-threaded use is supported.
	CapST Capabilities = 1 << iota
	// CapMT indicates concurrent use from multiple workers is supported.
	CapMT
	// CapInvalidation indicates Invalidate is supported.
	CapInvalidation
)

// Stats are per-token operation counters, exposed for diagnostics. They
// are not part of the remote store's own state and reset when a Token is
// created.
type Stats struct {
	Gets        int64
	Hits        int64
	Misses      int64
	Puts        int64
	Deletes     int64
	Invalidates int64
	Errors      int64
}
