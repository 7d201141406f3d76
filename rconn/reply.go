// Package rconn is a thin, reply-level wrapper around one Redis
// connection. It gives callers the same request/reply narrative the
// remote store's own wire protocol has -- a single round trip returns a
// tagged reply, a transaction returns a status per queued command plus
// an array for EXEC -- instead of go-redis's higher-level typed command
// results.
package rconn

import "github.com/redis/go-redis/v9"

// Kind tags the shape of a Reply, mirroring the handful of RESP reply
// types this module ever needs to distinguish.
type Kind int

const (
	KindNil Kind = iota
	KindError
	KindStatus
	KindString
	KindInteger
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindError:
		return "error"
	case KindStatus:
		return "status"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Reply is a tagged union over the reply shapes this module issues
// commands for. It never panics on a type it doesn't expect; an
// unrecognized or erroring result becomes a KindError reply instead.
type Reply struct {
	Kind Kind

	str   string
	num   int64
	elems []*Reply
	err   string
}

// Str returns the reply's string payload. Valid for KindStatus and
// KindString; zero value otherwise.
func (r *Reply) Str() string { return r.str }

// Int returns the reply's integer payload. Valid for KindInteger; zero
// otherwise.
func (r *Reply) Int() int64 { return r.num }

// Err returns the reply's error message. Valid for KindError; empty
// otherwise.
func (r *Reply) Err() string { return r.err }

// Elements returns the reply's array elements in order. Valid for
// KindArray; nil otherwise.
func (r *Reply) Elements() []*Reply { return r.elems }

// IsStatus reports whether the reply is a status reply equal to want.
func (r *Reply) IsStatus(want string) bool {
	return r.Kind == KindStatus && r.str == want
}

// replyFromResult converts a go-redis generic command result into a
// Reply. statusHint tells it to tag a string result as KindStatus rather
// than KindString, for commands (MULTI, SET, PING) whose wire reply is
// a status line rather than a bulk string --
// a distinction go-redis's generic Do path does not preserve on its own.
func replyFromResult(v interface{}, err error, statusHint bool) *Reply {
	if err == redis.Nil {
		return &Reply{Kind: KindNil}
	}
	if err != nil {
		return &Reply{Kind: KindError, err: err.Error()}
	}
	switch t := v.(type) {
	case nil:
		return &Reply{Kind: KindNil}
	case int64:
		return &Reply{Kind: KindInteger, num: t}
	case string:
		if statusHint {
			return &Reply{Kind: KindStatus, str: t}
		}
		return &Reply{Kind: KindString, str: t}
	case []byte:
		return &Reply{Kind: KindString, str: string(t)}
	case []interface{}:
		elems := make([]*Reply, len(t))
		for i, e := range t {
			elems[i] = replyFromResult(e, nil, false)
		}
		return &Reply{Kind: KindArray, elems: elems}
	default:
		return &Reply{Kind: KindError, err: "rconn: unrecognized reply shape"}
	}
}

func statusReply(s string) *Reply {
	return &Reply{Kind: KindStatus, str: s}
}

func errorReply(msg string) *Reply {
	return &Reply{Kind: KindError, err: msg}
}

func arrayReply(elems []*Reply) *Reply {
	return &Reply{Kind: KindArray, elems: elems}
}
