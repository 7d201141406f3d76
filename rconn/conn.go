package rconn

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Logger is the minimal logging surface rconn needs. cache.Logger
// satisfies it structurally; rconn does not import cache to avoid a
// cycle.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Conn owns exactly one dedicated connection out of a *redis.Client's
// pool, obtained via Client.Conn. A session token holds exactly one
// Conn for its lifetime so that at most one pipeline is outstanding on
// the underlying TCP connection at a time.
type Conn struct {
	rc     *redis.Conn
	logger Logger
}

// Dial opens one dedicated connection against client and wraps it. The
// connection is not validated beyond what go-redis's lazy dial does;
// callers that want an eager liveness check should issue a PING via
// Command.
func Dial(client *redis.Client, logger Logger) *Conn {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Conn{rc: client.Conn(), logger: logger}
}

// Close releases the dedicated connection back to the pool (or closes
// it, if the pool is already shut down).
func (c *Conn) Close() error {
	return c.rc.Close()
}

// Command issues one command and waits for its reply.
func (c *Conn) Command(ctx context.Context, args ...interface{}) *Reply {
	res, err := c.rc.Do(ctx, args...).Result()
	return replyFromResult(res, err, isStatusCommand(args))
}

func isStatusCommand(args []interface{}) bool {
	if len(args) == 0 {
		return false
	}
	name, ok := args[0].(string)
	if !ok {
		return false
	}
	switch name {
	case "MULTI", "SET", "PING":
		return true
	default:
		return false
	}
}

// Pipe is a non-transactional batch of commands sent in one round trip.
// Unlike Tx, commands queued on a Pipe are not wrapped in MULTI/EXEC and
// each is applied independently even if an earlier one fails.
type Pipe struct {
	pl     redis.Pipeliner
	ctx    context.Context
	cmds   []*redis.Cmd
	status []bool
}

// Pipeline starts a non-transactional batch against the connection.
func (c *Conn) Pipeline(ctx context.Context) *Pipe {
	return &Pipe{pl: c.rc.Pipeline(), ctx: ctx}
}

// Append queues one command without sending it.
func (p *Pipe) Append(args ...interface{}) {
	p.cmds = append(p.cmds, p.pl.Do(p.ctx, args...))
	p.status = append(p.status, isStatusCommand(args))
}

// Exec sends every queued command in one round trip and returns one
// Reply per Append call, in order. Per-command errors are reported as
// KindError replies at that position; a connection-level failure shows
// up as a KindError reply at every position. The returned error is
// always nil.
func (p *Pipe) Exec() ([]*Reply, error) {
	// Errors from individual commands surface per-command below via
	// cmd.Result(); Exec's own error only matters for a connection-level
	// failure, which is rare enough here that we fold it into each
	// command's result instead of a separate pipeline-level code path.
	_, _ = p.pl.Exec(p.ctx)
	replies := make([]*Reply, len(p.cmds))
	for i, cmd := range p.cmds {
		res, cmdErr := cmd.Result()
		replies[i] = replyFromResult(res, cmdErr, p.status[i])
	}
	return replies, nil
}

// Tx is a transactional batch: MULTI, the queued commands, and EXEC are
// sent in one round trip, but Exec's return value reconstructs the full
// per-command narrative (an OK for MULTI, a QUEUED per queued command,
// and the EXEC array) so call sites read the same way they would against
// a literal hiredis-style connection.
type Tx struct {
	pl     redis.Pipeliner
	ctx    context.Context
	cmds   []*redis.Cmd
	status []bool
	logger Logger
}

// Tx starts a transactional batch against the connection.
func (c *Conn) Tx(ctx context.Context) *Tx {
	return &Tx{pl: c.rc.TxPipeline(), ctx: ctx, logger: c.logger}
}

// Append queues one command inside the transaction.
func (t *Tx) Append(args ...interface{}) {
	t.cmds = append(t.cmds, t.pl.Do(t.ctx, args...))
	t.status = append(t.status, isStatusCommand(args))
}

// Exec commits the transaction and returns the full narrative: index 0
// is the synthesized MULTI acknowledgement, indexes 1..N are synthesized
// QUEUED acknowledgements (one per Append call), and the final index is
// the EXEC reply -- a KindArray reply whose elements are each queued
// command's actual result. If the transaction fails (including when the
// server discards it), every entry of the narrative is a KindError reply
// and the error is returned as well.
func (t *Tx) Exec() ([]*Reply, error) {
	_, err := t.pl.Exec(t.ctx)
	if err != nil && err != redis.Nil {
		t.logger.Error("redis transaction failed", "error", err)
		narrative := make([]*Reply, 0, len(t.cmds)+2)
		narrative = append(narrative, errorReply(err.Error()))
		for range t.cmds {
			narrative = append(narrative, errorReply(err.Error()))
		}
		narrative = append(narrative, errorReply(err.Error()))
		return narrative, err
	}

	narrative := make([]*Reply, 0, len(t.cmds)+2)
	narrative = append(narrative, statusReply("OK"))
	elems := make([]*Reply, len(t.cmds))
	for i, cmd := range t.cmds {
		narrative = append(narrative, statusReply("QUEUED"))
		res, cmdErr := cmd.Result()
		elems[i] = replyFromResult(res, cmdErr, t.status[i])
	}
	narrative = append(narrative, arrayReply(elems))
	return narrative, nil
}

// ExpectStatus checks that replies[idx] is a status reply equal to want,
// logging a warning naming logCtx if it is not (an error if idx is out
// of range). It always returns
// whether the expectation held; it never itself aborts anything.
func ExpectStatus(logger Logger, replies []*Reply, idx int, want, logCtx string) bool {
	if idx < 0 || idx >= len(replies) {
		logger.Error(fmt.Sprintf("%s: missing reply at index %d", logCtx, idx))
		return false
	}
	r := replies[idx]
	if r.Kind == KindStatus && r.str == want {
		return true
	}
	logger.Warn(fmt.Sprintf("%s: expected status %q, got %s", logCtx, want, describeReply(r)))
	return false
}

// ExpectNStatus checks that replies[from:from+n] are all status replies
// equal to want.
func ExpectNStatus(logger Logger, replies []*Reply, from, n int, want, logCtx string) bool {
	ok := true
	for i := 0; i < n; i++ {
		if !ExpectStatus(logger, replies, from+i, want, logCtx) {
			ok = false
		}
	}
	return ok
}

func describeReply(r *Reply) string {
	switch r.Kind {
	case KindError:
		return fmt.Sprintf("error(%s)", r.err)
	case KindNil:
		return "nil"
	case KindInteger:
		return fmt.Sprintf("integer(%d)", r.num)
	case KindArray:
		return fmt.Sprintf("array(len=%d)", len(r.elems))
	default:
		return fmt.Sprintf("%s(%q)", r.Kind, r.str)
	}
}
