package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mariadb-corporation/maxscale-storage-redis/rconn"
	"github.com/mariadb-corporation/maxscale-storage-redis/wpool"
)

// Storage is the factory for this module's session tokens. One Storage
// corresponds to one remote store endpoint; all tokens it mints share
// that endpoint's connection pool and this Storage's Config.
type Storage struct {
	name   string
	cfg    Config
	client *redis.Client
	pool   *wpool.Pool
	logger Logger

	// sf collapses concurrent GetValue calls for the same key into one
	// remote round trip. It is shared across every Token this Storage
	// mints, because a single token's own FIFO never has two calls in
	// flight at once -- the overlap this guards against is several
	// sessions (tokens) fetching the same key around the same time.
	sf singleflight.Group
}

// New parses args as "HOST:PORT" and constructs a Storage bound to that
// endpoint. It does not dial; the first I/O happens in CreateToken. cfg
// is validated up front, every rejection is logged at Error, and the
// one-time construction warnings (soft/hard TTL mismatch, non-zero
// MaxSize/MaxCount) are logged exactly once, here.
func New(name string, cfg Config, args string) (*Storage, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = NewNoOpLogger()
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "name", name, "cause", err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	host, portStr, err := net.SplitHostPort(args)
	if err != nil {
		logger.Error("invalid arguments, expected HOST:PORT", "name", name, "args", args, "cause", err)
		return nil, fmt.Errorf("%s: %w: %v", name, ErrInvalidArguments, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		logger.Error("invalid arguments, port must be a positive integer", "name", name, "port", portStr)
		return nil, fmt.Errorf("%s: %w: port must be a positive integer, got %q", name, ErrInvalidArguments, portStr)
	}

	activity := cfg.Activity
	if activity == nil {
		activity = NoOpActivityPublisher{}
	}
	cfg.Logger = logger
	cfg.Activity = activity

	if cfg.SoftTTL != cfg.HardTTL {
		logger.Warn("soft and hard TTL differ; using hard TTL for every Put",
			"soft", cfg.SoftTTL, "hard", cfg.HardTTL)
	}
	if cfg.MaxSize != 0 {
		logger.Warn("MaxSize is ignored; the remote store is authoritative for its own memory", "maxSize", cfg.MaxSize)
	}
	if cfg.MaxCount != 0 {
		logger.Warn("MaxCount is ignored; the remote store is authoritative for its own memory", "maxCount", cfg.MaxCount)
	}

	client := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort(host, portStr),
		// RESP2 keeps HGETALL replies as flat field/value arrays, the
		// shape rconn.Reply models; RESP3 would return them as maps.
		Protocol: 2,
	})

	return &Storage{
		name:   name,
		cfg:    cfg,
		client: client,
		pool:   wpool.NewPool(cfg.PoolSize, cfg.QueueCapacity),
		logger: logger,
	}, nil
}

// Initialize reports this module's topology and capabilities.
func (s *Storage) Initialize() (Kind, Capabilities) {
	return KindShared, CapST | CapMT | CapInvalidation
}

// CreateToken mints a new Token bound to worker: every completion this
// token produces is posted to worker, and worker is the only goroutine
// that ever observes this token's callbacks running. The token opens one
// dedicated connection immediately, surfacing a dial failure here rather
// than on first use.
func (s *Storage) CreateToken(ctx context.Context, worker wpool.Worker) (*Token, error) {
	conn := rconn.Dial(s.client, s.logger)
	if err := conn.Command(ctx, "PING").Err(); err != "" {
		conn.Close()
		return nil, fmt.Errorf("%s: %w: %s: %s", s.name, ErrConnect, s.client.Options().Addr, err)
	}

	return newToken(s, conn, worker), nil
}

// Close releases the Storage's worker pool and its shared client. Tokens
// minted from this Storage must be closed by their own owners before or
// after calling Close; Close does not close outstanding tokens for them.
func (s *Storage) Close() error {
	_ = s.pool.Close()
	return s.client.Close()
}

// Clear is not supported by this module; the remote store has no
// "clear everything this module owns" primitive that would not also
// affect keys outside this module's control.
func (s *Storage) Clear(context.Context) ResultCode { return ResultError }

// GetSize is not supported: the remote store does not expose a
// per-module size figure cheaply.
func (s *Storage) GetSize(context.Context) (int64, ResultCode) { return 0, ResultError }

// GetItems is not supported: there is no local item table to enumerate.
func (s *Storage) GetItems(context.Context, int64) ([]string, ResultCode) { return nil, ResultError }

// GetHead is not supported: this module keeps no ordering over its
// entries.
func (s *Storage) GetHead(context.Context) (string, ResultCode) { return "", ResultError }

// GetTail is not supported, for the same reason as GetHead.
func (s *Storage) GetTail(context.Context) (string, ResultCode) { return "", ResultError }

// GetInfo is not supported: this module has no statistics beyond the
// per-token Stats already exposed by Token.Stats.
func (s *Storage) GetInfo(context.Context) (string, ResultCode) { return "", ResultError }
