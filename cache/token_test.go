package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mariadb-corporation/maxscale-storage-redis/cachekey"
	"github.com/mariadb-corporation/maxscale-storage-redis/wpool"
)

func newTestToken(t *testing.T) (*Storage, *Token, *wpool.EventLoop) {
	t.Helper()
	requireLiveRedis(t)

	s, err := New("redis_test", DefaultConfig(), "localhost:6379")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	worker := wpool.NewEventLoop(16)
	tok, err := s.CreateToken(context.Background(), worker)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	return s, tok, worker
}

func TestTokenPutThenGetRoundTrips(t *testing.T) {
	s, tok, worker := newTestToken(t)
	defer s.Close()
	defer worker.Close()
	defer tok.Close()

	key := cachekey.NewKey([]byte("select 1"))
	value := cachekey.NewValue([]byte("result-body"))

	putDone := make(chan ResultCode, 1)
	if code := tok.PutValue(context.Background(), key, nil, value, func(code ResultCode) {
		putDone <- code
	}); code != ResultPending {
		t.Fatalf("expected ResultPending, got %v", code)
	}
	if got := <-putDone; got != ResultOK {
		t.Fatalf("put: expected ResultOK, got %v", got)
	}

	getDone := make(chan struct {
		code ResultCode
		val  cachekey.Value
	}, 1)
	if code := tok.GetValue(context.Background(), key, func(code ResultCode, v cachekey.Value) {
		getDone <- struct {
			code ResultCode
			val  cachekey.Value
		}{code, v}
	}); code != ResultPending {
		t.Fatalf("expected ResultPending, got %v", code)
	}

	select {
	case got := <-getDone:
		if got.code != ResultOK {
			t.Fatalf("get: expected ResultOK, got %v", got.code)
		}
		if string(got.val.Bytes()) != "result-body" {
			t.Fatalf("get: expected %q, got %q", "result-body", got.val.Bytes())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for get callback")
	}
}

func TestTokenGetMissingKeyReturnsNotFound(t *testing.T) {
	s, tok, worker := newTestToken(t)
	defer s.Close()
	defer worker.Close()
	defer tok.Close()

	key := cachekey.NewKey([]byte("select never-put"))
	done := make(chan ResultCode, 1)
	tok.GetValue(context.Background(), key, func(code ResultCode, _ cachekey.Value) {
		done <- code
	})

	select {
	case got := <-done:
		if got != ResultNotFound {
			t.Fatalf("expected ResultNotFound, got %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for get callback")
	}
}

func TestTokenDeleteThenGetMisses(t *testing.T) {
	s, tok, worker := newTestToken(t)
	defer s.Close()
	defer worker.Close()
	defer tok.Close()

	key := cachekey.NewKey([]byte("select to-delete"))
	put := make(chan ResultCode, 1)
	tok.PutValue(context.Background(), key, nil, cachekey.NewValue([]byte("x")), func(c ResultCode) { put <- c })
	if got := <-put; got != ResultOK {
		t.Fatalf("put: expected ResultOK, got %v", got)
	}

	del := make(chan ResultCode, 1)
	tok.DelValue(context.Background(), key, func(c ResultCode) { del <- c })
	if got := <-del; got != ResultOK {
		t.Fatalf("delete: expected ResultOK, got %v", got)
	}

	get := make(chan ResultCode, 1)
	tok.GetValue(context.Background(), key, func(c ResultCode, _ cachekey.Value) { get <- c })
	if got := <-get; got != ResultNotFound {
		t.Fatalf("get after delete: expected ResultNotFound, got %v", got)
	}
}

func TestTokenPutWithWordsThenInvalidateRemovesKey(t *testing.T) {
	s, tok, worker := newTestToken(t)
	defer s.Close()
	defer worker.Close()
	defer tok.Close()

	key := cachekey.NewKey([]byte("select * from accounts"))
	words := cachekey.Words{cachekey.Word("accounts")}

	put := make(chan ResultCode, 1)
	tok.PutValue(context.Background(), key, words, cachekey.NewValue([]byte("rows")), func(c ResultCode) { put <- c })
	if got := <-put; got != ResultOK {
		t.Fatalf("put: expected ResultOK, got %v", got)
	}

	inv := make(chan ResultCode, 1)
	tok.Invalidate(context.Background(), words, func(c ResultCode) { inv <- c })
	if got := <-inv; got != ResultOK {
		t.Fatalf("invalidate: expected ResultOK, got %v", got)
	}

	get := make(chan ResultCode, 1)
	tok.GetValue(context.Background(), key, func(c ResultCode, _ cachekey.Value) { get <- c })
	if got := <-get; got != ResultNotFound {
		t.Fatalf("get after invalidate: expected ResultNotFound, got %v", got)
	}
}

func TestTokenInvalidateWithNoMatchingKeysIsOK(t *testing.T) {
	s, tok, worker := newTestToken(t)
	defer s.Close()
	defer worker.Close()
	defer tok.Close()

	inv := make(chan ResultCode, 1)
	tok.Invalidate(context.Background(), cachekey.Words{cachekey.Word("no-such-table")}, func(c ResultCode) { inv <- c })
	if got := <-inv; got != ResultOK {
		t.Fatalf("expected ResultOK for an invalidate with nothing to remove, got %v", got)
	}
}

func TestTokenInvalidateRejectsEmptyWord(t *testing.T) {
	s, tok, worker := newTestToken(t)
	defer s.Close()
	defer worker.Close()
	defer tok.Close()

	code := tok.Invalidate(context.Background(), cachekey.Words{cachekey.Word("")}, func(ResultCode) {
		t.Fatal("callback should not run for a synchronously rejected call")
	})
	if code != ResultError {
		t.Fatalf("expected ResultError, got %v", code)
	}
}

func TestTokenCloseWithCallInFlightDoesNotHang(t *testing.T) {
	s, tok, worker := newTestToken(t)
	defer s.Close()
	defer worker.Close()

	key := cachekey.NewKey([]byte("select closed-race"))
	called := make(chan struct{}, 1)
	tok.GetValue(context.Background(), key, func(ResultCode, cachekey.Value) {
		called <- struct{}{}
	})
	tok.Close()

	select {
	case <-called:
		// The single in-flight call's own pin can still outrace Close
		// delivering its callback; both outcomes are acceptable here,
		// this test only guards against a panic or hang.
	case <-time.After(500 * time.Millisecond):
	}
}

func TestTokenStatsTracksOperations(t *testing.T) {
	s, tok, worker := newTestToken(t)
	defer s.Close()
	defer worker.Close()
	defer tok.Close()

	key := cachekey.NewKey([]byte("select stats"))
	done := make(chan ResultCode, 1)
	tok.PutValue(context.Background(), key, nil, cachekey.NewValue([]byte("v")), func(c ResultCode) { done <- c })
	<-done

	done2 := make(chan ResultCode, 1)
	tok.GetValue(context.Background(), key, func(c ResultCode, _ cachekey.Value) { done2 <- c })
	<-done2

	stats := tok.Stats()
	if stats.Puts != 1 {
		t.Fatalf("expected 1 put, got %d", stats.Puts)
	}
	if stats.Gets != 1 || stats.Hits != 1 {
		t.Fatalf("expected 1 get/1 hit, got gets=%d hits=%d", stats.Gets, stats.Hits)
	}
}
