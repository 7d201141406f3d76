package cachekey

import "testing"

func TestKeyEqual(t *testing.T) {
	a := NewKey([]byte("select * from t"))
	b := NewKey([]byte("select * from t"))
	c := NewKey([]byte("select * from u"))

	if !a.Equal(b) {
		t.Fatal("expected equal keys to compare equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different keys to compare unequal")
	}
}

func TestKeyToVectorIsDefensiveCopy(t *testing.T) {
	raw := []byte("fingerprint")
	k := NewKey(raw)

	raw[0] = 'X'
	if string(k.ToVector()) != "fingerprint" {
		t.Fatalf("mutating caller's slice affected the key: %q", k.ToVector())
	}

	v := k.ToVector()
	v[0] = 'Y'
	if string(k.ToVector()) != "fingerprint" {
		t.Fatalf("mutating returned vector affected the key: %q", k.ToVector())
	}
}

func TestKeyIsZero(t *testing.T) {
	var zero Key
	if !zero.IsZero() {
		t.Fatal("expected zero-value Key to report IsZero")
	}
	if NewKey([]byte("x")).IsZero() {
		t.Fatal("expected non-empty Key to report non-zero")
	}
}
