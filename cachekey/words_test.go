package cachekey

import (
	"errors"
	"testing"
)

func TestWordsValidate(t *testing.T) {
	ws := Words{Word("t1"), Word("t2")}
	if err := ws.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Words(nil).Validate(); err != nil {
		t.Fatalf("nil Words should validate, got: %v", err)
	}

	bad := Words{Word("t1"), Word("")}
	if err := bad.Validate(); !errors.Is(err, ErrEmptyWord) {
		t.Fatalf("expected ErrEmptyWord, got %v", err)
	}
}

func TestWordsStrings(t *testing.T) {
	ws := Words{Word("t1"), Word("t2")}
	got := ws.Strings()
	want := []string{"t1", "t2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
